package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
	"sevaledger/internal/ledger"
	"sevaledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	l := ledger.New(memory.NewStore(), nil, core.Channels{"paypal", "zelle"})
	srv := NewServer(":0", l)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestItemLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/items", map[string]any{
		"name":       "Idol",
		"total_cost": "300",
		"slot_limit": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /items = %d, body %s", rec.Code, rec.Body)
	}
	item := decodeBody[core.SponsorshipItem](t, rec)

	rec = doJSON(t, srv, http.MethodGet, "/items/"+item.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /items/{id} = %d", rec.Code)
	}
	view := decodeBody[ledger.ItemAvailability](t, rec)
	if view.RemainingSlots != 3 {
		t.Errorf("RemainingSlots = %d, want 3", view.RemainingSlots)
	}
	if !view.PerSlotPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("PerSlotPrice = %s, want 100", view.PerSlotPrice)
	}

	rec = doJSON(t, srv, http.MethodGet, "/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /items = %d", rec.Code)
	}
	items := decodeBody[[]ledger.ItemAvailability](t, rec)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	rec = doJSON(t, srv, http.MethodDelete, "/items/"+item.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /items/{id} = %d", rec.Code)
	}
}

func TestItemValidationStatus(t *testing.T) {
	srv := newTestServer(t)

	// Zero slot limit is a configuration fault: 422.
	rec := doJSON(t, srv, http.MethodPost, "/items", map[string]any{
		"name":       "Broken",
		"total_cost": "100",
		"slot_limit": 0,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /items with zero slots = %d, want 422", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/items/not-a-uuid", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("GET /items/not-a-uuid = %d, want 422", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/items", map[string]any{
		"name":    "Extra",
		"surpise": true,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /items with unknown field = %d, want 422", rec.Code)
	}
}

func TestContributionEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/items", map[string]any{
		"name":       "Flowers",
		"total_cost": "90",
		"slot_limit": 1,
	})
	item := decodeBody[core.SponsorshipItem](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/contributions", map[string]any{
		"name":    "First",
		"item_id": item.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /contributions = %d, body %s", rec.Code, rec.Body)
	}

	// Second submission on the single slot conflicts.
	rec = doJSON(t, srv, http.MethodPost, "/contributions", map[string]any{
		"name":    "Second",
		"item_id": item.ID,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("POST /contributions on full item = %d, want 409", rec.Code)
	}

	// Deleting the item while a sponsor holds its slot conflicts too.
	rec = doJSON(t, srv, http.MethodDelete, "/items/"+item.ID.String(), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("DELETE /items/{id} in use = %d, want 409", rec.Code)
	}

	// Neither slot nor donation.
	rec = doJSON(t, srv, http.MethodPost, "/contributions", map[string]any{
		"name": "Empty",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST /contributions empty = %d, want 422", rec.Code)
	}
}

func TestExpenseAndSummaryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, p := range []map[string]any{
		{"amount": "500", "date": "2026-06-01T00:00:00Z", "channel": "paypal"},
		{"amount": "200", "date": "2026-06-01T00:00:00Z", "channel": "zelle"},
	} {
		if rec := doJSON(t, srv, http.MethodPost, "/payments", p); rec.Code != http.StatusCreated {
			t.Fatalf("POST /payments = %d, body %s", rec.Code, rec.Body)
		}
	}

	rec := doJSON(t, srv, http.MethodPost, "/expenses", map[string]any{
		"category":     "Food",
		"sub_category": "Groceries",
		"amount":       "150",
		"date":         "2026-06-02T00:00:00Z",
		"spent_by":     "Alice Rao",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /expenses = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodPost, "/expenses", map[string]any{
		"category":     "Oops",
		"sub_category": "Typo",
		"amount":       "9999",
		"date":         "2026-06-02T00:00:00Z",
	})
	wrong := decodeBody[core.Expense](t, rec)
	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/expenses/%s/void", wrong.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("POST /expenses/{id}/void = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/summary/wallet", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /summary/wallet = %d", rec.Code)
	}
	summary := decodeBody[ledger.WalletSummary](t, rec)
	if !summary.WalletBalance.Equal(decimal.NewFromInt(550)) {
		t.Errorf("WalletBalance = %s, want 550", summary.WalletBalance)
	}

	rec = doJSON(t, srv, http.MethodPost, "/settlements", map[string]any{
		"recipient": "Alice Rao",
		"amount":    "50",
		"channel":   "paypal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /settlements = %d, body %s", rec.Code, rec.Body)
	}

	// Settling beyond what the channel holds conflicts.
	rec = doJSON(t, srv, http.MethodPost, "/settlements", map[string]any{
		"recipient": "Alice Rao",
		"amount":    "10000",
		"channel":   "paypal",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("POST /settlements over balance = %d, want 409", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/summary/settlements", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /summary/settlements = %d", rec.Code)
	}
	lines := decodeBody[[]ledger.SettlementLine](t, rec)
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if !lines[0].Pending.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Pending = %s, want 100", lines[0].Pending)
	}
}

func TestNotFoundMapsTo404(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/items/00000000-0000-0000-0000-000000000001", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET missing item = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}
