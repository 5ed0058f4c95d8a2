package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
	"sevaledger/internal/ledger"
	"sevaledger/internal/notify"
	"sevaledger/internal/storage/memory"
)

func newTestWorker(t *testing.T, warnBelow int64) (*Worker, *ledger.Ledger) {
	t.Helper()
	l := ledger.New(memory.NewStore(), nil, core.Channels{"paypal", "zelle"})
	return New(l, decimal.NewFromInt(warnBelow)), l
}

func findKind(findings []Finding, kind string) *Finding {
	for i := range findings {
		if findings[i].Kind == kind {
			return &findings[i]
		}
	}
	return nil
}

func TestCheckReconciliationClean(t *testing.T) {
	w, l := newTestWorker(t, 500)
	ctx := context.Background()

	if _, err := l.RecordPayment(ctx, ledger.PaymentInput{
		Amount:  decimal.NewFromInt(1000),
		Date:    time.Now(),
		Channel: "paypal",
	}); err != nil {
		t.Fatal(err)
	}

	findings, err := w.CheckReconciliation(ctx)
	if err != nil {
		t.Fatalf("CheckReconciliation() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}

func TestCheckReconciliationLowWallet(t *testing.T) {
	w, l := newTestWorker(t, 500)
	ctx := context.Background()

	if _, err := l.RecordPayment(ctx, ledger.PaymentInput{
		Amount:  decimal.NewFromInt(100),
		Date:    time.Now(),
		Channel: "paypal",
	}); err != nil {
		t.Fatal(err)
	}

	findings, err := w.CheckReconciliation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if findKind(findings, FindingLowWallet) == nil {
		t.Errorf("findings = %v, want a low_wallet entry", findings)
	}
}

func TestCheckReconciliationOverSettled(t *testing.T) {
	w, l := newTestWorker(t, 0)
	ctx := context.Background()

	if _, err := l.RecordPayment(ctx, ledger.PaymentInput{
		Amount:  decimal.NewFromInt(1000),
		Date:    time.Now(),
		Channel: "paypal",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.RecordExpense(ctx, ledger.ExpenseInput{
		Category:    "Food",
		SubCategory: "Groceries",
		Amount:      decimal.NewFromInt(50),
		Date:        time.Now(),
		SpentBy:     "Alice Rao",
	}); err != nil {
		t.Fatal(err)
	}
	// Settle more than Alice spent. The guard checks the channel balance,
	// not per-person pending, so this is legal but worth flagging.
	if _, err := l.RecordSettlement(ctx, ledger.SettlementInput{
		Recipient: "Alice Rao",
		Amount:    decimal.NewFromInt(200),
		Channel:   "paypal",
	}); err != nil {
		t.Fatal(err)
	}

	findings, err := w.CheckReconciliation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f := findKind(findings, FindingOverSettled)
	if f == nil {
		t.Fatalf("findings = %v, want an over_settled entry", findings)
	}
	if f.Subject != "Alice Rao" {
		t.Errorf("Subject = %q, want Alice Rao", f.Subject)
	}
}

func TestHandleEvent(t *testing.T) {
	w, _ := newTestWorker(t, 0)

	e := notify.NewEvent(notify.EventPaymentRecorded, "treasurer", map[string]string{"k": "v"})
	if err := w.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
}
