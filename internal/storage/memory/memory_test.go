package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
)

func TestItemRoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	item := core.SponsorshipItem{
		ID:        uuid.New(),
		Name:      "Idol",
		TotalCost: decimal.NewFromInt(300),
		SlotLimit: 3,
	}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Idol" || !got.TotalCost.Equal(item.TotalCost) {
		t.Errorf("GetItem = %+v, want %+v", got, item)
	}

	if _, err := s.GetItem(ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetItem(unknown) = %v, want ErrNotFound", err)
	}
	if err := s.UpdateItem(ctx, core.SponsorshipItem{ID: uuid.New(), Name: "Ghost"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateItem(unknown) = %v, want ErrNotFound", err)
	}
	if err := s.DeleteItem(ctx, item.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetItem(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetItem after delete = %v, want ErrNotFound", err)
	}
}

func TestListItemsSortedByName(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, name := range []string{"Zither", "Altar", "Mat"} {
		if err := s.CreateItem(ctx, core.SponsorshipItem{ID: uuid.New(), Name: name, SlotLimit: 1}); err != nil {
			t.Fatal(err)
		}
	}

	items, err := s.ListItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Altar", "Mat", "Zither"}
	for i, it := range items {
		if it.Name != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, it.Name, want[i])
		}
	}
}

func TestCountContributionsByItem(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	itemID := uuid.New()
	other := uuid.New()
	for i, target := range []*uuid.UUID{&itemID, &itemID, &other, nil} {
		c := core.Contribution{
			ID:        uuid.New(),
			Name:      "Sponsor",
			ItemID:    target,
			Donation:  decimal.NewFromInt(int64(i)),
			CreatedAt: time.Now(),
		}
		if err := s.CreateContribution(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.CountContributionsByItem(ctx, itemID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountContributionsByItem = %d, want 2", n)
	}
}

func TestSetExpenseStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	e := core.Expense{
		ID:          uuid.New(),
		Category:    "Food",
		SubCategory: "Groceries",
		Amount:      decimal.NewFromInt(10),
		Date:        time.Now(),
		Status:      core.ExpenseActive,
		CreatedAt:   time.Now(),
	}
	if err := s.CreateExpense(ctx, e); err != nil {
		t.Fatal(err)
	}

	if err := s.SetExpenseStatus(ctx, e.ID, core.ExpenseInactive); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetExpense(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != core.ExpenseInactive {
		t.Errorf("Status = %q, want inactive", got.Status)
	}

	if err := s.SetExpenseStatus(ctx, uuid.New(), core.ExpenseInactive); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("SetExpenseStatus(unknown) = %v, want ErrNotFound", err)
	}
}

func TestListContributionsSortedByCreation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	base := time.Now()
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		c := core.Contribution{
			ID:        uuid.New(),
			Name:      string(rune('A' + i)),
			Donation:  decimal.NewFromInt(1),
			CreatedAt: base.Add(offset),
		}
		if err := s.CreateContribution(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	contributions, err := s.ListContributions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B", "C", "A"}
	for i, c := range contributions {
		if c.Name != want[i] {
			t.Errorf("contributions[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}
