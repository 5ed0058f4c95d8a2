package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
)

type ItemInput struct {
	Name      string          `json:"name"`
	TotalCost decimal.Decimal `json:"total_cost"`
	SlotLimit int             `json:"slot_limit"`
	Actor     string          `json:"-"`
}

func (l *Ledger) CreateItem(ctx context.Context, in ItemInput) (core.SponsorshipItem, error) {
	item := core.SponsorshipItem{
		ID:        uuid.New(),
		Name:      in.Name,
		TotalCost: in.TotalCost,
		SlotLimit: in.SlotLimit,
	}
	if err := item.Validate(); err != nil {
		return core.SponsorshipItem{}, err
	}
	if err := l.store.CreateItem(ctx, item); err != nil {
		return core.SponsorshipItem{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (l *Ledger) UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput) (core.SponsorshipItem, error) {
	item, err := l.store.GetItem(ctx, id)
	if err != nil {
		return core.SponsorshipItem{}, fmt.Errorf("get item: %w", err)
	}
	item.Name = in.Name
	item.TotalCost = in.TotalCost
	item.SlotLimit = in.SlotLimit
	if err := item.Validate(); err != nil {
		return core.SponsorshipItem{}, err
	}
	if err := l.store.UpdateItem(ctx, item); err != nil {
		return core.SponsorshipItem{}, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// DeleteItem refuses to remove an item that contributions still reference.
// There is deliberately no cascade: sponsors must be reassigned or deleted
// first, so a slip of the admin finger cannot drop contribution records.
func (l *Ledger) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := l.store.GetItem(ctx, id); err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	taken, err := l.store.CountContributionsByItem(ctx, id)
	if err != nil {
		return fmt.Errorf("count contributions: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("%w: %d contributions still reference item %s", core.ErrItemInUse, taken, id)
	}
	if err := l.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
