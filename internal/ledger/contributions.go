package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
	"sevaledger/internal/notify"
)

type ContributionInput struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	ItemID   *uuid.UUID      `json:"item_id"`
	Donation decimal.Decimal `json:"donation"`
	Actor    string          `json:"-"`
}

// SubmitContribution validates and appends a contribution. When a slot is
// requested, the availability check and the insert run under the item's
// lock so concurrent submissions on the last slot cannot both win; the
// loser gets ErrSlotsExhausted.
func (l *Ledger) SubmitContribution(ctx context.Context, in ContributionInput) (core.Contribution, error) {
	c := core.Contribution{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		ItemID:    in.ItemID,
		Donation:  in.Donation,
		CreatedAt: l.now().UTC(),
		CreatedBy: in.Actor,
	}
	if err := c.Validate(); err != nil {
		return core.Contribution{}, err
	}

	if c.ItemID != nil {
		if err := l.claimSlot(ctx, *c.ItemID, c); err != nil {
			return core.Contribution{}, err
		}
	} else {
		if err := l.store.CreateContribution(ctx, c); err != nil {
			return core.Contribution{}, fmt.Errorf("create contribution: %w", err)
		}
	}

	l.fireEvent(ctx, notify.EventContributionCreated, in.Actor, c)
	return c, nil
}

func (l *Ledger) claimSlot(ctx context.Context, itemID uuid.UUID, c core.Contribution) error {
	lock := l.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return invalidInputf("unknown sponsorship item %s", itemID)
		}
		return fmt.Errorf("get item: %w", err)
	}
	remaining, _, err := l.remainingSlots(ctx, item)
	if err != nil {
		return err
	}
	if remaining <= 0 {
		return fmt.Errorf("%w: item %q is fully sponsored", core.ErrSlotsExhausted, item.Name)
	}
	if err := l.store.CreateContribution(ctx, c); err != nil {
		return fmt.Errorf("create contribution: %w", err)
	}
	return nil
}

// UpdateContribution is the admin correction path. Reassigning an item does
// not re-check availability, so an admin can move a sponsor onto a full item
// on purpose; the availability view flags the overage instead.
func (l *Ledger) UpdateContribution(ctx context.Context, id uuid.UUID, in ContributionInput) (core.Contribution, error) {
	c, err := l.store.GetContribution(ctx, id)
	if err != nil {
		return core.Contribution{}, fmt.Errorf("get contribution: %w", err)
	}
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.ItemID = in.ItemID
	c.Donation = in.Donation
	if err := c.Validate(); err != nil {
		return core.Contribution{}, err
	}
	if c.ItemID != nil {
		if _, err := l.store.GetItem(ctx, *c.ItemID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.Contribution{}, invalidInputf("unknown sponsorship item %s", *c.ItemID)
			}
			return core.Contribution{}, fmt.Errorf("get item: %w", err)
		}
	}
	if err := l.store.UpdateContribution(ctx, c); err != nil {
		return core.Contribution{}, fmt.Errorf("update contribution: %w", err)
	}
	l.fireEvent(ctx, notify.EventContributionUpdated, in.Actor, c)
	return c, nil
}

// DeleteContribution removes the record and thereby frees its slot for new
// submissions. Historical notifications are not retracted.
func (l *Ledger) DeleteContribution(ctx context.Context, id uuid.UUID, actor string) error {
	c, err := l.store.GetContribution(ctx, id)
	if err != nil {
		return fmt.Errorf("get contribution: %w", err)
	}
	if err := l.store.DeleteContribution(ctx, id); err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	l.fireEvent(ctx, notify.EventContributionDeleted, actor, c)
	return nil
}

func (l *Ledger) ListContributions(ctx context.Context) ([]core.Contribution, error) {
	return l.store.ListContributions(ctx)
}

// PerPersonContributedTotal is the canonical pledge figure for one person:
// the per-slot price of each sponsored item plus any donations. It is a
// commitment, not cash received.
func (l *Ledger) PerPersonContributedTotal(ctx context.Context, name string) (decimal.Decimal, error) {
	totals, err := l.pledgedTotals(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return totals[core.PersonKey(name)], nil
}

// pledgedTotals maps person key to pledged amount across all contributions.
func (l *Ledger) pledgedTotals(ctx context.Context) (map[string]decimal.Decimal, error) {
	contributions, err := l.store.ListContributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	items, err := l.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	perSlot := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		price, err := core.PerSlotPrice(item.TotalCost, item.SlotLimit)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Name, err)
		}
		perSlot[item.ID] = price
	}

	totals := make(map[string]decimal.Decimal)
	for _, c := range contributions {
		key := core.PersonKey(c.Name)
		sum := totals[key]
		if c.ItemID != nil {
			sum = sum.Add(perSlot[*c.ItemID])
		}
		sum = sum.Add(c.Donation)
		totals[key] = sum
	}
	return totals, nil
}
