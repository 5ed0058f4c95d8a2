package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
)

// ItemAvailability is the public view of one sponsorship item: how many
// slots are left, what one slot costs and who holds the taken slots.
type ItemAvailability struct {
	Item           core.SponsorshipItem `json:"item"`
	RemainingSlots int                  `json:"remaining_slots"`
	PerSlotPrice   decimal.Decimal      `json:"per_slot_price"`
	SponsorNames   []string             `json:"sponsor_names,omitempty"`
	OverSubscribed bool                 `json:"over_subscribed,omitempty"`
}

// remainingSlots reports limit minus taken slots, floored at zero. An item
// pushed past its limit by a historical race is not rejected retroactively;
// it reports zero remaining and is flagged over-subscribed.
func (l *Ledger) remainingSlots(ctx context.Context, item core.SponsorshipItem) (int, bool, error) {
	taken, err := l.store.CountContributionsByItem(ctx, item.ID)
	if err != nil {
		return 0, false, fmt.Errorf("count contributions for item %s: %w", item.ID, err)
	}
	remaining := item.SlotLimit - taken
	if remaining < 0 {
		return 0, true, nil
	}
	return remaining, false, nil
}

// ItemAvailability resolves the availability view for a single item.
func (l *Ledger) ItemAvailability(ctx context.Context, itemID uuid.UUID) (ItemAvailability, error) {
	item, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		return ItemAvailability{}, fmt.Errorf("get item: %w", err)
	}
	remaining, over, err := l.remainingSlots(ctx, item)
	if err != nil {
		return ItemAvailability{}, err
	}
	perSlot, err := core.PerSlotPrice(item.TotalCost, item.SlotLimit)
	if err != nil {
		return ItemAvailability{}, err
	}
	return ItemAvailability{
		Item:           item,
		RemainingSlots: remaining,
		PerSlotPrice:   perSlot,
		OverSubscribed: over,
	}, nil
}

// ListItemsWithAvailability returns every item with remaining slots,
// per-slot price and the sponsor names already holding slots.
func (l *Ledger) ListItemsWithAvailability(ctx context.Context) ([]ItemAvailability, error) {
	items, err := l.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	contributions, err := l.store.ListContributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}

	taken := make(map[uuid.UUID]int)
	sponsors := make(map[uuid.UUID][]string)
	for _, c := range contributions {
		if c.ItemID == nil {
			continue
		}
		taken[*c.ItemID]++
		sponsors[*c.ItemID] = append(sponsors[*c.ItemID], c.Name)
	}

	out := make([]ItemAvailability, 0, len(items))
	for _, item := range items {
		perSlot, err := core.PerSlotPrice(item.TotalCost, item.SlotLimit)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Name, err)
		}
		remaining := item.SlotLimit - taken[item.ID]
		over := remaining < 0
		if over {
			remaining = 0
		}
		names := sponsors[item.ID]
		sort.Strings(names)
		out = append(out, ItemAvailability{
			Item:           item,
			RemainingSlots: remaining,
			PerSlotPrice:   perSlot,
			SponsorNames:   names,
			OverSubscribed: over,
		})
	}
	return out, nil
}
