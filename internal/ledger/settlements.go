package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
	"sevaledger/internal/notify"
)

type SettlementInput struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Channel   core.Channel    `json:"channel"`
	Comments  string          `json:"comments"`
	Actor     string          `json:"-"`
}

// RecordSettlement pays a recipient back through a channel. The guard runs
// under settleMu: the settlement may not exceed what the channel currently
// holds, and two racing settlements cannot both pass the check against the
// same balance.
func (l *Ledger) RecordSettlement(ctx context.Context, in SettlementInput) (core.Settlement, error) {
	ch, err := l.resolveChannel(in.Channel)
	if err != nil {
		return core.Settlement{}, err
	}
	s := core.Settlement{
		ID:        uuid.New(),
		Recipient: in.Recipient,
		Amount:    in.Amount,
		Channel:   ch,
		Comments:  in.Comments,
		CreatedAt: l.now().UTC(),
		CreatedBy: in.Actor,
	}
	if err := s.Validate(); err != nil {
		return core.Settlement{}, err
	}

	l.settleMu.Lock()
	defer l.settleMu.Unlock()

	available, err := l.ChannelAvailable(ctx, ch)
	if err != nil {
		return core.Settlement{}, err
	}
	if s.Amount.GreaterThan(available) {
		return core.Settlement{}, fmt.Errorf("%w: channel %s holds %s, settlement asks %s",
			core.ErrInsufficientChannelBalance, ch, available, s.Amount)
	}
	if err := l.store.CreateSettlement(ctx, s); err != nil {
		return core.Settlement{}, fmt.Errorf("create settlement: %w", err)
	}
	l.fireEvent(ctx, notify.EventSettlementRecorded, in.Actor, s)
	return s, nil
}

func (l *Ledger) ListSettlements(ctx context.Context) ([]core.Settlement, error) {
	return l.store.ListSettlements(ctx)
}

// TotalSettledTo sums the settlements already paid to one person.
func (l *Ledger) TotalSettledTo(ctx context.Context, name string) (decimal.Decimal, error) {
	totals, err := l.settledByRecipient(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return totals[core.PersonKey(name)].total, nil
}

// settledByRecipient groups settlements by normalized recipient name.
func (l *Ledger) settledByRecipient(ctx context.Context) (map[string]spenderTotal, error) {
	settlements, err := l.store.ListSettlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	totals := make(map[string]spenderTotal)
	for _, s := range settlements {
		key := core.PersonKey(s.Recipient)
		if key == "" {
			continue
		}
		st, ok := totals[key]
		if !ok {
			st.name = s.Recipient
		}
		st.total = st.total.Add(s.Amount)
		totals[key] = st
	}
	return totals, nil
}

// settledByChannel sums settlements per channel.
func (l *Ledger) settledByChannel(ctx context.Context) (map[core.Channel]decimal.Decimal, error) {
	settlements, err := l.store.ListSettlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	totals := make(map[core.Channel]decimal.Decimal, len(l.channels))
	for _, ch := range l.channels {
		totals[ch] = decimal.Zero
	}
	for _, s := range settlements {
		totals[s.Channel] = totals[s.Channel].Add(s.Amount)
	}
	return totals, nil
}
