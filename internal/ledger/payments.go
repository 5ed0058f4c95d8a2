package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
	"sevaledger/internal/notify"
)

type PaymentInput struct {
	ReceivedBy string          `json:"received_by"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Comments   string          `json:"comments"`
	Channel    core.Channel    `json:"channel"`
	Actor      string          `json:"-"`
}

// RecordPayment appends cash actually received. Payments are independent of
// contributions: a pledge does not count as received until a payment lands.
func (l *Ledger) RecordPayment(ctx context.Context, in PaymentInput) (core.Payment, error) {
	ch, err := l.resolveChannel(in.Channel)
	if err != nil {
		return core.Payment{}, err
	}
	p := core.Payment{
		ID:         uuid.New(),
		ReceivedBy: in.ReceivedBy,
		Amount:     in.Amount,
		Date:       in.Date,
		Comments:   in.Comments,
		Channel:    ch,
		CreatedAt:  l.now().UTC(),
		CreatedBy:  in.Actor,
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	if err := l.store.CreatePayment(ctx, p); err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	l.fireEvent(ctx, notify.EventPaymentRecorded, in.Actor, p)
	return p, nil
}

func (l *Ledger) UpdatePayment(ctx context.Context, id uuid.UUID, in PaymentInput) (core.Payment, error) {
	p, err := l.store.GetPayment(ctx, id)
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	ch, err := l.resolveChannel(in.Channel)
	if err != nil {
		return core.Payment{}, err
	}
	p.ReceivedBy = in.ReceivedBy
	p.Amount = in.Amount
	p.Date = in.Date
	p.Comments = in.Comments
	p.Channel = ch
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	if err := l.store.UpdatePayment(ctx, p); err != nil {
		return core.Payment{}, fmt.Errorf("update payment: %w", err)
	}
	l.fireEvent(ctx, notify.EventPaymentUpdated, in.Actor, p)
	return p, nil
}

func (l *Ledger) DeletePayment(ctx context.Context, id uuid.UUID, actor string) error {
	p, err := l.store.GetPayment(ctx, id)
	if err != nil {
		return fmt.Errorf("get payment: %w", err)
	}
	if err := l.store.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	l.fireEvent(ctx, notify.EventPaymentDeleted, actor, p)
	return nil
}

func (l *Ledger) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return l.store.ListPayments(ctx)
}

// TotalReceived sums every payment across all channels.
func (l *Ledger) TotalReceived(ctx context.Context) (decimal.Decimal, error) {
	payments, err := l.store.ListPayments(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list payments: %w", err)
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// receivedByChannel sums payments per channel. Every configured channel is
// present in the result, zero when nothing came in through it.
func (l *Ledger) receivedByChannel(ctx context.Context) (map[core.Channel]decimal.Decimal, error) {
	payments, err := l.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	totals := make(map[core.Channel]decimal.Decimal, len(l.channels))
	for _, ch := range l.channels {
		totals[ch] = decimal.Zero
	}
	for _, p := range payments {
		totals[p.Channel] = totals[p.Channel].Add(p.Amount)
	}
	return totals, nil
}
