package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"sevaledger/internal/core"
)

// ChannelBalance is the per-channel view: what came in, what went back out
// as settlements and what is still available to settle from.
type ChannelBalance struct {
	Channel   core.Channel    `json:"channel"`
	Received  decimal.Decimal `json:"received"`
	Settled   decimal.Decimal `json:"settled"`
	Available decimal.Decimal `json:"available"`
}

// WalletSummary is the headline financial position of the fund.
//
// WalletBalance deliberately ignores settlements: settling moves money from
// the fund's account to a person who already fronted that amount, so the
// fund's net position does not change. Per-channel availability is where
// settlements bite.
type WalletSummary struct {
	WalletBalance       decimal.Decimal  `json:"wallet_balance"`
	TotalReceived       decimal.Decimal  `json:"total_received"`
	TotalActiveExpenses decimal.Decimal  `json:"total_active_expenses"`
	TotalPledged        decimal.Decimal  `json:"total_pledged"`
	PerChannel          []ChannelBalance `json:"per_channel"`
}

// SettlementLine is one person's reimbursement position: what they fronted,
// what they have been paid back and what is still owed.
type SettlementLine struct {
	Name          string          `json:"name"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalReceived decimal.Decimal `json:"total_received"`
	Pending       decimal.Decimal `json:"pending"`
}

// WalletSummary computes the fund position from the raw books. It is a pure
// read: calling it twice in a row with no writes in between returns the
// same numbers.
func (l *Ledger) WalletSummary(ctx context.Context) (WalletSummary, error) {
	received, err := l.receivedByChannel(ctx)
	if err != nil {
		return WalletSummary{}, err
	}
	settled, err := l.settledByChannel(ctx)
	if err != nil {
		return WalletSummary{}, err
	}
	expenses, err := l.TotalActiveExpenses(ctx)
	if err != nil {
		return WalletSummary{}, err
	}
	pledged, err := l.pledgedTotals(ctx)
	if err != nil {
		return WalletSummary{}, err
	}

	totalReceived := decimal.Zero
	perChannel := make([]ChannelBalance, 0, len(l.channels))
	for _, ch := range l.channels {
		in := received[ch]
		out := settled[ch]
		totalReceived = totalReceived.Add(in)
		perChannel = append(perChannel, ChannelBalance{
			Channel:   ch,
			Received:  in,
			Settled:   out,
			Available: in.Sub(out),
		})
	}

	totalPledged := decimal.Zero
	for _, amount := range pledged {
		totalPledged = totalPledged.Add(amount)
	}

	return WalletSummary{
		WalletBalance:       totalReceived.Sub(expenses),
		TotalReceived:       totalReceived,
		TotalActiveExpenses: expenses,
		TotalPledged:        totalPledged,
		PerChannel:          perChannel,
	}, nil
}

// ChannelAvailable is received minus settled for one channel. This is the
// number the settlement guard checks against.
func (l *Ledger) ChannelAvailable(ctx context.Context, ch core.Channel) (decimal.Decimal, error) {
	if !l.channels.Contains(ch) {
		return decimal.Zero, invalidInputf("unknown channel %q", ch)
	}
	received, err := l.receivedByChannel(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	settled, err := l.settledByChannel(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return received[ch].Sub(settled[ch]), nil
}

// SettlementsSummary lists every person who fronted an expense or received a
// settlement, with their pending reimbursement. A person who was settled
// more than they spent shows a negative pending amount rather than being
// hidden; the reconciliation worker flags those.
func (l *Ledger) SettlementsSummary(ctx context.Context) ([]SettlementLine, error) {
	spent, err := l.totalsBySpender(ctx)
	if err != nil {
		return nil, err
	}
	settled, err := l.settledByRecipient(ctx)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(spent)+len(settled))
	for k := range spent {
		keys[k] = struct{}{}
	}
	for k := range settled {
		keys[k] = struct{}{}
	}

	lines := make([]SettlementLine, 0, len(keys))
	for k := range keys {
		sp := spent[k]
		st := settled[k]
		name := sp.name
		if name == "" {
			name = st.name
		}
		lines = append(lines, SettlementLine{
			Name:          name,
			TotalSpent:    sp.total,
			TotalReceived: st.total,
			Pending:       sp.total.Sub(st.total),
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		return core.PersonKey(lines[i].Name) < core.PersonKey(lines[j].Name)
	})
	return lines, nil
}

// OutstandingReimbursements filters the settlements summary to people the
// fund still owes money.
func (l *Ledger) OutstandingReimbursements(ctx context.Context) ([]SettlementLine, error) {
	lines, err := l.SettlementsSummary(ctx)
	if err != nil {
		return nil, err
	}
	owed := lines[:0:0]
	for _, line := range lines {
		if line.Pending.IsPositive() {
			owed = append(owed, line)
		}
	}
	return owed, nil
}

// PendingReimbursement is the single-person view of the settlements summary.
func (l *Ledger) PendingReimbursement(ctx context.Context, name string) (decimal.Decimal, error) {
	spent, err := l.totalsBySpender(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	settledTotal, err := l.TotalSettledTo(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}
	return spent[core.PersonKey(name)].total.Sub(settledTotal), nil
}
