// Package worker hosts the audit consumer and the periodic reconciliation
// checks that watch the books for drift.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"sevaledger/internal/ledger"
	"sevaledger/internal/notify"
)

// Worker consumes ledger events for the audit trail and periodically checks
// the aggregated views for suspicious positions.
type Worker struct {
	ledger *ledger.Ledger

	// wallet balances below this threshold raise a finding
	walletWarnBelow decimal.Decimal
}

func New(l *ledger.Ledger, walletWarnBelow decimal.Decimal) *Worker {
	return &Worker{
		ledger:          l,
		walletWarnBelow: walletWarnBelow,
	}
}

// HandleEvent records one ledger mutation in the audit log. It is the
// handler wired into the broker consumer.
func (w *Worker) HandleEvent(ctx context.Context, e notify.Event) error {
	slog.InfoContext(ctx, "Audit entry",
		"event_id", e.ID,
		"type", e.Type,
		"actor", e.Actor,
		"occurred_at", e.OccurredAt,
		"payload_bytes", len(e.Payload))
	return nil
}

// Finding is one reconciliation warning. Findings never block writes; they
// are surfaced for a human to look at.
type Finding struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}

const (
	FindingOverSettled  = "over_settled"
	FindingLowWallet    = "low_wallet"
	FindingOverSlots    = "over_subscribed"
	FindingChannelDrain = "channel_drained"
)

// CheckReconciliation sweeps the aggregated views and reports anything that
// needs attention: people settled beyond what they spent, items pushed past
// their slot limit, drained channels and a wallet running low.
func (w *Worker) CheckReconciliation(ctx context.Context) ([]Finding, error) {
	var findings []Finding

	lines, err := w.ledger.SettlementsSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("settlements summary: %w", err)
	}
	for _, line := range lines {
		if line.Pending.IsNegative() {
			findings = append(findings, Finding{
				Kind:    FindingOverSettled,
				Subject: line.Name,
				Detail: fmt.Sprintf("settled %s against %s spent",
					line.TotalReceived, line.TotalSpent),
			})
		}
	}

	summary, err := w.ledger.WalletSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet summary: %w", err)
	}
	if summary.WalletBalance.LessThan(w.walletWarnBelow) {
		findings = append(findings, Finding{
			Kind:    FindingLowWallet,
			Subject: "wallet",
			Detail: fmt.Sprintf("balance %s below threshold %s",
				summary.WalletBalance, w.walletWarnBelow),
		})
	}
	for _, cb := range summary.PerChannel {
		if cb.Available.IsNegative() {
			findings = append(findings, Finding{
				Kind:    FindingChannelDrain,
				Subject: string(cb.Channel),
				Detail: fmt.Sprintf("settled %s against %s received",
					cb.Settled, cb.Received),
			})
		}
	}

	items, err := w.ledger.ListItemsWithAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	for _, view := range items {
		if view.OverSubscribed {
			findings = append(findings, Finding{
				Kind:    FindingOverSlots,
				Subject: view.Item.Name,
				Detail: fmt.Sprintf("%d sponsors against %d slots",
					len(view.SponsorNames), view.Item.SlotLimit),
			})
		}
	}

	for _, f := range findings {
		slog.WarnContext(ctx, "Reconciliation finding",
			"kind", f.Kind,
			"subject", f.Subject,
			"detail", f.Detail)
	}
	if len(findings) == 0 {
		slog.DebugContext(ctx, "Reconciliation clean")
	}

	return findings, nil
}
