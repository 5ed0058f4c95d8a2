// Package storage defines the persistence ports the ledger books write
// through. Backends live in the subpackages memory, sqlite and postgres.
package storage

import (
	"context"

	"github.com/google/uuid"

	"sevaledger/internal/core"
)

type ItemStore interface {
	CreateItem(ctx context.Context, it core.SponsorshipItem) error
	UpdateItem(ctx context.Context, it core.SponsorshipItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (core.SponsorshipItem, error)
	ListItems(ctx context.Context) ([]core.SponsorshipItem, error)
}

type ContributionStore interface {
	CreateContribution(ctx context.Context, c core.Contribution) error
	UpdateContribution(ctx context.Context, c core.Contribution) error
	DeleteContribution(ctx context.Context, id uuid.UUID) error
	GetContribution(ctx context.Context, id uuid.UUID) (core.Contribution, error)
	ListContributions(ctx context.Context) ([]core.Contribution, error)
	CountContributionsByItem(ctx context.Context, itemID uuid.UUID) (int, error)
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) error
	UpdateExpense(ctx context.Context, e core.Expense) error
	SetExpenseStatus(ctx context.Context, id uuid.UUID, status core.ExpenseStatus) error
	GetExpense(ctx context.Context, id uuid.UUID) (core.Expense, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p core.Payment) error
	UpdatePayment(ctx context.Context, p core.Payment) error
	DeletePayment(ctx context.Context, id uuid.UUID) error
	GetPayment(ctx context.Context, id uuid.UUID) (core.Payment, error)
	ListPayments(ctx context.Context) ([]core.Payment, error)
}

type SettlementStore interface {
	CreateSettlement(ctx context.Context, s core.Settlement) error
	GetSettlement(ctx context.Context, id uuid.UUID) (core.Settlement, error)
	ListSettlements(ctx context.Context) ([]core.Settlement, error)
}

// Store is the full persistence surface the ledger needs.
type Store interface {
	ItemStore
	ContributionStore
	ExpenseStore
	PaymentStore
	SettlementStore
	Close() error
}
