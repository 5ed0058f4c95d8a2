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

type ExpenseInput struct {
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	SpentBy     string          `json:"spent_by"`
	Comments    string          `json:"comments"`
	Actor       string          `json:"-"`
}

func (l *Ledger) RecordExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e := core.Expense{
		ID:          uuid.New(),
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Amount:      in.Amount,
		Date:        in.Date,
		SpentBy:     in.SpentBy,
		Comments:    in.Comments,
		Status:      core.ExpenseActive,
		CreatedAt:   l.now().UTC(),
		CreatedBy:   in.Actor,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := l.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	l.fireEvent(ctx, notify.EventExpenseRecorded, in.Actor, e)
	return e, nil
}

func (l *Ledger) UpdateExpense(ctx context.Context, id uuid.UUID, in ExpenseInput) (core.Expense, error) {
	e, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	e.Category = in.Category
	e.SubCategory = in.SubCategory
	e.Amount = in.Amount
	e.Date = in.Date
	e.SpentBy = in.SpentBy
	e.Comments = in.Comments
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := l.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	l.fireEvent(ctx, notify.EventExpenseUpdated, in.Actor, e)
	return e, nil
}

// VoidExpense tombstones an expense: it drops out of every total but stays
// retrievable by id with status inactive.
func (l *Ledger) VoidExpense(ctx context.Context, id uuid.UUID, actor string) error {
	e, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	if err := l.store.SetExpenseStatus(ctx, id, core.ExpenseInactive); err != nil {
		return fmt.Errorf("void expense: %w", err)
	}
	e.Status = core.ExpenseInactive
	l.fireEvent(ctx, notify.EventExpenseVoided, actor, e)
	return nil
}

func (l *Ledger) GetExpense(ctx context.Context, id uuid.UUID) (core.Expense, error) {
	return l.store.GetExpense(ctx, id)
}

// ListActiveExpenses returns the expenses that count toward totals.
func (l *Ledger) ListActiveExpenses(ctx context.Context) ([]core.Expense, error) {
	all, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	active := all[:0:0]
	for _, e := range all {
		if e.Status == core.ExpenseActive {
			active = append(active, e)
		}
	}
	return active, nil
}

// TotalActiveExpenses sums active expense rows; voided rows never count.
func (l *Ledger) TotalActiveExpenses(ctx context.Context) (decimal.Decimal, error) {
	active, err := l.ListActiveExpenses(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range active {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// spenderTotal pairs the first-seen display name with the amount fronted.
type spenderTotal struct {
	name  string
	total decimal.Decimal
}

// totalsBySpender groups active expenses by the person who fronted them,
// keyed by normalized name. Expenses paid by the fund itself are excluded.
func (l *Ledger) totalsBySpender(ctx context.Context) (map[string]spenderTotal, error) {
	active, err := l.ListActiveExpenses(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]spenderTotal)
	for _, e := range active {
		key := core.PersonKey(e.SpentBy)
		if key == "" {
			continue
		}
		st, ok := totals[key]
		if !ok {
			st.name = e.SpentBy
		}
		st.total = st.total.Add(e.Amount)
		totals[key] = st
	}
	return totals, nil
}
