// Package memory provides an in-process Store used for tests and local
// development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"sevaledger/internal/core"
)

type Store struct {
	mu            sync.RWMutex
	items         map[uuid.UUID]core.SponsorshipItem
	contributions map[uuid.UUID]core.Contribution
	expenses      map[uuid.UUID]core.Expense
	payments      map[uuid.UUID]core.Payment
	settlements   map[uuid.UUID]core.Settlement
}

func NewStore() *Store {
	return &Store{
		items:         make(map[uuid.UUID]core.SponsorshipItem),
		contributions: make(map[uuid.UUID]core.Contribution),
		expenses:      make(map[uuid.UUID]core.Expense),
		payments:      make(map[uuid.UUID]core.Payment),
		settlements:   make(map[uuid.UUID]core.Settlement),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateItem(ctx context.Context, it core.SponsorshipItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, it core.SponsorshipItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[it.ID]; !ok {
		return fmt.Errorf("item %s: %w", it.ID, core.ErrNotFound)
	}
	s.items[it.ID] = it
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (core.SponsorshipItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return core.SponsorshipItem{}, fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	return it, nil
}

func (s *Store) ListItems(ctx context.Context) ([]core.SponsorshipItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.SponsorshipItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateContribution(ctx context.Context, c core.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contributions[c.ID] = c
	return nil
}

func (s *Store) UpdateContribution(ctx context.Context, c core.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contributions[c.ID]; !ok {
		return fmt.Errorf("contribution %s: %w", c.ID, core.ErrNotFound)
	}
	s.contributions[c.ID] = c
	return nil
}

func (s *Store) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contributions[id]; !ok {
		return fmt.Errorf("contribution %s: %w", id, core.ErrNotFound)
	}
	delete(s.contributions, id)
	return nil
}

func (s *Store) GetContribution(ctx context.Context, id uuid.UUID) (core.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contributions[id]
	if !ok {
		return core.Contribution{}, fmt.Errorf("contribution %s: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) ListContributions(ctx context.Context) ([]core.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Contribution, 0, len(s.contributions))
	for _, c := range s.contributions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountContributionsByItem(ctx context.Context, itemID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.contributions {
		if c.ItemID != nil && *c.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; !ok {
		return fmt.Errorf("expense %s: %w", e.ID, core.ErrNotFound)
	}
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) SetExpenseStatus(ctx context.Context, id uuid.UUID, status core.ExpenseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	e.Status = status
	s.expenses[id] = e
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreatePayment(ctx context.Context, p core.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
	return nil
}

func (s *Store) UpdatePayment(ctx context.Context, p core.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; !ok {
		return fmt.Errorf("payment %s: %w", p.ID, core.ErrNotFound)
	}
	s.payments[p.ID] = p
	return nil
}

func (s *Store) DeletePayment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return fmt.Errorf("payment %s: %w", id, core.ErrNotFound)
	}
	delete(s.payments, id)
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return core.Payment{}, fmt.Errorf("payment %s: %w", id, core.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateSettlement(ctx context.Context, st core.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlements[st.ID] = st
	return nil
}

func (s *Store) GetSettlement(ctx context.Context, id uuid.UUID) (core.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settlements[id]
	if !ok {
		return core.Settlement{}, fmt.Errorf("settlement %s: %w", id, core.ErrNotFound)
	}
	return st, nil
}

func (s *Store) ListSettlements(ctx context.Context) ([]core.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Settlement, 0, len(s.settlements))
	for _, st := range s.settlements {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
