// Package postgres persists the ledger books in PostgreSQL. Amounts use
// NUMERIC columns and scan through shopspring decimal.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"sevaledger/internal/core"
)

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, core.ErrNotFound)
}

func affectedOrNotFound(res sql.Result, kind string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

func (s *Store) CreateItem(ctx context.Context, it core.SponsorshipItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sponsorship_items (id, name, total_cost, slot_limit) VALUES ($1, $2, $3, $4)`,
		it.ID, it.Name, it.TotalCost, it.SlotLimit)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, it core.SponsorshipItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sponsorship_items SET name = $1, total_cost = $2, slot_limit = $3 WHERE id = $4`,
		it.Name, it.TotalCost, it.SlotLimit, it.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return affectedOrNotFound(res, "item", it.ID)
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sponsorship_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return affectedOrNotFound(res, "item", id)
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (core.SponsorshipItem, error) {
	var it core.SponsorshipItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, total_cost, slot_limit FROM sponsorship_items WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.TotalCost, &it.SlotLimit)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SponsorshipItem{}, notFound("item", id)
	}
	if err != nil {
		return core.SponsorshipItem{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *Store) ListItems(ctx context.Context) ([]core.SponsorshipItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, total_cost, slot_limit FROM sponsorship_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []core.SponsorshipItem
	for rows.Next() {
		var it core.SponsorshipItem
		if err := rows.Scan(&it.ID, &it.Name, &it.TotalCost, &it.SlotLimit); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) CreateContribution(ctx context.Context, c core.Contribution) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contributions (id, name, email, phone, item_id, donation, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Email, c.Phone, c.ItemID, c.Donation, c.CreatedAt, c.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert contribution: %w", err)
	}
	return nil
}

func (s *Store) UpdateContribution(ctx context.Context, c core.Contribution) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contributions SET name = $1, email = $2, phone = $3, item_id = $4, donation = $5 WHERE id = $6`,
		c.Name, c.Email, c.Phone, c.ItemID, c.Donation, c.ID)
	if err != nil {
		return fmt.Errorf("update contribution: %w", err)
	}
	return affectedOrNotFound(res, "contribution", c.ID)
}

func (s *Store) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM contributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	return affectedOrNotFound(res, "contribution", id)
}

func (s *Store) GetContribution(ctx context.Context, id uuid.UUID) (core.Contribution, error) {
	c, err := scanContribution(s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, item_id, donation, created_at, created_by
		 FROM contributions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Contribution{}, notFound("contribution", id)
	}
	return c, err
}

func (s *Store) ListContributions(ctx context.Context) ([]core.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, item_id, donation, created_at, created_by
		 FROM contributions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var out []core.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CountContributionsByItem(ctx context.Context, itemID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contributions WHERE item_id = $1`, itemID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count contributions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContribution(row scanner) (core.Contribution, error) {
	var (
		c         core.Contribution
		itemID    uuid.NullUUID
		createdAt time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &itemID, &c.Donation,
		&createdAt, &c.CreatedBy); err != nil {
		return core.Contribution{}, err
	}
	if itemID.Valid {
		ref := itemID.UUID
		c.ItemID = &ref
	}
	c.CreatedAt = createdAt.UTC()
	return c, nil
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, category, sub_category, amount, spent_at, spent_by, comments, status, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Category, e.SubCategory, e.Amount, e.Date, e.SpentBy,
		e.Comments, string(e.Status), e.CreatedAt, e.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category = $1, sub_category = $2, amount = $3, spent_at = $4, spent_by = $5, comments = $6, status = $7
		 WHERE id = $8`,
		e.Category, e.SubCategory, e.Amount, e.Date, e.SpentBy, e.Comments,
		string(e.Status), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return affectedOrNotFound(res, "expense", e.ID)
}

func (s *Store) SetExpenseStatus(ctx context.Context, id uuid.UUID, status core.ExpenseStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("set expense status: %w", err)
	}
	return affectedOrNotFound(res, "expense", id)
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (core.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx,
		`SELECT id, category, sub_category, amount, spent_at, spent_by, comments, status, created_at, created_by
		 FROM expenses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, notFound("expense", id)
	}
	return e, err
}

func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, sub_category, amount, spent_at, spent_by, comments, status, created_at, created_by
		 FROM expenses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExpense(row scanner) (core.Expense, error) {
	var (
		e                  core.Expense
		status             string
		spentAt, createdAt time.Time
	)
	if err := row.Scan(&e.ID, &e.Category, &e.SubCategory, &e.Amount, &spentAt,
		&e.SpentBy, &e.Comments, &status, &createdAt, &e.CreatedBy); err != nil {
		return core.Expense{}, err
	}
	e.Status = core.ExpenseStatus(status)
	e.Date = spentAt.UTC()
	e.CreatedAt = createdAt.UTC()
	return e, nil
}

func (s *Store) CreatePayment(ctx context.Context, p core.Payment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, received_by, amount, received_at, comments, channel, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.ReceivedBy, p.Amount, p.Date, p.Comments, string(p.Channel), p.CreatedAt, p.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Store) UpdatePayment(ctx context.Context, p core.Payment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET received_by = $1, amount = $2, received_at = $3, comments = $4, channel = $5
		 WHERE id = $6`,
		p.ReceivedBy, p.Amount, p.Date, p.Comments, string(p.Channel), p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return affectedOrNotFound(res, "payment", p.ID)
}

func (s *Store) DeletePayment(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return affectedOrNotFound(res, "payment", id)
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (core.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx,
		`SELECT id, received_by, amount, received_at, comments, channel, created_at, created_by
		 FROM payments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, notFound("payment", id)
	}
	return p, err
}

func (s *Store) ListPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, received_by, amount, received_at, comments, channel, created_at, created_by
		 FROM payments ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row scanner) (core.Payment, error) {
	var (
		p                     core.Payment
		channel               string
		receivedAt, createdAt time.Time
	)
	if err := row.Scan(&p.ID, &p.ReceivedBy, &p.Amount, &receivedAt, &p.Comments,
		&channel, &createdAt, &p.CreatedBy); err != nil {
		return core.Payment{}, err
	}
	p.Channel = core.Channel(channel)
	p.Date = receivedAt.UTC()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

func (s *Store) CreateSettlement(ctx context.Context, st core.Settlement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, recipient, amount, channel, comments, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		st.ID, st.Recipient, st.Amount, string(st.Channel), st.Comments, st.CreatedAt, st.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (s *Store) GetSettlement(ctx context.Context, id uuid.UUID) (core.Settlement, error) {
	st, err := scanSettlement(s.db.QueryRowContext(ctx,
		`SELECT id, recipient, amount, channel, comments, created_at, created_by
		 FROM settlements WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settlement{}, notFound("settlement", id)
	}
	return st, err
}

func (s *Store) ListSettlements(ctx context.Context) ([]core.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient, amount, channel, comments, created_at, created_by
		 FROM settlements ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var out []core.Settlement
	for rows.Next() {
		st, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanSettlement(row scanner) (core.Settlement, error) {
	var (
		st        core.Settlement
		channel   string
		createdAt time.Time
	)
	if err := row.Scan(&st.ID, &st.Recipient, &st.Amount, &channel, &st.Comments,
		&createdAt, &st.CreatedBy); err != nil {
		return core.Settlement{}, err
	}
	st.Channel = core.Channel(channel)
	st.CreatedAt = createdAt.UTC()
	return st, nil
}
