// Package sqlite persists the ledger books in a local SQLite database.
// Money amounts are stored as decimal strings so they round-trip exactly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sevaledger/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
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

// affectedOrNotFound turns a zero-row UPDATE/DELETE into ErrNotFound.
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

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func (s *Store) CreateItem(ctx context.Context, it core.SponsorshipItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sponsorship_items (id, name, total_cost, slot_limit) VALUES (?, ?, ?, ?)`,
		it.ID.String(), it.Name, it.TotalCost.String(), it.SlotLimit)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, it core.SponsorshipItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sponsorship_items SET name = ?, total_cost = ?, slot_limit = ? WHERE id = ?`,
		it.Name, it.TotalCost.String(), it.SlotLimit, it.ID.String())
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return affectedOrNotFound(res, "item", it.ID)
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sponsorship_items WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return affectedOrNotFound(res, "item", id)
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (core.SponsorshipItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, total_cost, slot_limit FROM sponsorship_items WHERE id = ?`,
		id.String())
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SponsorshipItem{}, notFound("item", id)
	}
	return it, err
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
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (core.SponsorshipItem, error) {
	var (
		it       core.SponsorshipItem
		id, cost string
	)
	if err := row.Scan(&id, &it.Name, &cost, &it.SlotLimit); err != nil {
		return core.SponsorshipItem{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.SponsorshipItem{}, fmt.Errorf("parse item id: %w", err)
	}
	it.ID = parsed
	if it.TotalCost, err = parseDecimal(cost); err != nil {
		return core.SponsorshipItem{}, err
	}
	return it, nil
}

func (s *Store) CreateContribution(ctx context.Context, c core.Contribution) error {
	var itemID any
	if c.ItemID != nil {
		itemID = c.ItemID.String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contributions (id, name, email, phone, item_id, donation, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Email, c.Phone, itemID, c.Donation.String(), c.CreatedAt, c.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert contribution: %w", err)
	}
	return nil
}

func (s *Store) UpdateContribution(ctx context.Context, c core.Contribution) error {
	var itemID any
	if c.ItemID != nil {
		itemID = c.ItemID.String()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE contributions SET name = ?, email = ?, phone = ?, item_id = ?, donation = ? WHERE id = ?`,
		c.Name, c.Email, c.Phone, itemID, c.Donation.String(), c.ID.String())
	if err != nil {
		return fmt.Errorf("update contribution: %w", err)
	}
	return affectedOrNotFound(res, "contribution", c.ID)
}

func (s *Store) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM contributions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	return affectedOrNotFound(res, "contribution", id)
}

func (s *Store) GetContribution(ctx context.Context, id uuid.UUID) (core.Contribution, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, item_id, donation, created_at, created_by
		 FROM contributions WHERE id = ?`, id.String())
	c, err := scanContribution(row)
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
		`SELECT COUNT(*) FROM contributions WHERE item_id = ?`, itemID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count contributions: %w", err)
	}
	return n, nil
}

func scanContribution(row scanner) (core.Contribution, error) {
	var (
		c            core.Contribution
		id, donation string
		itemID       sql.NullString
		createdAt    time.Time
	)
	if err := row.Scan(&id, &c.Name, &c.Email, &c.Phone, &itemID, &donation, &createdAt, &c.CreatedBy); err != nil {
		return core.Contribution{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.Contribution{}, fmt.Errorf("parse contribution id: %w", err)
	}
	c.ID = parsed
	if itemID.Valid {
		ref, err := uuid.Parse(itemID.String)
		if err != nil {
			return core.Contribution{}, fmt.Errorf("parse item id: %w", err)
		}
		c.ItemID = &ref
	}
	if c.Donation, err = parseDecimal(donation); err != nil {
		return core.Contribution{}, err
	}
	c.CreatedAt = createdAt.UTC()
	return c, nil
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, category, sub_category, amount, spent_at, spent_by, comments, status, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Category, e.SubCategory, e.Amount.String(), e.Date, e.SpentBy,
		e.Comments, string(e.Status), e.CreatedAt, e.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category = ?, sub_category = ?, amount = ?, spent_at = ?, spent_by = ?, comments = ?, status = ?
		 WHERE id = ?`,
		e.Category, e.SubCategory, e.Amount.String(), e.Date, e.SpentBy, e.Comments,
		string(e.Status), e.ID.String())
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return affectedOrNotFound(res, "expense", e.ID)
}

func (s *Store) SetExpenseStatus(ctx context.Context, id uuid.UUID, status core.ExpenseStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET status = ? WHERE id = ?`, string(status), id.String())
	if err != nil {
		return fmt.Errorf("set expense status: %w", err)
	}
	return affectedOrNotFound(res, "expense", id)
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, sub_category, amount, spent_at, spent_by, comments, status, created_at, created_by
		 FROM expenses WHERE id = ?`, id.String())
	e, err := scanExpense(row)
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
		id, amount, status string
		spentAt, createdAt time.Time
	)
	if err := row.Scan(&id, &e.Category, &e.SubCategory, &amount, &spentAt, &e.SpentBy,
		&e.Comments, &status, &createdAt, &e.CreatedBy); err != nil {
		return core.Expense{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense id: %w", err)
	}
	e.ID = parsed
	if e.Amount, err = parseDecimal(amount); err != nil {
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
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.ReceivedBy, p.Amount.String(), p.Date, p.Comments,
		string(p.Channel), p.CreatedAt, p.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Store) UpdatePayment(ctx context.Context, p core.Payment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET received_by = ?, amount = ?, received_at = ?, comments = ?, channel = ?
		 WHERE id = ?`,
		p.ReceivedBy, p.Amount.String(), p.Date, p.Comments, string(p.Channel), p.ID.String())
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return affectedOrNotFound(res, "payment", p.ID)
}

func (s *Store) DeletePayment(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM payments WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return affectedOrNotFound(res, "payment", id)
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (core.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, received_by, amount, received_at, comments, channel, created_at, created_by
		 FROM payments WHERE id = ?`, id.String())
	p, err := scanPayment(row)
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
		id, amount, channel   string
		receivedAt, createdAt time.Time
	)
	if err := row.Scan(&id, &p.ReceivedBy, &amount, &receivedAt, &p.Comments,
		&channel, &createdAt, &p.CreatedBy); err != nil {
		return core.Payment{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.Payment{}, fmt.Errorf("parse payment id: %w", err)
	}
	p.ID = parsed
	if p.Amount, err = parseDecimal(amount); err != nil {
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
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.ID.String(), st.Recipient, st.Amount.String(), string(st.Channel),
		st.Comments, st.CreatedAt, st.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (s *Store) GetSettlement(ctx context.Context, id uuid.UUID) (core.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, recipient, amount, channel, comments, created_at, created_by
		 FROM settlements WHERE id = ?`, id.String())
	st, err := scanSettlement(row)
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
		st                  core.Settlement
		id, amount, channel string
		createdAt           time.Time
	)
	if err := row.Scan(&id, &st.Recipient, &amount, &channel, &st.Comments,
		&createdAt, &st.CreatedBy); err != nil {
		return core.Settlement{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.Settlement{}, fmt.Errorf("parse settlement id: %w", err)
	}
	st.ID = parsed
	if st.Amount, err = parseDecimal(amount); err != nil {
		return core.Settlement{}, err
	}
	st.Channel = core.Channel(channel)
	st.CreatedAt = createdAt.UTC()
	return st, nil
}
