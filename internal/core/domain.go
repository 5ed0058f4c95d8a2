package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseStatus string

const (
	ExpenseActive   ExpenseStatus = "active"
	ExpenseInactive ExpenseStatus = "inactive"
)

// Channel identifies a money-receiving account (e.g. "paypal", "zelle").
// The set of valid channels is fixed by configuration.
type Channel string

// Channels is the configured channel registry. The first entry is the
// default channel used when a record does not name one.
type Channels []Channel

func (cs Channels) Default() Channel {
	if len(cs) == 0 {
		return ""
	}
	return cs[0]
}

func (cs Channels) Contains(c Channel) bool {
	for _, known := range cs {
		if known == c {
			return true
		}
	}
	return false
}

// SponsorshipItem is a fundable item whose total cost is split across a
// fixed number of sponsor slots.
type SponsorshipItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	TotalCost decimal.Decimal `json:"total_cost"`
	SlotLimit int             `json:"slot_limit"`
}

func (it SponsorshipItem) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if it.TotalCost.IsNegative() {
		return fmt.Errorf("%w: item cost cannot be negative", ErrInvalidInput)
	}
	if it.SlotLimit < 1 {
		return fmt.Errorf("%w: slot limit must be at least 1", ErrInvalidConfiguration)
	}
	return nil
}

// Contribution records one person's submission: at most one sponsored slot
// plus an optional free-form donation.
type Contribution struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	Donation  decimal.Decimal `json:"donation"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

func (c Contribution) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contributor name is required", ErrInvalidInput)
	}
	if c.Donation.IsNegative() {
		return fmt.Errorf("%w: donation amount cannot be negative", ErrInvalidInput)
	}
	if c.ItemID == nil && !c.Donation.IsPositive() {
		return fmt.Errorf("%w: sponsor an item or donate an amount", ErrInvalidInput)
	}
	if e := strings.TrimSpace(c.Email); e != "" && !strings.Contains(e, "@") {
		return fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	return nil
}

// Expense is money spent on behalf of the event. SpentBy is empty when the
// fund itself paid. Amount may be negative for corrections. Voided expenses
// stay on record with status inactive.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	SpentBy     string          `json:"spent_by,omitempty"`
	Comments    string          `json:"comments,omitempty"`
	Status      ExpenseStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: expense category is required", ErrInvalidInput)
	}
	if strings.TrimSpace(e.SubCategory) == "" {
		return fmt.Errorf("%w: expense sub category is required", ErrInvalidInput)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: expense date is required", ErrInvalidInput)
	}
	switch e.Status {
	case ExpenseActive, ExpenseInactive:
	default:
		return fmt.Errorf("%w: unknown expense status %q", ErrInvalidInput, e.Status)
	}
	return nil
}

// Payment is cash actually received into the fund through a channel.
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	ReceivedBy string          `json:"received_by,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Comments   string          `json:"comments,omitempty"`
	Channel    Channel         `json:"channel"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by,omitempty"`
}

func (p Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: payment date is required", ErrInvalidInput)
	}
	if p.Channel == "" {
		return fmt.Errorf("%w: payment channel is required", ErrInvalidInput)
	}
	return nil
}

// Settlement is a reimbursement paid out of a channel's balance to someone
// who fronted expenses.
type Settlement struct {
	ID        uuid.UUID       `json:"id"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Channel   Channel         `json:"channel"`
	Comments  string          `json:"comments,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

func (s Settlement) Validate() error {
	if strings.TrimSpace(s.Recipient) == "" {
		return fmt.Errorf("%w: settlement recipient is required", ErrInvalidInput)
	}
	if !s.Amount.IsPositive() {
		return fmt.Errorf("%w: settlement amount must be positive", ErrInvalidInput)
	}
	if s.Channel == "" {
		return fmt.Errorf("%w: settlement channel is required", ErrInvalidInput)
	}
	return nil
}

// PersonKey normalizes a display name into the key used to correlate
// expenses with settlements. Case, surrounding space and repeated inner
// space are ignored so "Alice  Rao" and "alice rao" settle the same person.
func PersonKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
