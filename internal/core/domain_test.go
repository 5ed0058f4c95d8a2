package core

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestSponsorshipItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    SponsorshipItem
		wantErr error
	}{
		{
			name: "valid item",
			item: SponsorshipItem{ID: uuid.New(), Name: "Idol", TotalCost: decimal.NewFromInt(300), SlotLimit: 3},
		},
		{
			name:    "missing name",
			item:    SponsorshipItem{ID: uuid.New(), TotalCost: decimal.NewFromInt(300), SlotLimit: 3},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative cost",
			item:    SponsorshipItem{ID: uuid.New(), Name: "Idol", TotalCost: decimal.NewFromInt(-1), SlotLimit: 3},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero slot limit",
			item:    SponsorshipItem{ID: uuid.New(), Name: "Idol", TotalCost: decimal.NewFromInt(300), SlotLimit: 0},
			wantErr: ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContributionValidate(t *testing.T) {
	itemID := uuid.New()

	tests := []struct {
		name    string
		c       Contribution
		wantErr bool
	}{
		{
			name: "slot only",
			c:    Contribution{Name: "Alice Rao", ItemID: &itemID},
		},
		{
			name: "donation only",
			c:    Contribution{Name: "Alice Rao", Donation: decimal.NewFromInt(50)},
		},
		{
			name: "slot and donation",
			c:    Contribution{Name: "Alice Rao", ItemID: &itemID, Donation: decimal.NewFromInt(50)},
		},
		{
			name:    "neither slot nor donation",
			c:       Contribution{Name: "Alice Rao"},
			wantErr: true,
		},
		{
			name:    "zero donation without slot",
			c:       Contribution{Name: "Alice Rao", Donation: decimal.Zero},
			wantErr: true,
		},
		{
			name:    "missing name",
			c:       Contribution{Donation: decimal.NewFromInt(50)},
			wantErr: true,
		},
		{
			name:    "negative donation",
			c:       Contribution{Name: "Alice Rao", ItemID: &itemID, Donation: decimal.NewFromInt(-5)},
			wantErr: true,
		},
		{
			name:    "malformed email",
			c:       Contribution{Name: "Alice Rao", Donation: decimal.NewFromInt(50), Email: "not-an-email"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Validate() = %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Category:    "Food",
		SubCategory: "Prasadam",
		Amount:      decimal.NewFromInt(150),
		Date:        time.Now(),
		Status:      ExpenseActive,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	// Negative amounts are corrections and stay valid.
	correction := valid
	correction.Amount = decimal.NewFromInt(-20)
	if err := correction.Validate(); err != nil {
		t.Fatalf("Validate() negative amount = %v, want nil", err)
	}

	missingDate := valid
	missingDate.Date = time.Time{}
	if err := missingDate.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Validate() missing date = %v, want ErrInvalidInput", err)
	}

	badStatus := valid
	badStatus.Status = "archived"
	if err := badStatus.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Validate() bad status = %v, want ErrInvalidInput", err)
	}
}

func TestPaymentValidate(t *testing.T) {
	valid := Payment{
		Amount:  decimal.NewFromInt(500),
		Date:    time.Now(),
		Channel: "paypal",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	zero := valid
	zero.Amount = decimal.Zero
	if err := zero.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Validate() zero amount = %v, want ErrInvalidInput", err)
	}

	noChannel := valid
	noChannel.Channel = ""
	if err := noChannel.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Validate() missing channel = %v, want ErrInvalidInput", err)
	}
}

func TestSettlementValidate(t *testing.T) {
	valid := Settlement{
		Recipient: "Alice Rao",
		Amount:    decimal.NewFromInt(50),
		Channel:   "zelle",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	noRecipient := valid
	noRecipient.Recipient = "  "
	if err := noRecipient.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Validate() blank recipient = %v, want ErrInvalidInput", err)
	}
}

func TestChannels(t *testing.T) {
	cs := Channels{"paypal", "zelle"}

	if got := cs.Default(); got != "paypal" {
		t.Errorf("Default() = %q, want paypal", got)
	}
	if !cs.Contains("zelle") {
		t.Error("Contains(zelle) = false, want true")
	}
	if cs.Contains("venmo") {
		t.Error("Contains(venmo) = true, want false")
	}
	if got := (Channels{}).Default(); got != "" {
		t.Errorf("empty Default() = %q, want empty", got)
	}
}

func TestPersonKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Rao", "alice rao"},
		{"  alice   RAO  ", "alice rao"},
		{"ALICE", "alice"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := PersonKey(tt.in); got != tt.want {
			t.Errorf("PersonKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
