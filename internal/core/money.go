// Package core holds the typed records and money rules shared by every
// ledger book.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PerSlotPrice divides an item's total cost evenly across its slots,
// rounded half-up to the cent. Rounding may drift by at most one cent per
// slot against the total cost. A non-positive slot limit is a configuration
// fault, not arithmetic.
func PerSlotPrice(totalCost decimal.Decimal, slotLimit int) (decimal.Decimal, error) {
	if slotLimit < 1 {
		return decimal.Zero, fmt.Errorf("%w: slot limit must be at least 1", ErrInvalidConfiguration)
	}
	return totalCost.DivRound(decimal.NewFromInt(int64(slotLimit)), 2), nil
}

// ParseAmount reads a decimal amount from user input, accepting both dot
// and comma separators ("12.34" and "12,34").
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed amount %q", ErrInvalidInput, s)
	}
	return d, nil
}
