package core

import "errors"

// Sentinel errors returned by the ledger. Callers match with errors.Is and
// render the wrapped reason.
var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrSlotsExhausted             = errors.New("no slots remaining")
	ErrInvalidConfiguration       = errors.New("invalid configuration")
	ErrInsufficientChannelBalance = errors.New("insufficient channel balance")
	ErrNotFound                   = errors.New("not found")
	ErrItemInUse                  = errors.New("item is referenced by contributions")
)
