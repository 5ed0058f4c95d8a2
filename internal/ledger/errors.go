package ledger

import (
	"fmt"

	"sevaledger/internal/core"
)

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{core.ErrInvalidInput}, args...)...)
}
