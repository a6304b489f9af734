// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"

	"wakala-ledger/internal/util"
)

// Static invariant failures. Each wraps util.ErrInvariantViolation so callers
// can match the category with errors.Is.
var (
	ErrNonPositivePrincipal = fmt.Errorf("%w: principal must be greater than zero", util.ErrInvariantViolation)
	ErrRateOutOfRange       = fmt.Errorf("%w: rate must be between 0 and 100", util.ErrInvariantViolation)
	ErrDueBeforeStart       = fmt.Errorf("%w: due date must be after start date", util.ErrInvariantViolation)
)

// IsInvariantViolation reports whether err is a static invariant failure.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, util.ErrInvariantViolation)
}
