// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input provided")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrLockTimeout            = errors.New("timed out waiting for group ledger lock")
	ErrInvariantViolation     = errors.New("invariant violation")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrGroupNotFound          = errors.New("group not found")
	ErrMembershipNotFound     = errors.New("membership not found")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateEntry         = errors.New("duplicate entry") // For cases like registering an existing username
	ErrAlreadyMember          = errors.New("user is already a member of this group")
	ErrLoanLimitExceeded      = errors.New("loan principal exceeds borrowing capacity")
	ErrInvestmentLimitReached = errors.New("group investment ceiling reached for its tier")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
