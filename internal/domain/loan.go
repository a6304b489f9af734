// internal/domain/loan.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus is a state in the loan lifecycle.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanApproved  LoanStatus = "APPROVED"
	LoanRejected  LoanStatus = "REJECTED"
	LoanPaid      LoanStatus = "PAID"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending:  {LoanApproved, LoanRejected},
	LoanApproved: {LoanPaid, LoanDefaulted},
}

// Valid reports whether s is a known loan status.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanRejected, LoanPaid, LoanDefaulted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s LoanStatus) Terminal() bool {
	return len(loanTransitions[s]) == 0
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range loanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaxInterestRate is the upper bound for Loan.Rate, in percent.
var MaxInterestRate = decimal.NewFromInt(100)

// Loan is money borrowed by a member from the group's pooled balance.
// The group balance is debited exactly once, when the loan moves PENDING -> APPROVED.
type Loan struct {
	ID            string          `db:"id" json:"id"`
	MembershipID  string          `db:"membership_id" json:"membership_id"`
	Principal     decimal.Decimal `db:"principal" json:"principal"`
	Rate          decimal.Decimal `db:"rate" json:"rate"` // Percent, 0..100
	StartDate     time.Time       `db:"start_date" json:"start_date"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	Status        LoanStatus      `db:"status" json:"status"`
	TransactionID *string         `db:"transaction_id" json:"transaction_id"` // Set on disbursement only
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewLoan creates a PENDING loan application starting at start.
func NewLoan(membershipID string, principal, rate decimal.Decimal, start, due time.Time) *Loan {
	now := time.Now().UTC()
	return &Loan{
		ID:           uuid.NewString(),
		MembershipID: membershipID,
		Principal:    principal,
		Rate:         rate,
		StartDate:    start.UTC(),
		DueDate:      due.UTC(),
		Status:       LoanPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the loan's static invariants.
func (l *Loan) Validate() error {
	if !l.Principal.IsPositive() {
		return ErrNonPositivePrincipal
	}
	if l.Rate.IsNegative() || l.Rate.GreaterThan(MaxInterestRate) {
		return ErrRateOutOfRange
	}
	if !l.DueDate.After(l.StartDate) {
		return ErrDueBeforeStart
	}
	return nil
}
