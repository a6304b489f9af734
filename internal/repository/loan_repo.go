// internal/repository/loan_repo.go
package repository

import (
	"context"
	"time"

	"wakala-ledger/internal/domain"
)

// LoanRepository defines the interface for loan data operations.
type LoanRepository interface {
	CreateLoan(ctx context.Context, q DBExecutor, loan *domain.Loan) error
	GetLoanByID(ctx context.Context, q DBExecutor, id string) (*domain.Loan, error)
	// TransitionLoanStatus moves a loan from one status to another only if it is
	// still in from. transactionID, when non-nil, is stored with the transition.
	// It reports whether the row changed.
	TransitionLoanStatus(ctx context.Context, q DBExecutor, id string, from, to domain.LoanStatus, transactionID *string, at time.Time) (bool, error)
	// ListOverdueLoans returns APPROVED loans whose due date is before now.
	ListOverdueLoans(ctx context.Context, q DBExecutor, now time.Time) ([]domain.Loan, error)
	ListLoansByMembership(ctx context.Context, q DBExecutor, membershipID string) ([]domain.Loan, error)
	CountLoansByGroupAndStatus(ctx context.Context, q DBExecutor, groupID string, status domain.LoanStatus) (int64, error)
}
