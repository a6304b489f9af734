// internal/service/loan_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wakala-ledger/internal/accrual"
	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// LoanService drives the loan lifecycle. The only balance-mutating step,
// approval, is delegated to LedgerService.
type LoanService interface {
	Apply(ctx context.Context, membershipID string, principal, rate decimal.Decimal, start, due time.Time) (*domain.Loan, error)
	Approve(ctx context.Context, loanID string) (*domain.Group, *domain.Loan, *domain.TransactionRecord, error)
	Reject(ctx context.Context, loanID string) (*domain.Loan, error)
	MarkPaid(ctx context.Context, loanID string) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	RepaymentQuote(ctx context.Context, loanID string) (*accrual.LoanQuote, error)
}

type loanService struct {
	dbExecutor  repository.DBExecutor
	repos       repository.Repositories
	ledger      LedgerService
	eligibility EligibilityService
	now         Clock
	logger      *slog.Logger
}

// NewLoanService creates a new instance of LoanService.
func NewLoanService(
	dbExecutor repository.DBExecutor,
	repos repository.Repositories,
	ledger LedgerService,
	eligibility EligibilityService,
	now Clock,
	logger *slog.Logger,
) LoanService {
	if now == nil {
		now = SystemClock
	}
	return &loanService{
		dbExecutor:  dbExecutor,
		repos:       repos,
		ledger:      ledger,
		eligibility: eligibility,
		now:         now,
		logger:      logger,
	}
}

// Apply records a PENDING loan application. A zero start means now.
// The principal may not exceed the member's loan eligibility.
func (s *loanService) Apply(ctx context.Context, membershipID string, principal, rate decimal.Decimal, start, due time.Time) (*domain.Loan, error) {
	if start.IsZero() {
		start = s.now()
	}
	loan := domain.NewLoan(membershipID, principal, rate, start, due)
	if err := loan.Validate(); err != nil {
		return nil, fmt.Errorf("apply for loan: %w", err)
	}
	if err := checkMoney("apply for loan", principal); err != nil {
		return nil, err
	}

	capacity, err := s.eligibility.LoanEligibility(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("apply for loan: %w", err)
	}
	if principal.GreaterThan(capacity) {
		return nil, fmt.Errorf("apply for loan: principal %s, capacity %s: %w", principal.StringFixed(2), capacity.StringFixed(2), util.ErrLoanLimitExceeded)
	}

	now := s.now()
	loan.CreatedAt, loan.UpdatedAt = now, now
	if err := s.repos.Loans.CreateLoan(ctx, s.dbExecutor, loan); err != nil {
		return nil, fmt.Errorf("apply for loan: %w", err)
	}

	s.logger.Info("Loan application recorded", "loan_id", loan.ID, "membership_id", membershipID, "principal", principal.StringFixed(2))
	return loan, nil
}

// Approve disburses the loan through the ledger.
func (s *loanService) Approve(ctx context.Context, loanID string) (*domain.Group, *domain.Loan, *domain.TransactionRecord, error) {
	return s.ledger.ApplyLoanDisbursement(ctx, loanID)
}

// Reject moves a PENDING loan to REJECTED. No money moves.
func (s *loanService) Reject(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.transition(ctx, "reject loan", loanID, domain.LoanPending, domain.LoanRejected)
}

// MarkPaid moves an APPROVED loan to PAID. Repayments are recorded as
// contributions; this only closes the loan.
func (s *loanService) MarkPaid(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.transition(ctx, "mark loan paid", loanID, domain.LoanApproved, domain.LoanPaid)
}

func (s *loanService) transition(ctx context.Context, op, loanID string, from, to domain.LoanStatus) (*domain.Loan, error) {
	loan, err := s.repos.Loans.GetLoanByID(ctx, s.dbExecutor, loanID)
	if err != nil {
		return nil, notFound(op, util.ErrLoanNotFound, loanID, err)
	}
	if loan.Status != from || !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%s %s: status %s: %w", op, loanID, loan.Status, util.ErrInvalidTransition)
	}

	changed, err := s.repos.Loans.TransitionLoanStatus(ctx, s.dbExecutor, loanID, from, to, nil, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		return nil, fmt.Errorf("%s %s: status changed concurrently: %w", op, loanID, util.ErrInvalidTransition)
	}

	updated, err := s.repos.Loans.GetLoanByID(ctx, s.dbExecutor, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to re-fetch loan %s: %w", op, loanID, err)
	}
	s.logger.Info("Loan status changed", "loan_id", loanID, "from", from, "to", to)
	return updated, nil
}

// GetLoan retrieves a loan by ID.
func (s *loanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.repos.Loans.GetLoanByID(ctx, s.dbExecutor, loanID)
	if err != nil {
		return nil, notFound("get loan", util.ErrLoanNotFound, loanID, err)
	}
	return loan, nil
}

// RepaymentQuote returns interest and total repayment over the loan's full term.
func (s *loanService) RepaymentQuote(ctx context.Context, loanID string) (*accrual.LoanQuote, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	quote := accrual.QuoteLoan(loan.Principal, loan.Rate, loan.StartDate, loan.DueDate)
	return &quote, nil
}
