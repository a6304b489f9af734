// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/metrics"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

// Ledger operation names used in logs and metrics.
const (
	opContribution = "contribution"
	opDisbursement = "loan_disbursement"
	opInvestment   = "investment_purchase"
)

// LedgerService is the only writer of group balances. Every operation
// validates, writes one COMPLETED TransactionRecord and the new balance in a
// single database transaction, under the group's exclusive lock.
type LedgerService interface {
	ApplyContribution(ctx context.Context, membershipID string, amount decimal.Decimal, kind domain.ContributionKind) (*domain.Group, *domain.Contribution, *domain.TransactionRecord, error)
	ApplyLoanDisbursement(ctx context.Context, loanID string) (*domain.Group, *domain.Loan, *domain.TransactionRecord, error)
	ApplyInvestmentPurchase(ctx context.Context, investment *domain.Investment) (*domain.Group, *domain.Investment, *domain.TransactionRecord, error)
	GetGroupBalance(ctx context.Context, groupID string) (*domain.Group, error)
	GetTransactionHistory(ctx context.Context, groupID string, limit, offset int) ([]domain.TransactionRecord, int64, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	repos      repository.Repositories
	tx         TxFuncs
	locker     *GroupLocker
	now        Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	repos repository.Repositories,
	tx TxFuncs,
	locker *GroupLocker,
	now Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) LedgerService {
	if now == nil {
		now = SystemClock
	}
	return &ledgerService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		repos:      repos,
		tx:         tx,
		locker:     locker,
		now:        now,
		metrics:    m,
		logger:     logger,
	}
}

// lockGroup enters the group's exclusive section and records the wait.
func (s *ledgerService) lockGroup(ctx context.Context, op, groupID string) (func(), error) {
	started := time.Now()
	release, err := s.locker.Lock(ctx, groupID)
	s.metrics.ObserveLockWait(time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return release, nil
}

// debit and credit compute the balance after applying amount.
func debit(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	after := balance.Sub(amount)
	if after.IsNegative() {
		return balance, util.ErrInsufficientFunds
	}
	return after, nil
}

func credit(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(amount)
}

// ApplyContribution deposits into or withdraws from the member's group.
func (s *ledgerService) ApplyContribution(ctx context.Context, membershipID string, amount decimal.Decimal, kind domain.ContributionKind) (group *domain.Group, contribution *domain.Contribution, record *domain.TransactionRecord, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveLedger(opContribution, started, err) }()

	if err := checkMoney("apply contribution", amount); err != nil {
		return nil, nil, nil, err
	}
	if !kind.Valid() {
		return nil, nil, nil, fmt.Errorf("apply contribution: unknown kind %q: %w", kind, util.ErrInvalidInput)
	}

	membership, err := s.repos.Memberships.GetMembershipByID(ctx, s.dbExecutor, membershipID)
	if err != nil {
		return nil, nil, nil, notFound("apply contribution", util.ErrMembershipNotFound, membershipID, err)
	}

	release, err := s.lockGroup(ctx, "apply contribution", membership.GroupID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer release()

	txController, err := s.tx.Begin(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("apply contribution: failed to begin transaction: %w", err)
	}
	defer s.tx.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, nil, fmt.Errorf("apply contribution: transaction controller does not implement DBExecutor")
	}

	current, err := s.repos.Groups.GetGroupForUpdate(ctx, txExecutor, membership.GroupID)
	if err != nil {
		return nil, nil, nil, notFound("apply contribution", util.ErrGroupNotFound, membership.GroupID, err)
	}

	recordKind := domain.TransactionKindContribution
	balanceAfter := credit(current.Balance, amount)
	if kind == domain.ContributionWithdrawal {
		recordKind = domain.TransactionKindWithdrawal
		if balanceAfter, err = debit(current.Balance, amount); err != nil {
			return nil, nil, nil, fmt.Errorf("apply contribution: withdraw %s from balance %s: %w", amount, current.Balance, err)
		}
	}

	now := s.now()
	record = domain.NewTransactionRecord(
		current.ID, membership.UserID, recordKind, amount, balanceAfter,
		fmt.Sprintf("%s by membership %s", kind, membership.ID), now,
	)
	if err := s.repos.Transactions.CreateTransaction(ctx, txExecutor, record); err != nil {
		return nil, nil, nil, fmt.Errorf("apply contribution: failed to create transaction: %w", err)
	}

	contribution = domain.NewContribution(membership.ID, amount, kind, record.ID)
	contribution.CreatedAt = now
	if err := s.repos.Contributions.CreateContribution(ctx, txExecutor, contribution); err != nil {
		return nil, nil, nil, fmt.Errorf("apply contribution: failed to create contribution: %w", err)
	}

	if err := s.repos.Groups.SetGroupBalance(ctx, txExecutor, current.ID, balanceAfter, now); err != nil {
		return nil, nil, nil, fmt.Errorf("apply contribution: failed to update group balance: %w", err)
	}

	group, err = s.repos.Groups.GetGroupByID(ctx, txExecutor, current.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("apply contribution: failed to re-fetch updated group %s: %w", current.ID, err)
	}

	if err := s.tx.Commit(txController); err != nil {
		return nil, nil, nil, fmt.Errorf("apply contribution: failed to commit transaction: %w", err)
	}

	s.logger.Info("Contribution applied",
		"group_id", group.ID,
		"membership_id", membership.ID,
		"kind", kind,
		"amount", amount.StringFixed(2),
		"balance_after", balanceAfter.StringFixed(2),
		"transaction_id", record.ID,
	)
	return group, contribution, record, nil
}

// ApplyLoanDisbursement approves a PENDING loan and debits its principal from
// the borrower's group. A loan is disbursed at most once: the PENDING ->
// APPROVED transition is a conditional update inside the same transaction.
func (s *ledgerService) ApplyLoanDisbursement(ctx context.Context, loanID string) (group *domain.Group, loan *domain.Loan, record *domain.TransactionRecord, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveLedger(opDisbursement, started, err) }()

	pending, err := s.repos.Loans.GetLoanByID(ctx, s.dbExecutor, loanID)
	if err != nil {
		return nil, nil, nil, notFound("disburse loan", util.ErrLoanNotFound, loanID, err)
	}
	if !pending.Status.CanTransitionTo(domain.LoanApproved) {
		return nil, nil, nil, fmt.Errorf("disburse loan %s: status %s: %w", loanID, pending.Status, util.ErrInvalidTransition)
	}
	if err := checkMoney("disburse loan", pending.Principal); err != nil {
		return nil, nil, nil, err
	}

	membership, err := s.repos.Memberships.GetMembershipByID(ctx, s.dbExecutor, pending.MembershipID)
	if err != nil {
		return nil, nil, nil, notFound("disburse loan", util.ErrMembershipNotFound, pending.MembershipID, err)
	}

	release, err := s.lockGroup(ctx, "disburse loan", membership.GroupID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer release()

	txController, err := s.tx.Begin(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: failed to begin transaction: %w", err)
	}
	defer s.tx.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, nil, fmt.Errorf("disburse loan: transaction controller does not implement DBExecutor")
	}

	current, err := s.repos.Groups.GetGroupForUpdate(ctx, txExecutor, membership.GroupID)
	if err != nil {
		return nil, nil, nil, notFound("disburse loan", util.ErrGroupNotFound, membership.GroupID, err)
	}

	balanceAfter, err := debit(current.Balance, pending.Principal)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: principal %s against balance %s: %w", pending.Principal, current.Balance, err)
	}

	now := s.now()
	record = domain.NewTransactionRecord(
		current.ID, membership.UserID, domain.TransactionKindLoan, pending.Principal, balanceAfter,
		fmt.Sprintf("Loan %s disbursed", pending.ID), now,
	)
	if err := s.repos.Transactions.CreateTransaction(ctx, txExecutor, record); err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: failed to create transaction: %w", err)
	}

	changed, err := s.repos.Loans.TransitionLoanStatus(ctx, txExecutor, pending.ID, domain.LoanPending, domain.LoanApproved, &record.ID, now)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: %w", err)
	}
	if !changed {
		return nil, nil, nil, fmt.Errorf("disburse loan %s: no longer pending: %w", pending.ID, util.ErrInvalidTransition)
	}

	if err := s.repos.Groups.SetGroupBalance(ctx, txExecutor, current.ID, balanceAfter, now); err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: failed to update group balance: %w", err)
	}

	group, err = s.repos.Groups.GetGroupByID(ctx, txExecutor, current.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: failed to re-fetch updated group %s: %w", current.ID, err)
	}
	loan, err = s.repos.Loans.GetLoanByID(ctx, txExecutor, pending.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: failed to re-fetch loan %s: %w", pending.ID, err)
	}

	if err := s.tx.Commit(txController); err != nil {
		return nil, nil, nil, fmt.Errorf("disburse loan: failed to commit transaction: %w", err)
	}

	s.logger.Info("Loan disbursed",
		"group_id", group.ID,
		"loan_id", loan.ID,
		"principal", loan.Principal.StringFixed(2),
		"balance_after", balanceAfter.StringFixed(2),
		"transaction_id", record.ID,
	)
	return group, loan, record, nil
}

// ApplyInvestmentPurchase debits the principal of a new investment from its
// group and stores the investment linked to the ledger record.
// The tier headroom check is the caller's job; see EligibilityService.
func (s *ledgerService) ApplyInvestmentPurchase(ctx context.Context, investment *domain.Investment) (group *domain.Group, stored *domain.Investment, record *domain.TransactionRecord, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveLedger(opInvestment, started, err) }()

	if investment == nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: nil investment: %w", util.ErrInvalidInput)
	}
	if err := checkMoney("purchase investment", investment.Principal); err != nil {
		return nil, nil, nil, err
	}
	if !investment.Kind.Valid() {
		return nil, nil, nil, fmt.Errorf("purchase investment: unknown kind %q: %w", investment.Kind, util.ErrInvalidInput)
	}

	release, err := s.lockGroup(ctx, "purchase investment", investment.GroupID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer release()

	txController, err := s.tx.Begin(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: failed to begin transaction: %w", err)
	}
	defer s.tx.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, nil, fmt.Errorf("purchase investment: transaction controller does not implement DBExecutor")
	}

	current, err := s.repos.Groups.GetGroupForUpdate(ctx, txExecutor, investment.GroupID)
	if err != nil {
		return nil, nil, nil, notFound("purchase investment", util.ErrGroupNotFound, investment.GroupID, err)
	}

	balanceAfter, err := debit(current.Balance, investment.Principal)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: principal %s against balance %s: %w", investment.Principal, current.Balance, err)
	}

	now := s.now()
	record = domain.NewTransactionRecord(
		current.ID, investment.PurchasedBy, domain.TransactionKindInvestment, investment.Principal, balanceAfter,
		fmt.Sprintf("%s investment with %s", investment.Kind, investment.Provider), now,
	)
	if err := s.repos.Transactions.CreateTransaction(ctx, txExecutor, record); err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: failed to create transaction: %w", err)
	}

	stored = investment
	stored.TransactionID = &record.ID
	stored.PurchaseDate = now
	stored.CurrentValue = investment.Principal
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if err := s.repos.Investments.CreateInvestment(ctx, txExecutor, stored); err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: failed to create investment: %w", err)
	}

	if err := s.repos.Groups.SetGroupBalance(ctx, txExecutor, current.ID, balanceAfter, now); err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: failed to update group balance: %w", err)
	}

	group, err = s.repos.Groups.GetGroupByID(ctx, txExecutor, current.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: failed to re-fetch updated group %s: %w", current.ID, err)
	}

	if err := s.tx.Commit(txController); err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: failed to commit transaction: %w", err)
	}

	s.logger.Info("Investment purchased",
		"group_id", group.ID,
		"investment_id", stored.ID,
		"kind", stored.Kind,
		"principal", stored.Principal.StringFixed(2),
		"balance_after", balanceAfter.StringFixed(2),
		"transaction_id", record.ID,
	)
	return group, stored, record, nil
}

// GetGroupBalance returns the group with its current balance.
func (s *ledgerService) GetGroupBalance(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, notFound("get balance", util.ErrGroupNotFound, groupID, err)
	}
	return group, nil
}

// GetTransactionHistory retrieves a paginated list of a group's ledger records, newest first.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, groupID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	// First, check if the group exists
	if _, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, 0, notFound("transaction history", util.ErrGroupNotFound, groupID, err)
	}

	records, totalCount, err := s.repos.Transactions.GetTransactionsByGroupID(ctx, s.dbExecutor, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return records, totalCount, nil
}
