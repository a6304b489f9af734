// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) Rebind(query string) string {
	return query
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of repository.GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	return m.Called(ctx, q, group).Error(0)
}

func (m *MockGroupRepository) GetGroupByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Group, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) GetGroupForUpdate(ctx context.Context, q repository.DBExecutor, id string) (*domain.Group, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) SetGroupBalance(ctx context.Context, q repository.DBExecutor, id string, balance decimal.Decimal, at time.Time) error {
	return m.Called(ctx, q, id, balance, at).Error(0)
}

func (m *MockGroupRepository) PromoteGroupTier(ctx context.Context, q repository.DBExecutor, id string, from, to domain.Tier, at time.Time) (bool, error) {
	args := m.Called(ctx, q, id, from, to, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) ListGroupsBelowTier(ctx context.Context, q repository.DBExecutor, tier domain.Tier) ([]domain.Group, error) {
	args := m.Called(ctx, q, tier)
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) DeleteGroup(ctx context.Context, q repository.DBExecutor, id string) error {
	return m.Called(ctx, q, id).Error(0)
}

// MockMembershipRepository is a mock implementation of repository.MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) CreateMembership(ctx context.Context, q repository.DBExecutor, membership *domain.Membership) error {
	return m.Called(ctx, q, membership).Error(0)
}

func (m *MockMembershipRepository) GetMembershipByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Membership, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) GetMembershipByUserAndGroup(ctx context.Context, q repository.DBExecutor, userID, groupID string) (*domain.Membership, error) {
	args := m.Called(ctx, q, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListMembershipsByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.Membership, error) {
	args := m.Called(ctx, q, groupID)
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CountMembersByGroup(ctx context.Context, q repository.DBExecutor, groupID string) (int64, error) {
	args := m.Called(ctx, q, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// MockContributionRepository is a mock implementation of repository.ContributionRepository.
type MockContributionRepository struct {
	mock.Mock
}

func (m *MockContributionRepository) CreateContribution(ctx context.Context, q repository.DBExecutor, contribution *domain.Contribution) error {
	return m.Called(ctx, q, contribution).Error(0)
}

func (m *MockContributionRepository) ListContributionsByMembership(ctx context.Context, q repository.DBExecutor, membershipID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, q, membershipID)
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ListDepositsByMembership(ctx context.Context, q repository.DBExecutor, membershipID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, q, membershipID)
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ListDepositsByGroupSince(ctx context.Context, q repository.DBExecutor, groupID string, since time.Time) ([]domain.Contribution, error) {
	args := m.Called(ctx, q, groupID, since)
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

// MockLoanRepository is a mock implementation of repository.LoanRepository.
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateLoan(ctx context.Context, q repository.DBExecutor, loan *domain.Loan) error {
	return m.Called(ctx, q, loan).Error(0)
}

func (m *MockLoanRepository) GetLoanByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Loan, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) TransitionLoanStatus(ctx context.Context, q repository.DBExecutor, id string, from, to domain.LoanStatus, transactionID *string, at time.Time) (bool, error) {
	args := m.Called(ctx, q, id, from, to, transactionID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) ListOverdueLoans(ctx context.Context, q repository.DBExecutor, now time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, q, now)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByMembership(ctx context.Context, q repository.DBExecutor, membershipID string) ([]domain.Loan, error) {
	args := m.Called(ctx, q, membershipID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CountLoansByGroupAndStatus(ctx context.Context, q repository.DBExecutor, groupID string, status domain.LoanStatus) (int64, error) {
	args := m.Called(ctx, q, groupID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, record *domain.TransactionRecord) error {
	return m.Called(ctx, q, record).Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByGroupID(ctx context.Context, q repository.DBExecutor, groupID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	args := m.Called(ctx, q, groupID, limit, offset)
	return args.Get(0).([]domain.TransactionRecord), args.Get(1).(int64), args.Error(2)
}
