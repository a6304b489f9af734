// internal/service/ledger_service_test.go
package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ledgerMocks wires a LedgerService to mocks only.
type ledgerMocks struct {
	groups        *MockGroupRepository
	memberships   *MockMembershipRepository
	contributions *MockContributionRepository
	loans         *MockLoanRepository
	transactions  *MockTransactionRepository
	txController  *MockTxController
	service       LedgerService
}

func newLedgerMocks(t *testing.T) *ledgerMocks {
	t.Helper()
	m := &ledgerMocks{
		groups:        new(MockGroupRepository),
		memberships:   new(MockMembershipRepository),
		contributions: new(MockContributionRepository),
		loans:         new(MockLoanRepository),
		transactions:  new(MockTransactionRepository),
		txController:  new(MockTxController),
	}
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m.service = NewLedgerService(
		new(MockDBBeginner),
		new(MockDBExecutor),
		repository.Repositories{
			Groups:        m.groups,
			Memberships:   m.memberships,
			Contributions: m.contributions,
			Loans:         m.loans,
			Transactions:  m.transactions,
		},
		TxFuncs{
			Begin: func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
				return m.txController, nil
			},
			Commit: func(tx db.TxController) error {
				return m.txController.Commit()
			},
			Rollback: func(tx db.TxController) {
				_ = m.txController.Rollback()
			},
		},
		NewGroupLocker(time.Second),
		func() time.Time { return fixed },
		nil,
		util.NewLogger(io.Discard, util.LogOptions{}),
	)
	return m
}

func (m *ledgerMocks) assertAll(t *testing.T) {
	m.groups.AssertExpectations(t)
	m.memberships.AssertExpectations(t)
	m.contributions.AssertExpectations(t)
	m.loans.AssertExpectations(t)
	m.transactions.AssertExpectations(t)
	m.txController.AssertExpectations(t)
}

// TestApplyContribution tests the ApplyContribution method of LedgerService.
func TestApplyContribution(t *testing.T) {
	membership := &domain.Membership{ID: "m1", UserID: "u1", GroupID: "g1", Role: domain.RoleMember}

	t.Run("SuccessfulDeposit", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		amount := decimal.RequireFromString("100.00")
		initial := &domain.Group{ID: "g1", Balance: decimal.RequireFromString("500.00"), Tier: domain.TierOne}
		expected := initial.Balance.Add(amount)
		updated := &domain.Group{ID: "g1", Balance: expected, Tier: domain.TierOne}

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.memberships.On("GetMembershipByID", ctx, mock.Anything, "m1").Return(membership, nil).Once()
		m.groups.On("GetGroupForUpdate", ctx, mock.Anything, "g1").Return(initial, nil).Once()
		m.transactions.On("CreateTransaction", ctx, mock.Anything, mock.MatchedBy(func(r *domain.TransactionRecord) bool {
			return r.Kind == domain.TransactionKindContribution && r.BalanceAfter.Equal(expected) && r.Status == domain.TransactionStatusCompleted
		})).Return(nil).Once()
		m.contributions.On("CreateContribution", ctx, mock.Anything, mock.AnythingOfType("*domain.Contribution")).Return(nil).Once()
		m.groups.On("SetGroupBalance", ctx, mock.Anything, "g1", expected, mock.Anything).Return(nil).Once()
		m.groups.On("GetGroupByID", ctx, mock.Anything, "g1").Return(updated, nil).Once()

		group, contribution, record, err := m.service.ApplyContribution(ctx, "m1", amount, domain.ContributionDeposit)

		require.NoError(t, err)
		assert.True(t, expected.Equal(group.Balance))
		assert.Equal(t, record.ID, *contribution.TransactionID)
		assert.Equal(t, "u1", record.UserID)
		m.assertAll(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		ctx := context.Background()
		for _, raw := range []string{"0", "-10"} {
			m := newLedgerMocks(t)
			_, _, _, err := m.service.ApplyContribution(ctx, "m1", decimal.RequireFromString(raw), domain.ContributionDeposit)
			assert.ErrorIs(t, err, util.ErrInvalidAmount, raw)
			m.memberships.AssertNotCalled(t, "GetMembershipByID", mock.Anything, mock.Anything, mock.Anything)
			m.txController.AssertNotCalled(t, "Commit")
		}
	})

	t.Run("SubCentAmount", func(t *testing.T) {
		m := newLedgerMocks(t)
		_, _, _, err := m.service.ApplyContribution(context.Background(), "m1", decimal.RequireFromString("0.001"), domain.ContributionDeposit)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.NotErrorIs(t, err, util.ErrInvalidAmount)
		m.memberships.AssertNotCalled(t, "GetMembershipByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InsufficientFundsRollsBack", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		initial := &domain.Group{ID: "g1", Balance: decimal.RequireFromString("50.00")}

		m.txController.On("Rollback").Return(nil).Once()
		m.memberships.On("GetMembershipByID", ctx, mock.Anything, "m1").Return(membership, nil).Once()
		m.groups.On("GetGroupForUpdate", ctx, mock.Anything, "g1").Return(initial, nil).Once()

		_, _, _, err := m.service.ApplyContribution(ctx, "m1", decimal.NewFromInt(100), domain.ContributionWithdrawal)

		assert.True(t, errors.Is(err, util.ErrInsufficientFunds))
		m.transactions.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		m.groups.AssertNotCalled(t, "SetGroupBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})

	t.Run("ContributionWriteFailureLeavesBalance", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		initial := &domain.Group{ID: "g1", Balance: decimal.Zero}

		m.txController.On("Rollback").Return(nil).Once()
		m.memberships.On("GetMembershipByID", ctx, mock.Anything, "m1").Return(membership, nil).Once()
		m.groups.On("GetGroupForUpdate", ctx, mock.Anything, "g1").Return(initial, nil).Once()
		m.transactions.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.contributions.On("CreateContribution", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		_, _, _, err := m.service.ApplyContribution(ctx, "m1", decimal.NewFromInt(10), domain.ContributionDeposit)

		assert.ErrorContains(t, err, "disk full")
		m.groups.AssertNotCalled(t, "SetGroupBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})

	t.Run("MembershipNotFound", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		m.memberships.On("GetMembershipByID", ctx, mock.Anything, "missing").Return(nil, util.ErrNotFound).Once()

		_, _, _, err := m.service.ApplyContribution(ctx, "missing", decimal.NewFromInt(10), domain.ContributionDeposit)

		assert.True(t, errors.Is(err, util.ErrMembershipNotFound))
		assert.True(t, errors.Is(err, util.ErrNotFound))
		m.assertAll(t)
	})

	t.Run("CommitFailure", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		initial := &domain.Group{ID: "g1", Balance: decimal.Zero}

		m.txController.On("Commit").Return(errors.New("connection reset")).Once()
		m.txController.On("Rollback").Return(nil).Once()
		m.memberships.On("GetMembershipByID", ctx, mock.Anything, "m1").Return(membership, nil).Once()
		m.groups.On("GetGroupForUpdate", ctx, mock.Anything, "g1").Return(initial, nil).Once()
		m.transactions.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.contributions.On("CreateContribution", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.groups.On("SetGroupBalance", ctx, mock.Anything, "g1", mock.Anything, mock.Anything).Return(nil).Once()
		m.groups.On("GetGroupByID", ctx, mock.Anything, "g1").Return(initial, nil).Once()

		_, _, _, err := m.service.ApplyContribution(ctx, "m1", decimal.NewFromInt(10), domain.ContributionDeposit)

		assert.ErrorContains(t, err, "failed to commit transaction")
		m.assertAll(t)
	})
}

// TestApplyLoanDisbursement tests the ApplyLoanDisbursement method of LedgerService.
func TestApplyLoanDisbursement(t *testing.T) {
	membership := &domain.Membership{ID: "m1", UserID: "u1", GroupID: "g1"}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("NotPending", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		loan := &domain.Loan{ID: "l1", MembershipID: "m1", Principal: decimal.NewFromInt(100), Status: domain.LoanRejected}
		m.loans.On("GetLoanByID", ctx, mock.Anything, "l1").Return(loan, nil).Once()

		_, _, _, err := m.service.ApplyLoanDisbursement(ctx, "l1")

		assert.True(t, errors.Is(err, util.ErrInvalidTransition))
		m.groups.AssertNotCalled(t, "GetGroupForUpdate", mock.Anything, mock.Anything, mock.Anything)
		m.assertAll(t)
	})

	t.Run("LostApprovalRaceRollsBack", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		loan := &domain.Loan{
			ID: "l1", MembershipID: "m1", Principal: decimal.NewFromInt(100), Rate: decimal.NewFromInt(5),
			StartDate: start, DueDate: start.AddDate(0, 6, 0), Status: domain.LoanPending,
		}
		m.txController.On("Rollback").Return(nil).Once()
		m.loans.On("GetLoanByID", ctx, mock.Anything, "l1").Return(loan, nil).Once()
		m.memberships.On("GetMembershipByID", ctx, mock.Anything, "m1").Return(membership, nil).Once()
		m.groups.On("GetGroupForUpdate", ctx, mock.Anything, "g1").Return(&domain.Group{ID: "g1", Balance: decimal.NewFromInt(1000)}, nil).Once()
		m.transactions.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.loans.On("TransitionLoanStatus", ctx, mock.Anything, "l1", domain.LoanPending, domain.LoanApproved, mock.Anything, mock.Anything).Return(false, nil).Once()

		_, _, _, err := m.service.ApplyLoanDisbursement(ctx, "l1")

		assert.True(t, errors.Is(err, util.ErrInvalidTransition))
		m.groups.AssertNotCalled(t, "SetGroupBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})

	t.Run("LoanNotFound", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks(t)
		m.loans.On("GetLoanByID", ctx, mock.Anything, "nope").Return(nil, util.ErrNotFound).Once()

		_, _, _, err := m.service.ApplyLoanDisbursement(ctx, "nope")

		assert.True(t, errors.Is(err, util.ErrLoanNotFound))
		m.assertAll(t)
	})
}
