// internal/service/services_sqlite_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanEligibilityCountsDepositsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, admin := env.newGroup(t, "Jenga")

	capacity, err := env.eligibility.LoanEligibility(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, capacity.IsZero())

	env.deposit(t, admin.ID, "1000.00")
	env.deposit(t, admin.ID, "500.00")
	_, _, _, err = env.ledger.ApplyContribution(ctx, admin.ID, decimal.NewFromInt(200), domain.ContributionWithdrawal)
	require.NoError(t, err)

	capacity, err = env.eligibility.LoanEligibility(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "4500.00", capacity.StringFixed(2))

	_, err = env.eligibility.LoanEligibility(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrMembershipNotFound)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestGroupAnalytics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	group, admin := env.newGroup(t, "Takwimu")
	member := env.join(t, group, "analyst")
	now := env.clock.Now()

	// Outside the 30 day window.
	env.clock.Set(now.AddDate(0, 0, -45))
	env.deposit(t, admin.ID, "5000.00")

	env.clock.Set(now.AddDate(0, 0, -10))
	env.deposit(t, admin.ID, "1000.00")
	env.deposit(t, member.ID, "250.00")
	_, _, _, err := env.ledger.ApplyContribution(ctx, member.ID, decimal.NewFromInt(100), domain.ContributionWithdrawal)
	require.NoError(t, err)
	env.clock.Set(now)

	t.Run("NoInvestments", func(t *testing.T) {
		stats, err := env.analytics.GroupAnalytics(ctx, group.ID, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "1250.00", stats.MonthlyContributions.StringFixed(2))
		assert.True(t, stats.TotalInvestmentPrincipal.IsZero())
		assert.True(t, stats.InvestmentReturnPercent.IsZero())
		assert.Equal(t, int64(0), stats.ActiveLoanCount)
		assert.True(t, stats.AsOf.Equal(now))
	})

	t.Run("WithInvestmentAndLoan", func(t *testing.T) {
		_, inv, _, err := env.investments.Purchase(ctx, PurchaseRequest{
			GroupID: group.ID, PurchasedBy: admin.UserID, Kind: domain.InvestmentBond,
			Principal: decimal.NewFromInt(1000), AnnualReturnRate: decimal.NewFromInt(10), Provider: "CBK",
		})
		require.NoError(t, err)
		require.NoError(t, env.repos.Investments.UpdateInvestmentValue(ctx, env.conn, inv.ID, decimal.NewFromInt(1100), now))

		loan, err := env.loans.Apply(ctx, member.ID, decimal.NewFromInt(300), decimal.NewFromInt(8), now, now.AddDate(0, 3, 0))
		require.NoError(t, err)
		_, _, _, err = env.loans.Approve(ctx, loan.ID)
		require.NoError(t, err)

		stats, err := env.analytics.GroupAnalytics(ctx, group.ID, now)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", stats.TotalInvestmentPrincipal.StringFixed(2))
		assert.Equal(t, "1100.00", stats.TotalInvestmentValue.StringFixed(2))
		assert.Equal(t, "10.00", stats.InvestmentReturnPercent.StringFixed(2))
		assert.Equal(t, int64(1), stats.ActiveLoanCount)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		_, err := env.analytics.GroupAnalytics(ctx, "missing", now)
		assert.ErrorIs(t, err, util.ErrGroupNotFound)
	})
}

func TestReturnPercent(t *testing.T) {
	tests := []struct {
		principal, value, want string
	}{
		{"0", "0", "0.00"},
		{"0", "50", "0.00"},
		{"1000", "1100", "10.00"},
		{"1000", "950", "-5.00"},
		{"300", "301", "0.33"},
	}
	for _, tt := range tests {
		got := ReturnPercent(decimal.RequireFromString(tt.principal), decimal.RequireFromString(tt.value))
		assert.Equal(t, tt.want, got.StringFixed(2), "principal %s value %s", tt.principal, tt.value)
	}
}

func TestGroupService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator, _, err := env.users.RegisterUser(ctx, "founder", "founder@example.com", "+254700000001")
	require.NoError(t, err)

	t.Run("CreatorBecomesAdmin", func(t *testing.T) {
		group, admin, err := env.groups.CreateGroup(ctx, creator.ID, "Chama Yetu", "", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, domain.RiskLow, group.RiskTolerance)
		assert.Equal(t, domain.TierOne, group.Tier)
		assert.True(t, group.Balance.IsZero())
		assert.Equal(t, domain.RoleAdmin, admin.Role)
		assert.Equal(t, creator.ID, admin.UserID)

		members, err := env.groups.ListMembers(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})

	t.Run("UnknownCreator", func(t *testing.T) {
		_, _, err := env.groups.CreateGroup(ctx, "nobody", "Ghost", domain.RiskLow, decimal.Zero)
		assert.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("JoinOnce", func(t *testing.T) {
		group, _ := env.newGroup(t, "Wanachama")
		joiner, _, err := env.users.RegisterUser(ctx, "joiner", "", "")
		require.NoError(t, err)

		m, err := env.groups.JoinGroup(ctx, group.ID, joiner.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, m.Role)

		_, err = env.groups.JoinGroup(ctx, group.ID, joiner.ID)
		assert.ErrorIs(t, err, util.ErrAlreadyMember)

		_, err = env.groups.JoinGroup(ctx, "missing", joiner.ID)
		assert.ErrorIs(t, err, util.ErrGroupNotFound)
	})

	t.Run("DeleteKeepsLedgerRecords", func(t *testing.T) {
		group, admin := env.newGroup(t, "Muda")
		env.deposit(t, admin.ID, "75.00")

		require.NoError(t, env.groups.DeleteGroup(ctx, group.ID))

		_, err := env.groups.GetGroup(ctx, group.ID)
		assert.ErrorIs(t, err, util.ErrGroupNotFound)
		_, err = env.groups.GetMembership(ctx, admin.ID)
		assert.ErrorIs(t, err, util.ErrMembershipNotFound)

		records, total, err := env.repos.Transactions.GetTransactionsByGroupID(ctx, env.conn, group.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, records, 1)

		err = env.groups.DeleteGroup(ctx, group.ID)
		assert.ErrorIs(t, err, util.ErrGroupNotFound)
	})
}

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, profile, err := env.users.RegisterUser(ctx, "  wanjiru ", "w@example.com", "+254711222333")
	require.NoError(t, err)
	assert.Equal(t, "wanjiru", user.Username)
	assert.Equal(t, user.ID, profile.UserID)
	assert.False(t, profile.IsVerified)

	got, err := env.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, _, err = env.users.RegisterUser(ctx, "wanjiru", "", "")
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)

	_, _, err = env.users.RegisterUser(ctx, "otieno", "", "call me")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, _, err = env.users.RegisterUser(ctx, "   ", "", "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = env.users.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestTransactionHistoryPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	group, admin := env.newGroup(t, "Kurasa")
	start := env.clock.Now()

	for i := 1; i <= 7; i++ {
		env.clock.Set(start.Add(time.Duration(i) * time.Minute))
		env.deposit(t, admin.ID, fmt.Sprintf("%d.00", i))
	}

	page, total, err := env.ledger.GetTransactionHistory(ctx, group.ID, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 3)
	assert.Equal(t, "7.00", page[0].Amount.StringFixed(2))
	assert.Equal(t, "28.00", page[0].BalanceAfter.StringFixed(2))

	page, _, err = env.ledger.GetTransactionHistory(ctx, group.ID, 3, 6)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "1.00", page[0].Amount.StringFixed(2))

	_, _, err = env.ledger.GetTransactionHistory(ctx, "missing", 3, 0)
	assert.ErrorIs(t, err, util.ErrGroupNotFound)
}
