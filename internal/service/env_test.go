// internal/service/env_test.go
package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/repository/sqlrepo"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// testEnv is the full service graph on a throwaway SQLite database.
type testEnv struct {
	conn        *sqlx.DB
	repos       repository.Repositories
	clock       *fakeClock
	locker      *GroupLocker
	ledger      LedgerService
	users       UserService
	groups      GroupService
	loans       LoanService
	investments InvestmentService
	eligibility EligibilityService
	analytics   AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Open(db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "ledger.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := util.NewLogger(io.Discard, util.LogOptions{})
	repos := sqlrepo.NewRepositories(conn)
	clock := &fakeClock{now: time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)}
	locker := NewGroupLocker(5 * time.Second)
	tx := DefaultTxFuncs()

	env := &testEnv{conn: conn, repos: repos, clock: clock, locker: locker}
	env.ledger = NewLedgerService(conn, conn, repos, tx, locker, clock.Now, nil, logger)
	env.users = NewUserService(conn, conn, repos, tx)
	env.groups = NewGroupService(conn, conn, repos, tx, locker, logger)
	env.eligibility = NewEligibilityService(conn, repos)
	env.analytics = NewAnalyticsService(conn, repos, clock.Now)
	env.loans = NewLoanService(conn, repos, env.ledger, env.eligibility, clock.Now, logger)
	env.investments = NewInvestmentService(conn, repos, env.ledger, env.eligibility)
	return env
}

// newGroup registers an admin and creates their group.
func (e *testEnv) newGroup(t *testing.T, name string) (*domain.Group, *domain.Membership) {
	t.Helper()
	user, _, err := e.users.RegisterUser(context.Background(), name+"-admin", "", "")
	require.NoError(t, err)
	group, admin, err := e.groups.CreateGroup(context.Background(), user.ID, name, domain.RiskMedium, decimal.Zero)
	require.NoError(t, err)
	return group, admin
}

// join registers a user and adds them to group.
func (e *testEnv) join(t *testing.T, group *domain.Group, username string) *domain.Membership {
	t.Helper()
	user, _, err := e.users.RegisterUser(context.Background(), username, "", "")
	require.NoError(t, err)
	m, err := e.groups.JoinGroup(context.Background(), group.ID, user.ID)
	require.NoError(t, err)
	return m
}

func (e *testEnv) deposit(t *testing.T, membershipID, amount string) *domain.Group {
	t.Helper()
	group, _, _, err := e.ledger.ApplyContribution(context.Background(), membershipID, decimal.RequireFromString(amount), domain.ContributionDeposit)
	require.NoError(t, err)
	return group
}

func (e *testEnv) balance(t *testing.T, groupID string) decimal.Decimal {
	t.Helper()
	group, err := e.ledger.GetGroupBalance(context.Background(), groupID)
	require.NoError(t, err)
	return group.Balance
}

func (e *testEnv) recordCount(t *testing.T, groupID string) int64 {
	t.Helper()
	_, total, err := e.ledger.GetTransactionHistory(context.Background(), groupID, 1, 0)
	require.NoError(t, err)
	return total
}
