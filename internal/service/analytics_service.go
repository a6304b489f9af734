// internal/service/analytics_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// AnalyticsWindow is the look-back period for monthly contribution totals.
const AnalyticsWindow = 30 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// GroupAnalytics is a read-only rollup of a group's ledger.
type GroupAnalytics struct {
	GroupID                  string          `json:"group_id"`
	AsOf                     time.Time       `json:"as_of"`
	MonthlyContributions     decimal.Decimal `json:"monthly_contributions"`
	TotalInvestmentPrincipal decimal.Decimal `json:"total_investment_principal"`
	TotalInvestmentValue     decimal.Decimal `json:"total_investment_value"`
	InvestmentReturnPercent  decimal.Decimal `json:"investment_return_percent"`
	ActiveLoanCount          int64           `json:"active_loan_count"`
}

// AnalyticsService computes dashboard figures. It never mutates ledger state.
type AnalyticsService interface {
	GroupAnalytics(ctx context.Context, groupID string, asOf time.Time) (*GroupAnalytics, error)
}

type analyticsService struct {
	dbExecutor repository.DBExecutor
	repos      repository.Repositories
	now        Clock
}

// NewAnalyticsService creates a new instance of AnalyticsService.
func NewAnalyticsService(dbExecutor repository.DBExecutor, repos repository.Repositories, now Clock) AnalyticsService {
	if now == nil {
		now = SystemClock
	}
	return &analyticsService{dbExecutor: dbExecutor, repos: repos, now: now}
}

// GroupAnalytics returns the rollup as of asOf; a zero asOf means now.
// Investment performance uses the cached current values written by the sweep.
func (s *analyticsService) GroupAnalytics(ctx context.Context, groupID string, asOf time.Time) (*GroupAnalytics, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	if _, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, notFound("group analytics", util.ErrGroupNotFound, groupID, err)
	}

	deposits, err := s.repos.Contributions.ListDepositsByGroupSince(ctx, s.dbExecutor, groupID, asOf.Add(-AnalyticsWindow))
	if err != nil {
		return nil, fmt.Errorf("group analytics: %w", err)
	}
	monthly := decimal.Zero
	for _, c := range deposits {
		monthly = monthly.Add(c.Amount)
	}

	investments, err := s.repos.Investments.ListInvestmentsByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("group analytics: %w", err)
	}
	principal, value := sumInvestments(investments)

	active, err := s.repos.Loans.CountLoansByGroupAndStatus(ctx, s.dbExecutor, groupID, domain.LoanApproved)
	if err != nil {
		return nil, fmt.Errorf("group analytics: %w", err)
	}

	return &GroupAnalytics{
		GroupID:                  groupID,
		AsOf:                     asOf,
		MonthlyContributions:     monthly,
		TotalInvestmentPrincipal: principal,
		TotalInvestmentValue:     value,
		InvestmentReturnPercent:  ReturnPercent(principal, value),
		ActiveLoanCount:          active,
	}, nil
}

func sumInvestments(investments []domain.Investment) (principal, value decimal.Decimal) {
	principal, value = decimal.Zero, decimal.Zero
	for _, inv := range investments {
		principal = principal.Add(inv.Principal)
		value = value.Add(inv.CurrentValue)
	}
	return principal, value
}

// ReturnPercent is (value - principal) / principal x 100, rounded to two
// places. It is zero when principal is zero.
func ReturnPercent(principal, value decimal.Decimal) decimal.Decimal {
	if principal.IsZero() {
		return decimal.Zero
	}
	return value.Sub(principal).Mul(hundred).DivRound(principal, 2)
}
