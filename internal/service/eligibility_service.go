// internal/service/eligibility_service.go
package service

import (
	"context"
	"fmt"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// LoanEligibilityMultiplier is applied to a member's total deposits.
var LoanEligibilityMultiplier = decimal.NewFromInt(3)

// Headroom describes how much of a group's tier ceiling is already invested.
type Headroom struct {
	GroupID       string          `json:"group_id"`
	Tier          domain.Tier     `json:"tier"`
	TierCap       decimal.Decimal `json:"tier_cap"`       // Fraction of balance, e.g. 0.30
	Balance       decimal.Decimal `json:"balance"`        // Balance the ceiling was computed from
	TotalInvested decimal.Decimal `json:"total_invested"` // Sum of investment principals
	Ceiling       decimal.Decimal `json:"ceiling"`        // Balance x TierCap
	Remaining     decimal.Decimal `json:"remaining"`      // Ceiling - TotalInvested, floored at zero
	Allowed       bool            `json:"allowed"`        // TotalInvested < Ceiling
}

// EligibilityService derives borrowing capacity and investment ceilings from ledger state.
// Its answers are advisory: nothing fences them against a concurrent ledger write.
type EligibilityService interface {
	LoanEligibility(ctx context.Context, membershipID string) (decimal.Decimal, error)
	InvestmentHeadroom(ctx context.Context, groupID string) (*Headroom, error)
}

type eligibilityService struct {
	dbExecutor repository.DBExecutor
	repos      repository.Repositories
}

// NewEligibilityService creates a new instance of EligibilityService.
func NewEligibilityService(dbExecutor repository.DBExecutor, repos repository.Repositories) EligibilityService {
	return &eligibilityService{dbExecutor: dbExecutor, repos: repos}
}

// LoanEligibility returns three times the sum of the member's deposits.
// Withdrawals are neither added nor subtracted.
func (s *eligibilityService) LoanEligibility(ctx context.Context, membershipID string) (decimal.Decimal, error) {
	if _, err := s.repos.Memberships.GetMembershipByID(ctx, s.dbExecutor, membershipID); err != nil {
		return decimal.Zero, notFound("loan eligibility", util.ErrMembershipNotFound, membershipID, err)
	}

	deposits, err := s.repos.Contributions.ListDepositsByMembership(ctx, s.dbExecutor, membershipID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loan eligibility: %w", err)
	}

	total := decimal.Zero
	for _, c := range deposits {
		total = total.Add(c.Amount)
	}
	return total.Mul(LoanEligibilityMultiplier).Round(2), nil
}

// InvestmentHeadroom compares the group's invested principal with its tier ceiling.
func (s *eligibilityService) InvestmentHeadroom(ctx context.Context, groupID string) (*Headroom, error) {
	group, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, notFound("investment headroom", util.ErrGroupNotFound, groupID, err)
	}

	investments, err := s.repos.Investments.ListInvestmentsByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("investment headroom: %w", err)
	}

	return computeHeadroom(group, investments), nil
}

func computeHeadroom(group *domain.Group, investments []domain.Investment) *Headroom {
	invested := decimal.Zero
	for _, inv := range investments {
		invested = invested.Add(inv.Principal)
	}

	tierCap := group.Tier.InvestmentCap()
	ceiling := group.Balance.Mul(tierCap).Round(2)
	remaining := ceiling.Sub(invested)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &Headroom{
		GroupID:       group.ID,
		Tier:          group.Tier,
		TierCap:       tierCap,
		Balance:       group.Balance,
		TotalInvested: invested,
		Ceiling:       ceiling,
		Remaining:     remaining,
		Allowed:       invested.LessThan(ceiling),
	}
}
