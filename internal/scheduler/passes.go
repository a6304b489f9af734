// internal/scheduler/passes.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"wakala-ledger/internal/accrual"
	"wakala-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// Average balance per member a group needs to leave its tier.
var promotionThresholds = map[domain.Tier]decimal.Decimal{
	domain.TierOne: decimal.NewFromInt(1_000_000),
	domain.TierTwo: decimal.NewFromInt(5_000_000),
}

// AverageBalance is balance / members, or zero for a group without members.
func AverageBalance(balance decimal.Decimal, members int64) decimal.Decimal {
	if members <= 0 {
		return decimal.Zero
	}
	return balance.Div(decimal.NewFromInt(members))
}

// NextTier reports the tier a group at current qualifies for given its
// average balance. Only the threshold of the current tier is checked, so a
// group climbs at most one tier per sweep.
func NextTier(current domain.Tier, avg decimal.Decimal) (domain.Tier, bool) {
	threshold, ok := promotionThresholds[current]
	if !ok || avg.LessThan(threshold) {
		return current, false
	}
	return current + 1, true
}

func (s *Scheduler) expireLoans(ctx context.Context, now time.Time, report *SweepReport) {
	loans, err := s.repos.Loans.ListOverdueLoans(ctx, s.dbExecutor, now)
	if err != nil {
		s.logger.Warn("Loan expiry: failed to list overdue loans", "error", err)
		return
	}

	for _, loan := range loans {
		err := s.isolate(PassLoanExpiry, loan.ID, func() error {
			membership, err := s.repos.Memberships.GetMembershipByID(ctx, s.dbExecutor, loan.MembershipID)
			if err != nil {
				return fmt.Errorf("get borrower: %w", err)
			}

			changed, err := s.repos.Loans.TransitionLoanStatus(ctx, s.dbExecutor, loan.ID, domain.LoanApproved, domain.LoanDefaulted, nil, now)
			if err != nil {
				return err
			}
			if !changed {
				// Paid or defaulted since the listing.
				return nil
			}

			s.publisher.Publish(ctx, domain.LoanDefaultedEvent{
				LoanID:       loan.ID,
				MembershipID: membership.ID,
				GroupID:      membership.GroupID,
				BorrowerID:   membership.UserID,
				Amount:       loan.Principal,
				DueDate:      loan.DueDate,
				OccurredAt:   now,
			})
			report.LoansDefaulted++
			return nil
		})
		if err != nil {
			report.LoanFailures++
		}
	}
}

func (s *Scheduler) revalueInvestments(ctx context.Context, now time.Time, report *SweepReport) {
	investments, err := s.repos.Investments.ListAllInvestments(ctx, s.dbExecutor)
	if err != nil {
		s.logger.Warn("Revaluation: failed to list investments", "error", err)
		return
	}

	for _, inv := range investments {
		err := s.isolate(PassRevaluation, inv.ID, func() error {
			value, err := accrual.CurrentValue(inv.Principal, inv.AnnualReturnRate, inv.PurchaseDate, now)
			if err != nil {
				return err
			}
			return s.repos.Investments.UpdateInvestmentValue(ctx, s.dbExecutor, inv.ID, value, now)
		})
		if err != nil {
			report.RevaluationFailures++
			continue
		}
		report.InvestmentsRevalued++
	}
}

func (s *Scheduler) promoteGroups(ctx context.Context, now time.Time, report *SweepReport) {
	groups, err := s.repos.Groups.ListGroupsBelowTier(ctx, s.dbExecutor, domain.TierThree)
	if err != nil {
		s.logger.Warn("Tier promotion: failed to list groups", "error", err)
		return
	}

	for _, group := range groups {
		err := s.isolate(PassTierPromotion, group.ID, func() error {
			count, err := s.repos.Memberships.CountMembersByGroup(ctx, s.dbExecutor, group.ID)
			if err != nil {
				return err
			}
			next, ok := NextTier(group.Tier, AverageBalance(group.Balance, count))
			if !ok {
				return nil
			}

			// Recipients must be known before the tier moves.
			members, err := s.repos.Memberships.ListMembershipsByGroup(ctx, s.dbExecutor, group.ID)
			if err != nil {
				return fmt.Errorf("list members to notify: %w", err)
			}

			changed, err := s.repos.Groups.PromoteGroupTier(ctx, s.dbExecutor, group.ID, group.Tier, next, now)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}
			report.GroupsPromoted++

			for _, m := range members {
				s.publisher.Publish(ctx, domain.GroupUpgradedEvent{
					GroupID:    group.ID,
					GroupName:  group.Name,
					UserID:     m.UserID,
					FromTier:   group.Tier,
					ToTier:     next,
					OccurredAt: now,
				})
			}
			s.logger.Info("Group promoted", "group_id", group.ID, "from_tier", group.Tier, "to_tier", next)
			return nil
		})
		if err != nil {
			report.PromotionFailures++
		}
	}
}
