// internal/service/investment_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// PurchaseRequest describes an investment a group wants to make.
type PurchaseRequest struct {
	GroupID          string
	PurchasedBy      string
	Kind             domain.InvestmentKind
	Principal        decimal.Decimal
	AnnualReturnRate decimal.Decimal
	Provider         string
}

// InvestmentService admits investment purchases against the tier ceiling and
// hands them to the ledger.
type InvestmentService interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*domain.Group, *domain.Investment, *domain.TransactionRecord, error)
	ListInvestments(ctx context.Context, groupID string) ([]domain.Investment, error)
}

type investmentService struct {
	dbExecutor  repository.DBExecutor
	repos       repository.Repositories
	ledger      LedgerService
	eligibility EligibilityService
}

// NewInvestmentService creates a new instance of InvestmentService.
func NewInvestmentService(dbExecutor repository.DBExecutor, repos repository.Repositories, ledger LedgerService, eligibility EligibilityService) InvestmentService {
	return &investmentService{
		dbExecutor:  dbExecutor,
		repos:       repos,
		ledger:      ledger,
		eligibility: eligibility,
	}
}

// Purchase checks headroom, then applies the purchase through the ledger.
// The headroom check and the purchase are separate steps, so two concurrent
// purchases may both pass the check.
func (s *investmentService) Purchase(ctx context.Context, req PurchaseRequest) (*domain.Group, *domain.Investment, *domain.TransactionRecord, error) {
	if !req.Kind.Valid() {
		return nil, nil, nil, fmt.Errorf("purchase investment: unknown kind %q: %w", req.Kind, util.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Provider) == "" {
		return nil, nil, nil, fmt.Errorf("purchase investment: provider is required: %w", util.ErrInvalidInput)
	}
	if req.AnnualReturnRate.IsNegative() || req.AnnualReturnRate.GreaterThan(domain.MaxInterestRate) {
		return nil, nil, nil, fmt.Errorf("purchase investment: %w", domain.ErrRateOutOfRange)
	}
	if err := checkMoney("purchase investment", req.Principal); err != nil {
		return nil, nil, nil, err
	}

	membership, err := s.repos.Memberships.GetMembershipByUserAndGroup(ctx, s.dbExecutor, req.PurchasedBy, req.GroupID)
	if err != nil {
		return nil, nil, nil, notFound("purchase investment", util.ErrMembershipNotFound, req.PurchasedBy, err)
	}

	headroom, err := s.eligibility.InvestmentHeadroom(ctx, req.GroupID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("purchase investment: %w", err)
	}
	if !headroom.Allowed {
		return nil, nil, nil, fmt.Errorf("purchase investment: invested %s of ceiling %s: %w",
			headroom.TotalInvested.StringFixed(2), headroom.Ceiling.StringFixed(2), util.ErrInvestmentLimitReached)
	}

	investment := domain.NewInvestment(req.GroupID, membership.UserID, req.Kind, req.Principal, req.AnnualReturnRate, req.Provider)
	return s.ledger.ApplyInvestmentPurchase(ctx, investment)
}

// ListInvestments returns a group's investments in purchase order.
func (s *investmentService) ListInvestments(ctx context.Context, groupID string) ([]domain.Investment, error) {
	if _, err := s.repos.Groups.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, notFound("list investments", util.ErrGroupNotFound, groupID, err)
	}
	investments, err := s.repos.Investments.ListInvestmentsByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return investments, nil
}
