// internal/repository/investment_repo.go
package repository

import (
	"context"
	"time"

	"wakala-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// InvestmentRepository defines the interface for investment data operations.
type InvestmentRepository interface {
	CreateInvestment(ctx context.Context, q DBExecutor, investment *domain.Investment) error
	GetInvestmentByID(ctx context.Context, q DBExecutor, id string) (*domain.Investment, error)
	ListInvestmentsByGroup(ctx context.Context, q DBExecutor, groupID string) ([]domain.Investment, error)
	ListAllInvestments(ctx context.Context, q DBExecutor) ([]domain.Investment, error)
	// UpdateInvestmentValue overwrites the cached current value.
	UpdateInvestmentValue(ctx context.Context, q DBExecutor, id string, value decimal.Decimal, at time.Time) error
}
