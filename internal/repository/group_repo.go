// internal/repository/group_repo.go
package repository

import (
	"context"
	"time"

	"wakala-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// GroupRepository defines the interface for savings group data operations.
type GroupRepository interface {
	// CreateGroup adds a new group using the provided DBExecutor.
	CreateGroup(ctx context.Context, q DBExecutor, group *domain.Group) error
	// GetGroupByID retrieves a group by its ID.
	GetGroupByID(ctx context.Context, q DBExecutor, id string) (*domain.Group, error)
	// GetGroupForUpdate retrieves a group and, where the database supports it,
	// locks its row until the surrounding transaction ends.
	GetGroupForUpdate(ctx context.Context, q DBExecutor, id string) (*domain.Group, error)
	// SetGroupBalance overwrites the balance with a value computed by the ledger.
	SetGroupBalance(ctx context.Context, q DBExecutor, id string, balance decimal.Decimal, at time.Time) error
	// PromoteGroupTier moves a group from one tier to the next. It reports false
	// when the group was no longer at the expected tier.
	PromoteGroupTier(ctx context.Context, q DBExecutor, id string, from, to domain.Tier, at time.Time) (bool, error)
	// ListGroupsBelowTier returns every group whose tier is lower than tier.
	ListGroupsBelowTier(ctx context.Context, q DBExecutor, tier domain.Tier) ([]domain.Group, error)
	// DeleteGroup removes a group and its memberships.
	DeleteGroup(ctx context.Context, q DBExecutor, id string) error
}
