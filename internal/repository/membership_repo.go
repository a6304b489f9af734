// internal/repository/membership_repo.go
package repository

import (
	"context"

	"wakala-ledger/internal/domain"
)

// MembershipRepository defines the interface for group membership data operations.
type MembershipRepository interface {
	CreateMembership(ctx context.Context, q DBExecutor, membership *domain.Membership) error
	GetMembershipByID(ctx context.Context, q DBExecutor, id string) (*domain.Membership, error)
	// GetMembershipByUserAndGroup returns util.ErrNotFound when the user has not joined the group.
	GetMembershipByUserAndGroup(ctx context.Context, q DBExecutor, userID, groupID string) (*domain.Membership, error)
	ListMembershipsByGroup(ctx context.Context, q DBExecutor, groupID string) ([]domain.Membership, error)
	CountMembersByGroup(ctx context.Context, q DBExecutor, groupID string) (int64, error)
}
