// internal/repository/contribution_repo.go
package repository

import (
	"context"
	"time"

	"wakala-ledger/internal/domain"
)

// ContributionRepository defines the interface for contribution data operations.
// Contributions are insert-only.
type ContributionRepository interface {
	CreateContribution(ctx context.Context, q DBExecutor, contribution *domain.Contribution) error
	// ListContributionsByMembership returns a member's contributions, newest first.
	ListContributionsByMembership(ctx context.Context, q DBExecutor, membershipID string) ([]domain.Contribution, error)
	// ListDepositsByMembership returns only DEPOSIT contributions for a member.
	ListDepositsByMembership(ctx context.Context, q DBExecutor, membershipID string) ([]domain.Contribution, error)
	// ListDepositsByGroupSince returns DEPOSIT contributions to a group created at or after since.
	ListDepositsByGroupSince(ctx context.Context, q DBExecutor, groupID string, since time.Time) ([]domain.Contribution, error)
}
