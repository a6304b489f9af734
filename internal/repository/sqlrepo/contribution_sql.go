// internal/repository/sqlrepo/contribution_sql.go
package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

const contributionColumns = `c.id, c.membership_id, c.amount, c.kind, c.transaction_id, c.created_at`

// ContributionRepository implements repository.ContributionRepository on sqlx.
type ContributionRepository struct{}

// NewContributionRepository creates a new ContributionRepository.
func NewContributionRepository(conn *sqlx.DB) repository.ContributionRepository {
	return &ContributionRepository{}
}

// CreateContribution inserts a contribution using the provided DBExecutor.
func (r *ContributionRepository) CreateContribution(ctx context.Context, q repository.DBExecutor, c *domain.Contribution) error {
	query := q.Rebind(`INSERT INTO contributions (id, membership_id, amount, kind, transaction_id, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query, c.ID, c.MembershipID, c.Amount, c.Kind, c.TransactionID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

// ListContributionsByMembership returns every contribution made by a member.
func (r *ContributionRepository) ListContributionsByMembership(ctx context.Context, q repository.DBExecutor, membershipID string) ([]domain.Contribution, error) {
	contributions := []domain.Contribution{}
	query := q.Rebind(`SELECT ` + contributionColumns + ` FROM contributions c
		WHERE c.membership_id = ?
		ORDER BY c.created_at DESC, c.id`)
	if err := q.SelectContext(ctx, &contributions, query, membershipID); err != nil {
		return nil, fmt.Errorf("failed to list contributions for membership %s: %w", membershipID, err)
	}
	return contributions, nil
}

// ListDepositsByMembership returns a member's DEPOSIT contributions.
func (r *ContributionRepository) ListDepositsByMembership(ctx context.Context, q repository.DBExecutor, membershipID string) ([]domain.Contribution, error) {
	contributions := []domain.Contribution{}
	query := q.Rebind(`SELECT ` + contributionColumns + ` FROM contributions c
		WHERE c.membership_id = ? AND c.kind = ?
		ORDER BY c.created_at, c.id`)
	if err := q.SelectContext(ctx, &contributions, query, membershipID, domain.ContributionDeposit); err != nil {
		return nil, fmt.Errorf("failed to list deposits for membership %s: %w", membershipID, err)
	}
	return contributions, nil
}

// ListDepositsByGroupSince returns DEPOSIT contributions from all members of a
// group made at or after since.
func (r *ContributionRepository) ListDepositsByGroupSince(ctx context.Context, q repository.DBExecutor, groupID string, since time.Time) ([]domain.Contribution, error) {
	contributions := []domain.Contribution{}
	query := q.Rebind(`SELECT ` + contributionColumns + ` FROM contributions c
		JOIN memberships m ON m.id = c.membership_id
		WHERE m.group_id = ? AND c.kind = ? AND c.created_at >= ?
		ORDER BY c.created_at, c.id`)
	if err := q.SelectContext(ctx, &contributions, query, groupID, domain.ContributionDeposit, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to list deposits for group %s: %w", groupID, err)
	}
	return contributions, nil
}
