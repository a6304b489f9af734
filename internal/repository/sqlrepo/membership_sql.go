// internal/repository/sqlrepo/membership_sql.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/jmoiron/sqlx"
)

const membershipColumns = `id, user_id, group_id, role, contribution_limit, joined_at`

// MembershipRepository implements repository.MembershipRepository on sqlx.
type MembershipRepository struct{}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(conn *sqlx.DB) repository.MembershipRepository {
	return &MembershipRepository{}
}

// CreateMembership inserts a membership. A second membership for the same
// user and group fails with util.ErrDuplicateEntry.
func (r *MembershipRepository) CreateMembership(ctx context.Context, q repository.DBExecutor, m *domain.Membership) error {
	query := q.Rebind(`INSERT INTO memberships (` + membershipColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query, m.ID, m.UserID, m.GroupID, m.Role, m.ContributionLimit, m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// GetMembershipByID retrieves a membership by its ID.
func (r *MembershipRepository) GetMembershipByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Membership, error) {
	var m domain.Membership
	query := q.Rebind(`SELECT ` + membershipColumns + ` FROM memberships WHERE id = ?`)
	if err := q.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership by ID %s: %w", id, err)
	}
	return &m, nil
}

// GetMembershipByUserAndGroup retrieves the membership linking a user to a group.
func (r *MembershipRepository) GetMembershipByUserAndGroup(ctx context.Context, q repository.DBExecutor, userID, groupID string) (*domain.Membership, error) {
	var m domain.Membership
	query := q.Rebind(`SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = ? AND group_id = ?`)
	if err := q.GetContext(ctx, &m, query, userID, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership for user %s in group %s: %w", userID, groupID, err)
	}
	return &m, nil
}

// ListMembershipsByGroup returns a group's members in join order.
func (r *MembershipRepository) ListMembershipsByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.Membership, error) {
	memberships := []domain.Membership{}
	query := q.Rebind(`SELECT ` + membershipColumns + ` FROM memberships WHERE group_id = ? ORDER BY joined_at, id`)
	if err := q.SelectContext(ctx, &memberships, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list memberships for group %s: %w", groupID, err)
	}
	return memberships, nil
}

// CountMembersByGroup returns the number of memberships in a group.
func (r *MembershipRepository) CountMembersByGroup(ctx context.Context, q repository.DBExecutor, groupID string) (int64, error) {
	var count int64
	query := q.Rebind(`SELECT COUNT(*) FROM memberships WHERE group_id = ?`)
	if err := q.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("failed to count members of group %s: %w", groupID, err)
	}
	return count, nil
}
