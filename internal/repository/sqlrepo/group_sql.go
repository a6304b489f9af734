// internal/repository/sqlrepo/group_sql.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const groupColumns = `id, name, balance, tier, risk_tolerance, contribution_limit, created_at, updated_at`

// GroupRepository implements repository.GroupRepository on sqlx.
type GroupRepository struct {
	rowLocks bool // SELECT ... FOR UPDATE is available
}

// NewGroupRepository creates a new GroupRepository. Row locking is enabled on PostgreSQL.
func NewGroupRepository(conn *sqlx.DB) repository.GroupRepository {
	return &GroupRepository{rowLocks: db.IsPostgres(conn)}
}

// CreateGroup inserts a new group using the provided DBExecutor.
func (r *GroupRepository) CreateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	query := q.Rebind(`INSERT INTO savings_groups (` + groupColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		group.ID, group.Name, group.Balance, group.Tier, group.RiskTolerance,
		group.ContributionLimit, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group by its ID using the provided DBExecutor.
func (r *GroupRepository) GetGroupByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Group, error) {
	return r.getGroup(ctx, q, id, false)
}

// GetGroupForUpdate retrieves a group inside a transaction, locking the row on PostgreSQL.
func (r *GroupRepository) GetGroupForUpdate(ctx context.Context, q repository.DBExecutor, id string) (*domain.Group, error) {
	return r.getGroup(ctx, q, id, r.rowLocks)
}

func (r *GroupRepository) getGroup(ctx context.Context, q repository.DBExecutor, id string, lock bool) (*domain.Group, error) {
	var group domain.Group
	query := `SELECT ` + groupColumns + ` FROM savings_groups WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	if err := q.GetContext(ctx, &group, q.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group by ID %s: %w", id, err)
	}
	return &group, nil
}

// SetGroupBalance writes the balance computed by the ledger.
func (r *GroupRepository) SetGroupBalance(ctx context.Context, q repository.DBExecutor, id string, balance decimal.Decimal, at time.Time) error {
	query := q.Rebind(`UPDATE savings_groups SET balance = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, balance, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update group balance for ID %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating group balance for ID %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating group balance for ID %s: %w", id, util.ErrNotFound)
	}
	return nil
}

// PromoteGroupTier updates the tier only while the group is still at from.
func (r *GroupRepository) PromoteGroupTier(ctx context.Context, q repository.DBExecutor, id string, from, to domain.Tier, at time.Time) (bool, error) {
	query := q.Rebind(`UPDATE savings_groups SET tier = ?, updated_at = ? WHERE id = ? AND tier = ?`)
	result, err := q.ExecContext(ctx, query, to, at.UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to promote group %s to tier %d: %w", id, to, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected after promoting group %s: %w", id, err)
	}
	return rowsAffected == 1, nil
}

// ListGroupsBelowTier returns groups that can still be promoted past tier-1.
func (r *GroupRepository) ListGroupsBelowTier(ctx context.Context, q repository.DBExecutor, tier domain.Tier) ([]domain.Group, error) {
	groups := []domain.Group{}
	query := q.Rebind(`SELECT ` + groupColumns + ` FROM savings_groups WHERE tier < ? ORDER BY created_at`)
	if err := q.SelectContext(ctx, &groups, query, tier); err != nil {
		return nil, fmt.Errorf("failed to list groups below tier %d: %w", tier, err)
	}
	return groups, nil
}

// DeleteGroup removes a group. Memberships, contributions, loans and
// investments cascade; the transaction log is kept.
func (r *GroupRepository) DeleteGroup(ctx context.Context, q repository.DBExecutor, id string) error {
	result, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM savings_groups WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete group %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting group %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
