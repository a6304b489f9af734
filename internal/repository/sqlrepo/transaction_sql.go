// internal/repository/sqlrepo/transaction_sql.go
package sqlrepo

import (
	"context"
	"fmt"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

// TransactionRepository implements repository.TransactionRepository on sqlx.
type TransactionRepository struct {
	// No state: methods receive the DBExecutor so they can join a caller's transaction
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(conn *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a record to the transaction log using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, t *domain.TransactionRecord) error {
	query := q.Rebind(`INSERT INTO transactions (id, group_id, user_id, kind, amount, balance_after, description, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		t.ID,
		t.GroupID,
		t.UserID,
		t.Kind,
		t.Amount,
		t.BalanceAfter,
		t.Description,
		t.Status,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByGroupID retrieves a paginated list of a group's records.
// It performs two queries: one for the data and one for the total count.
func (r *TransactionRepository) GetTransactionsByGroupID(ctx context.Context, q repository.DBExecutor, groupID string, limit, offset int) ([]domain.TransactionRecord, int64, error) {
	records := []domain.TransactionRecord{}

	query := q.Rebind(`
		SELECT id, group_id, user_id, kind, amount, balance_after, description, status, created_at
		FROM transactions
		WHERE group_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	if err := q.SelectContext(ctx, &records, query, groupID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for group %s: %w", groupID, err)
	}

	var totalCount int64
	countQuery := q.Rebind(`SELECT COUNT(*) FROM transactions WHERE group_id = ?`)
	if err := q.GetContext(ctx, &totalCount, countQuery, groupID); err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for group %s: %w", groupID, err)
	}

	return records, totalCount, nil
}
