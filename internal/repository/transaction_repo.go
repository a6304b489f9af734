// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"wakala-ledger/internal/domain"
)

// TransactionRepository is the append-only transaction log. There is no update
// or delete operation.
type TransactionRepository interface {
	// CreateTransaction appends a record using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, record *domain.TransactionRecord) error
	// GetTransactionsByGroupID returns a page of a group's records, newest first, and the total count.
	GetTransactionsByGroupID(ctx context.Context, q DBExecutor, groupID string, limit, offset int) ([]domain.TransactionRecord, int64, error)
}
