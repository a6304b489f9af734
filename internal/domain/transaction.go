// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionKind defines the type of a ledger record.
type TransactionKind string

const (
	TransactionKindContribution TransactionKind = "CONTRIBUTION"
	TransactionKindLoan         TransactionKind = "LOAN"
	TransactionKindInvestment   TransactionKind = "INVESTMENT"
	TransactionKindWithdrawal   TransactionKind = "WITHDRAWAL"
)

// TransactionStatus defines the status of a ledger record.
// Only COMPLETED is written today; PENDING and FAILED are reserved for a
// two-phase write.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// TransactionRecord is an immutable, append-only ledger entry.
type TransactionRecord struct {
	ID           string            `db:"id" json:"id"`                       // UUID primary key
	GroupID      string            `db:"group_id" json:"group_id"`           // Group whose balance changed
	UserID       string            `db:"user_id" json:"user_id"`             // Acting user
	Kind         TransactionKind   `db:"kind" json:"kind"`                   // CONTRIBUTION, LOAN, INVESTMENT, WITHDRAWAL
	Amount       decimal.Decimal   `db:"amount" json:"amount"`               // Always positive; direction follows Kind
	BalanceAfter decimal.Decimal   `db:"balance_after" json:"balance_after"` // Group balance once this record applied
	Description  string            `db:"description" json:"description"`
	Status       TransactionStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

// NewTransactionRecord creates a COMPLETED ledger record.
func NewTransactionRecord(
	groupID string,
	userID string,
	kind TransactionKind,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	description string,
	at time.Time,
) *TransactionRecord {
	return &TransactionRecord{
		ID:           uuid.NewString(),
		GroupID:      groupID,
		UserID:       userID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Description:  description,
		Status:       TransactionStatusCompleted,
		CreatedAt:    at.UTC(),
	}
}
