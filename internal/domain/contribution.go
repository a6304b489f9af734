// internal/domain/contribution.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionKind says whether a contribution adds to or takes from the group.
type ContributionKind string

const (
	ContributionDeposit    ContributionKind = "DEPOSIT"
	ContributionWithdrawal ContributionKind = "WITHDRAWAL"
)

// Valid reports whether k is a known contribution kind.
func (k ContributionKind) Valid() bool {
	return k == ContributionDeposit || k == ContributionWithdrawal
}

// Contribution is an immutable deposit or withdrawal made by a member.
type Contribution struct {
	ID            string           `db:"id" json:"id"`
	MembershipID  string           `db:"membership_id" json:"membership_id"`
	Amount        decimal.Decimal  `db:"amount" json:"amount"`
	Kind          ContributionKind `db:"kind" json:"kind"`
	TransactionID *string          `db:"transaction_id" json:"transaction_id"` // Ledger record written with this contribution
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// NewContribution creates a contribution linked to its ledger record.
func NewContribution(membershipID string, amount decimal.Decimal, kind ContributionKind, transactionID string) *Contribution {
	return &Contribution{
		ID:            uuid.NewString(),
		MembershipID:  membershipID,
		Amount:        amount,
		Kind:          kind,
		TransactionID: &transactionID,
		CreatedAt:     time.Now().UTC(),
	}
}
