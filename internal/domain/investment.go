// internal/domain/investment.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentKind is the asset class of an investment.
type InvestmentKind string

const (
	InvestmentUnitTrust InvestmentKind = "UNIT_TRUST"
	InvestmentBond      InvestmentKind = "BOND"
	InvestmentShares    InvestmentKind = "SHARES"
)

// Valid reports whether k is a known investment kind.
func (k InvestmentKind) Valid() bool {
	switch k {
	case InvestmentUnitTrust, InvestmentBond, InvestmentShares:
		return true
	}
	return false
}

// Investment is capital a group has placed with an external provider.
// Principal and AnnualReturnRate are authoritative; CurrentValue is a cache
// refreshed by the lifecycle sweep.
type Investment struct {
	ID               string          `db:"id" json:"id"`
	GroupID          string          `db:"group_id" json:"group_id"`
	Kind             InvestmentKind  `db:"kind" json:"kind"`
	Principal        decimal.Decimal `db:"principal" json:"principal"`
	PurchaseDate     time.Time       `db:"purchase_date" json:"purchase_date"`
	CurrentValue     decimal.Decimal `db:"current_value" json:"current_value"`
	Provider         string          `db:"provider" json:"provider"` // e.g. "Stanbic", "Old Mutual"
	AnnualReturnRate decimal.Decimal `db:"annual_return_rate" json:"annual_return_rate"`
	PurchasedBy      string          `db:"purchased_by" json:"purchased_by"` // User who placed the purchase
	TransactionID    *string         `db:"transaction_id" json:"transaction_id"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// NewInvestment creates an investment whose current value starts at its principal.
func NewInvestment(groupID, purchasedBy string, kind InvestmentKind, principal, annualReturnRate decimal.Decimal, provider string) *Investment {
	now := time.Now().UTC()
	return &Investment{
		ID:               uuid.NewString(),
		GroupID:          groupID,
		Kind:             kind,
		Principal:        principal,
		PurchaseDate:     now,
		CurrentValue:     principal,
		Provider:         provider,
		AnnualReturnRate: annualReturnRate,
		PurchasedBy:      purchasedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
