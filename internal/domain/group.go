// internal/domain/group.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Tier is the ordinal classification of a group. Higher tiers unlock larger
// investment ceilings.
type Tier int

const (
	TierOne   Tier = 1
	TierTwo   Tier = 2
	TierThree Tier = 3
)

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t >= TierOne && t <= TierThree
}

// InvestmentCap is the fraction of the group balance that may be held in investments.
func (t Tier) InvestmentCap() decimal.Decimal {
	switch t {
	case TierOne:
		return decimal.RequireFromString("0.30")
	case TierTwo:
		return decimal.RequireFromString("0.50")
	default:
		return decimal.RequireFromString("0.70")
	}
}

// RiskTolerance describes how aggressively a group wants to invest.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "LOW"
	RiskMedium RiskTolerance = "MEDIUM"
	RiskHigh   RiskTolerance = "HIGH"
)

// Valid reports whether r is a known risk tolerance.
func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// DefaultGroupContributionLimit applies when a group is created without an explicit limit.
var DefaultGroupContributionLimit = decimal.NewFromInt(1_000_000)

// Group is a savings group. Balance is owned exclusively by the ledger and is
// never negative.
type Group struct {
	ID                string          `db:"id" json:"id"`                                 // UUID primary key
	Name              string          `db:"name" json:"name"`                             // Display name
	Balance           decimal.Decimal `db:"balance" json:"balance"`                       // Running balance, NUMERIC(15, 2) in DB
	Tier              Tier            `db:"tier" json:"tier"`                             // 1..3
	RiskTolerance     RiskTolerance   `db:"risk_tolerance" json:"risk_tolerance"`         // LOW, MEDIUM, HIGH
	ContributionLimit decimal.Decimal `db:"contribution_limit" json:"contribution_limit"` // Group-wide contribution ceiling
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`                 // Timestamp of creation
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`                 // Timestamp of last update
}

// NewGroup creates a tier one group with a zero balance.
func NewGroup(name string, risk RiskTolerance, contributionLimit decimal.Decimal) *Group {
	now := time.Now().UTC()
	if contributionLimit.IsZero() {
		contributionLimit = DefaultGroupContributionLimit
	}
	return &Group{
		ID:                uuid.NewString(),
		Name:              name,
		Balance:           decimal.Zero, // Initialize balance to 0
		Tier:              TierOne,
		RiskTolerance:     risk,
		ContributionLimit: contributionLimit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
