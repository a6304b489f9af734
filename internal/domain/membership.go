// internal/domain/membership.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is a member's role inside a group.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// DefaultMemberContributionLimit applies to memberships created without an explicit limit.
var DefaultMemberContributionLimit = decimal.NewFromInt(10_000)

// Membership links one user to one group.
type Membership struct {
	ID                string          `db:"id" json:"id"`
	UserID            string          `db:"user_id" json:"user_id"`
	GroupID           string          `db:"group_id" json:"group_id"`
	Role              Role            `db:"role" json:"role"`
	ContributionLimit decimal.Decimal `db:"contribution_limit" json:"contribution_limit"`
	JoinedAt          time.Time       `db:"joined_at" json:"joined_at"`
}

// NewMembership creates a membership with the default per-member limit.
func NewMembership(userID, groupID string, role Role) *Membership {
	return &Membership{
		ID:                uuid.NewString(),
		UserID:            userID,
		GroupID:           groupID,
		Role:              role,
		ContributionLimit: DefaultMemberContributionLimit,
		JoinedAt:          time.Now().UTC(),
	}
}
