// internal/domain/events.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a domain event delivered to the notification collaborator.
type EventType string

const (
	EventLoanDefaulted EventType = "loan.defaulted"
	EventGroupUpgraded EventType = "group.upgraded"
)

// Event is anything the core raises after a state transition.
type Event interface {
	Type() EventType
}

// LoanDefaultedEvent is raised once when an approved loan passes its due date unpaid.
type LoanDefaultedEvent struct {
	LoanID       string          `json:"loan_id"`
	MembershipID string          `json:"membership_id"`
	GroupID      string          `json:"group_id"`
	BorrowerID   string          `json:"borrower_id"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func (LoanDefaultedEvent) Type() EventType { return EventLoanDefaulted }

// GroupUpgradedEvent is raised once per member when their group moves up a tier.
type GroupUpgradedEvent struct {
	GroupID    string    `json:"group_id"`
	GroupName  string    `json:"group_name"`
	UserID     string    `json:"user_id"`
	FromTier   Tier      `json:"from_tier"`
	ToTier     Tier      `json:"to_tier"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (GroupUpgradedEvent) Type() EventType { return EventGroupUpgraded }
