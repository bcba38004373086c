package subscription

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("subscription not found")

// BillingCycle represents how often a subscription renews.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Status represents the lifecycle state of a subscription. Transitions are
// user-driven only; nothing expires automatically.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Subscription represents a recurring payment record owned by one user.
type Subscription struct {
	ID          uuid.UUID
	UserID      string
	Name        string
	Description string
	Cost        decimal.Decimal
	Currency    string
	Cycle       BillingCycle
	NextBilling time.Time // date only, midnight UTC
	Category    string
	Color       string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// MonthlyCost normalizes the cost to a per-month figure (annual / 12).
func (s *Subscription) MonthlyCost() decimal.Decimal {
	if s.Cycle == CycleAnnual {
		return s.Cost.Div(decimal.NewFromInt(12)).Round(2)
	}

	return s.Cost
}

// DisplayCategory maps an empty category to the catch-all bucket.
func (s *Subscription) DisplayCategory() string {
	if s.Category == "" {
		return "Uncategorized"
	}

	return s.Category
}

// ChangeEvent is published on every mutation so the notification engine can
// re-evaluate the owning user's reminders.
type ChangeEvent struct {
	UserID string
}
