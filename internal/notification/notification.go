package notification

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the closed set of notification kinds. Adding a variant means
// updating every switch over it.
type Type string

const (
	TypeRenewal Type = "renewal"
	TypeOverdue Type = "overdue"
	TypeSavings Type = "savings"
	TypeDigest  Type = "digest"
)

// SubscriptionRef is the slice of a subscription a notification keeps. It is
// a copy, not a reference: deleting the subscription later must not invalidate
// the notification.
type SubscriptionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is a generated user-facing alert. The ID is deterministic per kind so
// that re-running generation never duplicates an existing entry.
type Item struct {
	ID           string           `json:"id"`
	Type         Type             `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Subscription *SubscriptionRef `json:"subscription,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	DaysUntil    *int             `json:"daysUntil,omitempty"`
	Urgent       bool             `json:"urgent"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// RenewalID encodes (subscription, day offset) so one reminder exists per
// lead time.
func RenewalID(subscriptionID string, daysUntil int) string {
	return fmt.Sprintf("renewal-%s-%d", subscriptionID, daysUntil)
}

// OverdueID encodes only the subscription: at most one overdue alert exists
// per subscription until the user deletes it.
func OverdueID(subscriptionID string) string {
	return fmt.Sprintf("overdue-%s", subscriptionID)
}

func SavingsID(subscriptionID string) string {
	return fmt.Sprintf("savings-%s", subscriptionID)
}

// DigestID namespaces digests by period, e.g. "2026-W36" or "report-2026-08".
func DigestID(period string) string {
	return fmt.Sprintf("digest-%s", period)
}
