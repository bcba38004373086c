package subscription

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subslayer/subslayer/internal/subscription"
)

type subscriptionResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Cost        decimal.Decimal           `json:"cost"`
	Currency    string                    `json:"currency"`
	Cycle       subscription.BillingCycle `json:"cycle"`
	NextBilling time.Time                 `json:"next_billing"`
	Category    string                    `json:"category,omitempty"`
	Color       string                    `json:"color,omitempty"`
	Status      subscription.Status       `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   *time.Time                `json:"updated_at,omitempty"`
}

func toResponse(sub *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:          sub.ID,
		Name:        sub.Name,
		Description: sub.Description,
		Cost:        sub.Cost,
		Currency:    sub.Currency,
		Cycle:       sub.Cycle,
		NextBilling: sub.NextBilling,
		Category:    sub.Category,
		Color:       sub.Color,
		Status:      sub.Status,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

func toResponseList(subs []*subscription.Subscription) []subscriptionResponse {
	resp := make([]subscriptionResponse, len(subs))
	for i, sub := range subs {
		resp[i] = toResponse(sub)
	}

	return resp
}

type categoryTotalResponse struct {
	Category     string          `json:"category"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
	Count        int             `json:"count"`
}

type summaryResponse struct {
	MonthlyTotal   decimal.Decimal         `json:"monthly_total"`
	AnnualTotal    decimal.Decimal         `json:"annual_total"`
	ActiveCount    int                     `json:"active_count"`
	PausedCount    int                     `json:"paused_count"`
	CancelledCount int                     `json:"cancelled_count"`
	Categories     []categoryTotalResponse `json:"categories"`
	Upcoming       []subscriptionResponse  `json:"upcoming"`
}

func toSummaryResponse(summary *subscription.Summary) summaryResponse {
	categories := make([]categoryTotalResponse, len(summary.Categories))
	for i, cat := range summary.Categories {
		categories[i] = categoryTotalResponse{
			Category:     cat.Category,
			MonthlyTotal: cat.MonthlyTotal,
			Count:        cat.Count,
		}
	}

	return summaryResponse{
		MonthlyTotal:   summary.MonthlyTotal,
		AnnualTotal:    summary.AnnualTotal,
		ActiveCount:    summary.ActiveCount,
		PausedCount:    summary.PausedCount,
		CancelledCount: summary.CancelledCount,
		Categories:     categories,
		Upcoming:       toResponseList(summary.Upcoming),
	}
}
