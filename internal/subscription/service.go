package subscription

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subslayer/subslayer/internal/bus"
	"github.com/subslayer/subslayer/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=subscription
type Repository interface {
	CreateSubscription(ctx context.Context, sub *Subscription) error
	GetSubscription(ctx context.Context, userID string, id uuid.UUID) (*Subscription, error)
	UpdateSubscription(ctx context.Context, sub *Subscription) error
	UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status Status) error
	ListSubscriptions(ctx context.Context, userID string, filter ListFilter) ([]*Subscription, error)
	DeleteSubscription(ctx context.Context, userID string, id uuid.UUID) error
	DeleteSubscriptions(ctx context.Context, userID string, ids []uuid.UUID) (int64, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

type Service struct {
	repo    Repository
	changes *bus.Bus[ChangeEvent]
}

func NewService(repo Repository, changes *bus.Bus[ChangeEvent]) *Service {
	return &Service{repo: repo, changes: changes}
}

type CreateParams struct {
	Name        string
	Description string
	Cost        decimal.Decimal
	Currency    string
	Cycle       BillingCycle
	NextBilling time.Time
	Category    string
	Color       string
	Status      Status
}

type ListFilter struct {
	Status   *Status
	Category *string
}

func (p CreateParams) validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}

	if p.Cost.IsNegative() {
		return fmt.Errorf("cost must not be negative")
	}

	if !money.ValidCode(p.Currency) {
		return fmt.Errorf("invalid currency code %q", p.Currency)
	}

	if p.Cycle != CycleMonthly && p.Cycle != CycleAnnual {
		return fmt.Errorf("invalid billing cycle %q", p.Cycle)
	}

	if p.NextBilling.IsZero() {
		return fmt.Errorf("next billing date is required")
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Subscription, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}

	sub := &Subscription{
		UserID:      userID,
		Name:        params.Name,
		Description: params.Description,
		Cost:        params.Cost,
		Currency:    params.Currency,
		Cycle:       params.Cycle,
		NextBilling: params.NextBilling,
		Category:    params.Category,
		Color:       params.Color,
		Status:      status,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.changes.Publish(ChangeEvent{UserID: userID})

	return sub, nil
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Subscription, error) {
	return s.repo.GetSubscription(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userID, filter)
}

// ListSubscriptions returns the user's full, unfiltered list. The
// notification engine consumes the service through this method.
func (s *Service) ListSubscriptions(ctx context.Context, userID string) ([]*Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userID, ListFilter{})
}

func (s *Service) Update(ctx context.Context, sub *Subscription) error {
	if sub.Cost.IsNegative() {
		return fmt.Errorf("cost must not be negative")
	}

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	s.changes.Publish(ChangeEvent{UserID: sub.UserID})

	return nil
}

// ToggleStatus flips a subscription between active and paused. A cancelled
// subscription is reactivated.
func (s *Service) ToggleStatus(ctx context.Context, userID string, id uuid.UUID) (*Subscription, error) {
	sub, err := s.repo.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	next := StatusActive
	if sub.Status == StatusActive {
		next = StatusPaused
	}

	if err := s.repo.UpdateStatus(ctx, userID, id, next); err != nil {
		return nil, err
	}

	sub.Status = next
	s.changes.Publish(ChangeEvent{UserID: userID})

	return sub, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.repo.DeleteSubscription(ctx, userID, id); err != nil {
		return err
	}

	s.changes.Publish(ChangeEvent{UserID: userID})

	return nil
}

// BulkDelete removes several subscriptions at once and reports how many rows
// were actually deleted.
func (s *Service) BulkDelete(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	deleted, err := s.repo.DeleteSubscriptions(ctx, userID, ids)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.changes.Publish(ChangeEvent{UserID: userID})
	}

	return deleted, nil
}

// UserIDs returns every user with at least one subscription. Used by the
// periodic notification sweep.
func (s *Service) UserIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListUserIDs(ctx)
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category     string
	MonthlyTotal decimal.Decimal
	Count        int
}

// Summary holds the derived aggregates the dashboard renders. It is computed
// from the live list on every request; nothing here is persisted.
type Summary struct {
	MonthlyTotal   decimal.Decimal
	AnnualTotal    decimal.Decimal
	ActiveCount    int
	PausedCount    int
	CancelledCount int
	Categories     []CategoryTotal
	Upcoming       []*Subscription
}

// Summarize computes spending aggregates over the user's subscriptions.
// Only active subscriptions count toward totals; upcoming renewals cover the
// next 30 days.
func (s *Service) Summarize(ctx context.Context, userID string, now time.Time) (*Summary, error) {
	subs, err := s.repo.ListSubscriptions(ctx, userID, ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	summary := &Summary{
		MonthlyTotal: decimal.Zero,
		AnnualTotal:  decimal.Zero,
	}
	byCategory := make(map[string]*CategoryTotal)
	horizon := now.AddDate(0, 0, 30)

	for _, sub := range subs {
		switch sub.Status {
		case StatusPaused:
			summary.PausedCount++
			continue
		case StatusCancelled:
			summary.CancelledCount++
			continue
		}

		summary.ActiveCount++

		monthly := sub.MonthlyCost()
		summary.MonthlyTotal = summary.MonthlyTotal.Add(monthly)

		cat := sub.DisplayCategory()
		entry, ok := byCategory[cat]
		if !ok {
			entry = &CategoryTotal{Category: cat, MonthlyTotal: decimal.Zero}
			byCategory[cat] = entry
		}

		entry.MonthlyTotal = entry.MonthlyTotal.Add(monthly)
		entry.Count++

		if !sub.NextBilling.Before(now.Truncate(24*time.Hour)) && sub.NextBilling.Before(horizon) {
			summary.Upcoming = append(summary.Upcoming, sub)
		}
	}

	summary.AnnualTotal = summary.MonthlyTotal.Mul(decimal.NewFromInt(12))

	summary.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, entry := range byCategory {
		summary.Categories = append(summary.Categories, *entry)
	}

	// Largest spend first; ties break alphabetically for stable output.
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if !a.MonthlyTotal.Equal(b.MonthlyTotal) {
			return a.MonthlyTotal.GreaterThan(b.MonthlyTotal)
		}

		return a.Category < b.Category
	})

	sort.Slice(summary.Upcoming, func(i, j int) bool {
		return summary.Upcoming[i].NextBilling.Before(summary.Upcoming[j].NextBilling)
	})

	return summary, nil
}
