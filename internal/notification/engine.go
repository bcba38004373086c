package notification

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/subslayer/subslayer/internal/money"
	"github.com/subslayer/subslayer/internal/settings"
	"github.com/subslayer/subslayer/internal/subscription"
)

//go:generate mockgen -source=engine.go -destination=engine_mock.go -package=notification
type SubscriptionSource interface {
	ListSubscriptions(ctx context.Context, userID string) ([]*subscription.Subscription, error)
}

type SettingsSource interface {
	Get(ctx context.Context, userID string) (settings.AppSettings, error)
}

// Repository persists the per-user notification list as one blob. Reads and
// writes always cover the whole list.
type Repository interface {
	LoadItems(ctx context.Context, userID string) ([]Item, error)
	SaveItems(ctx context.Context, userID string, items []Item) error
}

// PushNote is what the push gateway displays. Tag carries the notification id
// so the platform collapses repeated displays of the same alert.
type PushNote struct {
	Title string
	Body  string
	Icon  string
	Tag   string
}

type Pusher interface {
	Display(ctx context.Context, userID string, note PushNote) error
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlContent string) error
}

// Engine derives notifications from the subscription list and the user's
// reminder preferences. It is invoked on subscription changes and from the
// periodic sweep; both paths run the same evaluation procedure.
type Engine struct {
	subs     SubscriptionSource
	settings SettingsSource
	repo     Repository
	pusher   Pusher
	email    EmailSender
}

func NewEngine(subs SubscriptionSource, prefs SettingsSource, repo Repository, pusher Pusher, email EmailSender) *Engine {
	return &Engine{
		subs:     subs,
		settings: prefs,
		repo:     repo,
		pusher:   pusher,
		email:    email,
	}
}

// daysUntil computes the ceiling of the raw timestamp delta in days. "now"
// keeps its time of day on purpose: a renewal due tomorrow at 00:01 reports 1
// even at 23:59 today. Compatibility behavior, do not normalize to midnight.
func daysUntil(next time.Time, now time.Time) int {
	return int(math.Ceil(next.Sub(now).Hours() / 24))
}

type dedupKey struct {
	subID string
	typ   Type
}

// dedupIndex answers duplicate checks in O(1) per lookup instead of scanning
// the full list for every subscription.
type dedupIndex struct {
	bySub map[dedupKey][]int
	byID  map[string]struct{}
}

func indexItems(items []Item) dedupIndex {
	idx := dedupIndex{
		bySub: make(map[dedupKey][]int),
		byID:  make(map[string]struct{}, len(items)),
	}

	for _, it := range items {
		idx.byID[it.ID] = struct{}{}

		if it.Subscription == nil {
			continue
		}

		days := 0
		if it.DaysUntil != nil {
			days = *it.DaysUntil
		}

		k := dedupKey{subID: it.Subscription.ID, typ: it.Type}
		idx.bySub[k] = append(idx.bySub[k], days)
	}

	return idx
}

// hasRenewalNear reports whether a renewal reminder within one day of the
// computed offset already exists. The tolerance absorbs day-boundary jitter
// between consecutive runs crossing midnight.
func (idx dedupIndex) hasRenewalNear(subID string, days int) bool {
	for _, recorded := range idx.bySub[dedupKey{subID: subID, typ: TypeRenewal}] {
		delta := recorded - days
		if delta >= -1 && delta <= 1 {
			return true
		}
	}

	return false
}

func (idx dedupIndex) has(subID string, typ Type) bool {
	return len(idx.bySub[dedupKey{subID: subID, typ: typ}]) > 0
}

func (idx dedupIndex) hasID(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// Sweep runs the evaluation procedure once for one user: renewal reminders
// for active subscriptions whose lead time matches, one overdue alert per
// lapsed renewal, and a savings suggestion per paused subscription. Newly
// created items are returned after being appended and persisted in one batch.
func (e *Engine) Sweep(ctx context.Context, userID string, now time.Time) ([]Item, error) {
	prefs, err := e.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if !prefs.PushNotifications {
		return nil, nil
	}

	subs, err := e.subs.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	existing, err := e.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}

	idx := indexItems(existing)

	var created []Item

	for _, sub := range subs {
		switch sub.Status {
		case subscription.StatusActive:
			days := daysUntil(sub.NextBilling, now)

			if prefs.ReminderDays.Contains(days) && !idx.hasRenewalNear(sub.ID.String(), days) {
				created = append(created, newRenewalItem(sub, days, prefs.Currency, now))
			}

			if days < 0 && !idx.has(sub.ID.String(), TypeOverdue) {
				created = append(created, newOverdueItem(sub, days, now))
			}

		case subscription.StatusPaused:
			if !idx.hasID(SavingsID(sub.ID.String())) {
				created = append(created, newSavingsItem(sub, now))
			}

		case subscription.StatusCancelled:
			// Nothing to remind about.
		}
	}

	return e.commit(ctx, userID, prefs, existing, created, now)
}

// WeeklyDigest emits one spend-summary item per ISO week when the user opted
// in.
func (e *Engine) WeeklyDigest(ctx context.Context, userID string, now time.Time) ([]Item, error) {
	prefs, err := e.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if !prefs.WeeklyDigest || !prefs.PushNotifications {
		return nil, nil
	}

	year, week := now.ISOWeek()
	id := DigestID(fmt.Sprintf("%d-W%02d", year, week))

	return e.digest(ctx, userID, prefs, id, "Weekly digest", now)
}

// MonthlyReport emits one spend-summary item per calendar month when the user
// opted in.
func (e *Engine) MonthlyReport(ctx context.Context, userID string, now time.Time) ([]Item, error) {
	prefs, err := e.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if !prefs.MonthlyReport || !prefs.PushNotifications {
		return nil, nil
	}

	id := DigestID("report-" + now.Format("2006-01"))

	return e.digest(ctx, userID, prefs, id, "Monthly spending report", now)
}

func (e *Engine) digest(ctx context.Context, userID string, prefs settings.AppSettings, id, title string, now time.Time) ([]Item, error) {
	existing, err := e.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}

	if indexItems(existing).hasID(id) {
		return nil, nil
	}

	subs, err := e.subs.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	active := 0
	total := decimal.Zero

	for _, sub := range subs {
		if sub.Status != subscription.StatusActive {
			continue
		}

		active++

		total = total.Add(sub.MonthlyCost())
	}

	item := Item{
		ID:    id,
		Type:  TypeDigest,
		Title: title,
		Message: fmt.Sprintf("You have %d active subscription(s) costing %s per month.",
			active, money.Format(prefs.Currency, total)),
		Amount:    &total,
		CreatedAt: now,
	}

	return e.commit(ctx, userID, prefs, existing, []Item{item}, now)
}

// commit appends the new items, persists the whole list once, and dispatches
// side effects. A persistence failure is logged, not returned: the caller
// still gets the created items so the current session stays consistent.
func (e *Engine) commit(ctx context.Context, userID string, prefs settings.AppSettings, existing, created []Item, now time.Time) ([]Item, error) {
	if len(created) == 0 {
		return nil, nil
	}

	merged := append(existing, created...)
	if err := e.repo.SaveItems(ctx, userID, merged); err != nil {
		slog.Error("persisting notifications", "user", userID, "error", err)
	}

	e.dispatch(ctx, userID, prefs, created, now)

	return created, nil
}

// dispatch fires at most one push display and one email per new item. Every
// failure is logged and swallowed: side effects never block or roll back the
// notification itself.
func (e *Engine) dispatch(ctx context.Context, userID string, prefs settings.AppSettings, items []Item, now time.Time) {
	for _, it := range items {
		if e.pusher != nil {
			note := PushNote{
				Title: it.Title,
				Body:  it.Message,
				Icon:  iconFor(it.Type),
				Tag:   it.ID,
			}
			if err := e.pusher.Display(ctx, userID, note); err != nil {
				slog.Warn("displaying push notification", "user", userID, "id", it.ID, "error", err)
			}
		}

		if prefs.EmailNotifications && prefs.Email != "" && e.email != nil {
			subject, body := composeEmail(it, prefs, now)
			if err := e.email.Send(ctx, prefs.Email, subject, body); err != nil {
				slog.Warn("sending notification email", "user", userID, "id", it.ID, "error", err)
			}
		}
	}
}

func iconFor(t Type) string {
	switch t {
	case TypeRenewal:
		return "/icons/renewal.png"
	case TypeOverdue:
		return "/icons/overdue.png"
	case TypeSavings:
		return "/icons/savings.png"
	case TypeDigest:
		return "/icons/digest.png"
	}

	return "/icons/bell.png"
}

func composeEmail(it Item, prefs settings.AppSettings, now time.Time) (subject, htmlContent string) {
	subject = it.Title

	layout := prefs.DateFormat
	if layout == "" {
		layout = "2006-01-02"
	}

	body := fmt.Sprintf("<h2>%s</h2><p>%s</p>", it.Title, it.Message)

	if it.Subscription != nil && it.DaysUntil != nil {
		nextBilling := now.AddDate(0, 0, *it.DaysUntil).Format(layout)

		amount := ""
		if it.Amount != nil {
			amount = money.Format(prefs.Currency, *it.Amount)
		}

		body += fmt.Sprintf("<p><strong>%s</strong>: %s, next billing %s</p>",
			it.Subscription.Name, amount, nextBilling)
	}

	return subject, body
}

func newRenewalItem(sub *subscription.Subscription, days int, currency string, now time.Time) Item {
	amount := sub.Cost
	daysCopy := days

	when := fmt.Sprintf("in %d day(s)", days)
	if days == 0 {
		when = "today"
	}

	return Item{
		ID:      RenewalID(sub.ID.String(), days),
		Type:    TypeRenewal,
		Title:   "Upcoming renewal",
		Message: fmt.Sprintf("%s renews %s (%s)", sub.Name, when, money.Format(currency, amount)),
		Subscription: &SubscriptionRef{
			ID:   sub.ID.String(),
			Name: sub.Name,
		},
		Amount:    &amount,
		DaysUntil: &daysCopy,
		Urgent:    days <= 3,
		CreatedAt: now,
	}
}

func newOverdueItem(sub *subscription.Subscription, days int, now time.Time) Item {
	amount := sub.Cost
	daysCopy := days

	return Item{
		ID:      OverdueID(sub.ID.String()),
		Type:    TypeOverdue,
		Title:   "Renewal overdue",
		Message: fmt.Sprintf("%s is %d day(s) overdue. Update its next billing date if you renewed.", sub.Name, -days),
		Subscription: &SubscriptionRef{
			ID:   sub.ID.String(),
			Name: sub.Name,
		},
		Amount:    &amount,
		DaysUntil: &daysCopy,
		Urgent:    true,
		CreatedAt: now,
	}
}

func newSavingsItem(sub *subscription.Subscription, now time.Time) Item {
	monthly := sub.MonthlyCost()

	return Item{
		ID:      SavingsID(sub.ID.String()),
		Type:    TypeSavings,
		Title:   "Savings opportunity",
		Message: fmt.Sprintf("%s is paused. Cancelling it frees up %s per month.", sub.Name, money.Format(sub.Currency, monthly)),
		Subscription: &SubscriptionRef{
			ID:   sub.ID.String(),
			Name: sub.Name,
		},
		Amount:    &monthly,
		Urgent:    false,
		CreatedAt: now,
	}
}
