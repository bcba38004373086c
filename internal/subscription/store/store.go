package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/subslayer/subslayer/internal/subscription"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSubscription reads a subscription row and returns a populated Subscription.
// Expected column order: id, user_id, name, description, cost, currency, cycle,
// next_billing, category, color, status, created_at, updated_at
func scanSubscription(s scanner) (*subscription.Subscription, error) {
	var sub subscription.Subscription

	var cycleStr, statusStr string

	var desc, category, color sql.NullString

	if err := s.Scan(
		&sub.ID, &sub.UserID, &sub.Name, &desc, &sub.Cost, &sub.Currency,
		&cycleStr, &sub.NextBilling, &category, &color, &statusStr,
		&sub.CreatedAt, &sub.UpdatedAt,
	); err != nil {
		return nil, err
	}

	sub.Cycle = subscription.BillingCycle(cycleStr)
	sub.Status = subscription.Status(statusStr)
	sub.Description = desc.String
	sub.Category = category.String
	sub.Color = color.String

	return &sub, nil
}

const selectSubscriptionColumns = `
	id, user_id, name, description, cost, currency, cycle,
	next_billing, category, color, status, created_at, updated_at
`

func (s *Store) CreateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, name, description, cost, currency, cycle, next_billing, category, color, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sub.UserID,
		sub.Name,
		sub.Description,
		sub.Cost,
		sub.Currency,
		sub.Cycle,
		sub.NextBilling,
		sub.Category,
		sub.Color,
		sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating subscription: %w", err)
	}

	return nil
}

func (s *Store) GetSubscription(ctx context.Context, userID string, id uuid.UUID) (*subscription.Subscription, error) {
	query := `SELECT ` + selectSubscriptionColumns + `
		FROM subscriptions
		WHERE id = $1 AND user_id = $2`

	sub, err := scanSubscription(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, subscription.ErrNotFound
		}

		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	return sub, nil
}

func (s *Store) ListSubscriptions(ctx context.Context, userID string, filter subscription.ListFilter) ([]*subscription.Subscription, error) {
	query := `SELECT ` + selectSubscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1`

	args := []any{userID}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	query += " ORDER BY next_billing ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription

	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subscription: %w", err)
		}

		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscription rows: %w", err)
	}

	return subs, nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions
		SET name = $1, description = $2, cost = $3, currency = $4, cycle = $5,
		    next_billing = $6, category = $7, color = $8, status = $9, updated_at = NOW()
		WHERE id = $10 AND user_id = $11
	`

	_, err := s.db.ExecContext(ctx, query,
		sub.Name,
		sub.Description,
		sub.Cost,
		sub.Currency,
		sub.Cycle,
		sub.NextBilling,
		sub.Category,
		sub.Color,
		sub.Status,
		sub.ID,
		sub.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating subscription: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status subscription.Status) error {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	_, err := s.db.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return nil
}

// DeleteSubscription removes the row permanently. Past notifications that
// reference it are left alone.
func (s *Store) DeleteSubscription(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`

	_, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}

	return nil
}

func (s *Store) DeleteSubscriptions(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)

	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		"DELETE FROM subscriptions WHERE user_id = $1 AND id IN (%s)",
		strings.Join(placeholders, ", "),
	)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting subscriptions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}

	return deleted, nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM subscriptions ORDER BY user_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing user ids: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user id rows: %w", err)
	}

	return ids, nil
}
