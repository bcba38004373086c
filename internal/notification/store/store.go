package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/subslayer/subslayer/internal/notification"
)

// blobStore is the raw per-user payload layer both tiers implement. A missing
// row surfaces as (nil, nil), not an error.
type blobStore interface {
	Load(ctx context.Context, userID string) ([]byte, error)
	Save(ctx context.Context, userID string, payload []byte) error
}

// Remote keeps notification blobs in Postgres. It is the authoritative tier.
type Remote struct {
	db *sql.DB
}

func NewRemote(db *sql.DB) *Remote {
	return &Remote{db: db}
}

func (r *Remote) Load(ctx context.Context, userID string) ([]byte, error) {
	query := `SELECT payload FROM notification_blobs WHERE user_id = $1`

	var payload []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("loading notification blob: %w", err)
	}

	return payload, nil
}

func (r *Remote) Save(ctx context.Context, userID string, payload []byte) error {
	query := `
		INSERT INTO notification_blobs (user_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, userID, payload)
	if err != nil {
		return fmt.Errorf("saving notification blob: %w", err)
	}

	return nil
}

// Cache keeps a local SQLite copy so the inbox survives a remote outage.
type Cache struct {
	db *sql.DB
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

func (c *Cache) Load(ctx context.Context, userID string) ([]byte, error) {
	query := `SELECT payload FROM notification_cache WHERE user_id = ?`

	var payload []byte

	err := c.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("loading cached notifications: %w", err)
	}

	return payload, nil
}

func (c *Cache) Save(ctx context.Context, userID string, payload []byte) error {
	query := `
		INSERT INTO notification_cache (user_id, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`

	_, err := c.db.ExecContext(ctx, query, userID, payload)
	if err != nil {
		return fmt.Errorf("caching notifications: %w", err)
	}

	return nil
}

// TwoTier reads remote first and falls back to the cache, and writes through
// to both. Cache failures are logged, never propagated.
type TwoTier struct {
	remote blobStore
	cache  blobStore
}

func NewTwoTier(remote, cache blobStore) *TwoTier {
	return &TwoTier{remote: remote, cache: cache}
}

func (t *TwoTier) LoadItems(ctx context.Context, userID string) ([]notification.Item, error) {
	payload, err := t.remote.Load(ctx, userID)
	if err == nil {
		return decode(userID, payload), nil
	}

	slog.Warn("remote notification load failed, falling back to cache", "user", userID, "error", err)

	payload, cacheErr := t.cache.Load(ctx, userID)
	if cacheErr != nil {
		return nil, fmt.Errorf("loading notifications from both tiers: %w", err)
	}

	return decode(userID, payload), nil
}

func (t *TwoTier) SaveItems(ctx context.Context, userID string, items []notification.Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding notifications: %w", err)
	}

	if cacheErr := t.cache.Save(ctx, userID, payload); cacheErr != nil {
		slog.Warn("caching notifications failed", "user", userID, "error", cacheErr)
	}

	if err := t.remote.Save(ctx, userID, payload); err != nil {
		return fmt.Errorf("saving notifications: %w", err)
	}

	return nil
}

// decode treats a missing or corrupt payload as an empty inbox. Notifications
// are regenerable, so dropping an unreadable blob is safe.
func decode(userID string, payload []byte) []notification.Item {
	if len(payload) == 0 {
		return []notification.Item{}
	}

	var items []notification.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		slog.Warn("discarding malformed notification blob", "user", userID, "error", err)
		return []notification.Item{}
	}

	return items
}
