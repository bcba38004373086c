package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/subslayer/subslayer/internal/settings"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) LoadSettings(ctx context.Context, userID string) ([]byte, error) {
	query := `SELECT payload FROM app_settings WHERE user_id = $1`

	var payload []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, settings.ErrNotFound
		}

		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return payload, nil
}

func (s *Store) SaveSettings(ctx context.Context, userID string, payload []byte) error {
	query := `
		INSERT INTO app_settings (user_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, userID, payload)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
