package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewCache opens the SQLite file backing the local cache tier and ensures
// its schema exists. The cache holds per-user notification blobs so reads
// keep working when the remote database is unreachable.
func NewCache(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	// SQLite tolerates a single writer only.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS notification_cache (
			user_id    TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return db, nil
}
