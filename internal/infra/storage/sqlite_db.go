package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the schemas
// for the event archive and the match snapshot table.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			round INTEGER NOT NULL DEFAULT 1,
			phase TEXT NOT NULL DEFAULT 'grants',
			game_ended BOOLEAN NOT NULL DEFAULT 0,
			state TEXT NOT NULL,
			last_updated DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS event_archive (
			seq INTEGER NOT NULL,
			match_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL DEFAULT '',
			round INTEGER NOT NULL,
			phase TEXT NOT NULL,
			payload TEXT NOT NULL,
			stored_at DATETIME NOT NULL,
			PRIMARY KEY (match_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_archive_actor ON event_archive(match_id, actor_id);`,
		`CREATE INDEX IF NOT EXISTS idx_archive_round ON event_archive(match_id, round);`,
		`CREATE INDEX IF NOT EXISTS idx_archive_type ON event_archive(match_id, event_type);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
