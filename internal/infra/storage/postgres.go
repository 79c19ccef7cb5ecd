// Package storage - postgres.go
// PostgreSQL implementation of EventArchive for deployments where the
// archive outlives the host running the match.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// InitPostgres opens a PostgreSQL connection and creates the archive schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS event_archive (
			seq BIGINT NOT NULL,
			match_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL DEFAULT '',
			round INTEGER NOT NULL,
			phase TEXT NOT NULL,
			payload JSONB NOT NULL,
			stored_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (match_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_archive_actor ON event_archive(match_id, actor_id);
		CREATE INDEX IF NOT EXISTS idx_archive_round ON event_archive(match_id, round);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create postgres schema: %w", err)
	}
	return db, nil
}

// PostgresEventArchive implements EventArchive using PostgreSQL.
type PostgresEventArchive struct {
	db *sql.DB
}

// NewPostgresEventArchive creates a new PostgreSQL event archive.
func NewPostgresEventArchive(db *sql.DB) *PostgresEventArchive {
	return &PostgresEventArchive{db: db}
}

// Append inserts a new record into the immutable archive.
func (a *PostgresEventArchive) Append(ctx context.Context, record EventRecord) error {
	payloadJSON, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO event_archive (seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = a.db.ExecContext(ctx, query,
		record.Seq,
		record.MatchID,
		record.EventType,
		record.ActorID,
		record.TargetID,
		record.Round,
		record.Phase,
		payloadJSON,
		record.StoredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to archive event: %w", err)
	}

	return nil
}

// GetByMatchID retrieves all records for a match (the full replay).
func (a *PostgresEventArchive) GetByMatchID(ctx context.Context, matchID string) ([]EventRecord, error) {
	query := `
		SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at
		FROM event_archive
		WHERE match_id = $1
		ORDER BY seq ASC
	`

	return a.queryRecords(ctx, query, matchID)
}

// GetByActorID retrieves all records for one acting player.
func (a *PostgresEventArchive) GetByActorID(ctx context.Context, matchID, actorID string) ([]EventRecord, error) {
	query := `
		SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at
		FROM event_archive
		WHERE match_id = $1 AND actor_id = $2
		ORDER BY seq ASC
	`

	return a.queryRecords(ctx, query, matchID, actorID)
}

// GetByRound retrieves all records from a specific round.
func (a *PostgresEventArchive) GetByRound(ctx context.Context, matchID string, round int) ([]EventRecord, error) {
	query := `
		SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at
		FROM event_archive
		WHERE match_id = $1 AND round = $2
		ORDER BY seq ASC
	`

	return a.queryRecords(ctx, query, matchID, round)
}

// GetByEventType retrieves all records of a specific type.
func (a *PostgresEventArchive) GetByEventType(ctx context.Context, matchID string, eventType string) ([]EventRecord, error) {
	query := `
		SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at
		FROM event_archive
		WHERE match_id = $1 AND event_type = $2
		ORDER BY seq ASC
	`

	return a.queryRecords(ctx, query, matchID, eventType)
}

// LastSeq returns the highest archived sequence number, 0 when empty.
func (a *PostgresEventArchive) LastSeq(ctx context.Context, matchID string) (int64, error) {
	var seq sql.NullInt64
	err := a.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM event_archive WHERE match_id = $1`, matchID).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq.Int64, nil
}

// queryRecords is a helper to execute queries and scan results.
func (a *PostgresEventArchive) queryRecords(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var e EventRecord
		var payloadJSON []byte
		var targetID sql.NullString

		err := rows.Scan(
			&e.Seq,
			&e.MatchID,
			&e.EventType,
			&e.ActorID,
			&targetID,
			&e.Round,
			&e.Phase,
			&payloadJSON,
			&e.StoredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		if targetID.Valid {
			e.TargetID = targetID.String
		}

		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		records = append(records, e)
	}

	return records, rows.Err()
}

// Ensure PostgresEventArchive implements EventArchive
var _ EventArchive = (*PostgresEventArchive)(nil)
