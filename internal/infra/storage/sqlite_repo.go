package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventArchive implements EventArchive for SQLite.
type SQLiteEventArchive struct {
	db *sql.DB
}

func NewSQLiteEventArchive(db *sql.DB) *SQLiteEventArchive {
	return &SQLiteEventArchive{db: db}
}

func (a *SQLiteEventArchive) Append(ctx context.Context, record EventRecord) error {
	payloadBytes, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO event_archive (seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = a.db.ExecContext(ctx, query,
		record.Seq, record.MatchID, record.EventType, record.ActorID,
		record.TargetID, record.Round, record.Phase, string(payloadBytes), record.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive event: %w", err)
	}
	return nil
}

func (a *SQLiteEventArchive) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var e EventRecord
		var payloadStr string
		err := rows.Scan(
			&e.Seq, &e.MatchID, &e.EventType, &e.ActorID,
			&e.TargetID, &e.Round, &e.Phase, &payloadStr, &e.StoredAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

func (a *SQLiteEventArchive) GetByMatchID(ctx context.Context, matchID string) ([]EventRecord, error) {
	query := `SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at FROM event_archive WHERE match_id = ? ORDER BY seq ASC`
	return a.getMany(ctx, query, matchID)
}

func (a *SQLiteEventArchive) GetByActorID(ctx context.Context, matchID, actorID string) ([]EventRecord, error) {
	query := `SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at FROM event_archive WHERE match_id = ? AND actor_id = ? ORDER BY seq ASC`
	return a.getMany(ctx, query, matchID, actorID)
}

func (a *SQLiteEventArchive) GetByRound(ctx context.Context, matchID string, round int) ([]EventRecord, error) {
	query := `SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at FROM event_archive WHERE match_id = ? AND round = ? ORDER BY seq ASC`
	return a.getMany(ctx, query, matchID, round)
}

func (a *SQLiteEventArchive) GetByEventType(ctx context.Context, matchID string, eventType string) ([]EventRecord, error) {
	query := `SELECT seq, match_id, event_type, actor_id, target_id, round, phase, payload, stored_at FROM event_archive WHERE match_id = ? AND event_type = ? ORDER BY seq ASC`
	return a.getMany(ctx, query, matchID, eventType)
}

func (a *SQLiteEventArchive) LastSeq(ctx context.Context, matchID string) (int64, error) {
	var seq sql.NullInt64
	err := a.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM event_archive WHERE match_id = ?`, matchID).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq.Int64, nil
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot MatchSnapshotRecord) error {
	query := `
		INSERT INTO matches (match_id, round, phase, game_ended, state, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			round=excluded.round,
			phase=excluded.phase,
			game_ended=excluded.game_ended,
			state=excluded.state,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.MatchID, snapshot.Round, snapshot.Phase, snapshot.GameEnded,
		string(snapshot.State), time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetByMatchID(ctx context.Context, matchID string) (*MatchSnapshotRecord, error) {
	query := `SELECT match_id, round, phase, game_ended, state, last_updated FROM matches WHERE match_id = ?`
	var s MatchSnapshotRecord
	var state string
	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&s.MatchID, &s.Round, &s.Phase, &s.GameEnded, &state, &s.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.State = []byte(state)
	return &s, nil
}

var _ EventArchive = (*SQLiteEventArchive)(nil)
var _ SnapshotRepository = (*SQLiteSnapshotRepository)(nil)
