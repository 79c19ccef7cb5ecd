// Package storage provides the persistence layer for the match server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// EventRecord mirrors the domain event structure for archival. The domain
// package does NOT import this; the adapter in persister.go translates.
// StoredAt is an archive-side stamp and never part of the deterministic log.
type EventRecord struct {
	Seq       int64                  `json:"seq" db:"seq"`
	MatchID   string                 `json:"match_id" db:"match_id"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Round     int                    `json:"round" db:"round"`
	Phase     string                 `json:"phase" db:"phase"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	StoredAt  time.Time              `json:"stored_at" db:"stored_at"`
}

// EventArchive defines the interface for event archival.
// The engine's in-memory log is the source of truth during a match; the
// archive is what survives a restart and what post-game tooling reads.
type EventArchive interface {
	// Append adds a new record to the immutable archive.
	Append(ctx context.Context, record EventRecord) error

	// GetByMatchID retrieves all records for a match in log order.
	GetByMatchID(ctx context.Context, matchID string) ([]EventRecord, error)

	// GetByActorID retrieves all records for one acting player.
	GetByActorID(ctx context.Context, matchID, actorID string) ([]EventRecord, error)

	// GetByRound retrieves all records from a specific round.
	GetByRound(ctx context.Context, matchID string, round int) ([]EventRecord, error)

	// GetByEventType retrieves all records of a specific type.
	GetByEventType(ctx context.Context, matchID string, eventType string) ([]EventRecord, error)

	// LastSeq returns the highest archived sequence number, 0 when empty.
	LastSeq(ctx context.Context, matchID string) (int64, error)
}

// MatchSnapshotRecord is the periodically written state snapshot for quick
// reads and restart recovery. State is the engine snapshot as JSON.
type MatchSnapshotRecord struct {
	MatchID     string    `json:"match_id" db:"match_id"`
	Round       int       `json:"round" db:"round"`
	Phase       string    `json:"phase" db:"phase"`
	GameEnded   bool      `json:"game_ended" db:"game_ended"`
	State       []byte    `json:"state" db:"state"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// SnapshotRepository defines the interface for match snapshots.
type SnapshotRepository interface {
	// Upsert updates or inserts the snapshot for a match.
	Upsert(ctx context.Context, snapshot MatchSnapshotRecord) error

	// GetByMatchID retrieves the latest snapshot, nil when none exists.
	GetByMatchID(ctx context.Context, matchID string) (*MatchSnapshotRecord, error)
}
