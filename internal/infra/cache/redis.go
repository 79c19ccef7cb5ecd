// Package cache provides Redis-based caching for quick state reads.
// The cached snapshot is never the source of truth; the engine and the
// event archive are. A cold or absent cache only costs a slower read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RedisClient is an interface for Redis operations.
// This allows for easy mocking in tests.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SnapshotCache provides fast access to the latest match snapshot.
type SnapshotCache struct {
	client     RedisClient
	expiration time.Duration
}

// NewSnapshotCache creates a new snapshot cache instance.
func NewSnapshotCache(client RedisClient) *SnapshotCache {
	return &SnapshotCache{
		client:     client,
		expiration: 15 * time.Minute,
	}
}

// CachedSnapshot wraps the serialized engine snapshot with a sync stamp.
type CachedSnapshot struct {
	MatchID  string          `json:"match_id"`
	Round    int             `json:"round"`
	Phase    string          `json:"phase"`
	State    json.RawMessage `json:"state"`
	LastSync int64           `json:"last_sync"` // Unix timestamp
}

// SetSnapshot caches the current snapshot of a match.
func (c *SnapshotCache) SetSnapshot(ctx context.Context, snap CachedSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, c.snapshotKey(snap.MatchID), data, c.expiration)
}

// GetSnapshot retrieves the cached snapshot of a match.
func (c *SnapshotCache) GetSnapshot(ctx context.Context, matchID string) (*CachedSnapshot, error) {
	data, err := c.client.Get(ctx, c.snapshotKey(matchID))
	if err != nil {
		return nil, err // Cache miss or error
	}

	var snap CachedSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Invalidate removes the cached snapshot for a match.
func (c *SnapshotCache) Invalidate(ctx context.Context, matchID string) error {
	return c.client.Del(ctx, c.snapshotKey(matchID))
}

// snapshotKey generates the Redis key for a match snapshot.
func (c *SnapshotCache) snapshotKey(matchID string) string {
	return fmt.Sprintf("match:%s:snapshot", matchID)
}
