package repository

import (
	"context"
	"encoding/json"
	"time"

	"impactlog/internal/domain"
	"impactlog/pkg/redis"
)

// redisSnapshotStore mirrors the activity list into redis as a single JSON
// blob under a fixed key. Reads degrade to an empty list on any failure: the
// snapshot is a fallback for record store outages, never a source of truth.
type redisSnapshotStore struct {
	redis *redis.Client
}

// NewSnapshotStore creates a redis-backed SnapshotStore
func NewSnapshotStore(redisClient *redis.Client) SnapshotStore {
	return &redisSnapshotStore{redis: redisClient}
}

// Read returns the last mirrored list, or an empty list when the snapshot is
// missing, corrupt, or redis is unreachable
func (s *redisSnapshotStore) Read(ctx context.Context) []domain.Activity {
	raw, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeySnapshot())
	if err != nil || raw == "" {
		return []domain.Activity{}
	}

	var activities []domain.Activity
	if err := json.Unmarshal([]byte(raw), &activities); err != nil {
		// Corrupt snapshots are treated as empty by policy
		return []domain.Activity{}
	}
	if activities == nil {
		return []domain.Activity{}
	}
	return activities
}

// Write mirrors the given list wholesale
func (s *redisSnapshotStore) Write(ctx context.Context, activities []domain.Activity) error {
	if activities == nil {
		activities = []domain.Activity{}
	}

	payload, err := json.Marshal(activities)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeySnapshot(), string(payload), redis.TTLSnapshot); err != nil {
		return err
	}

	// Timestamp is best effort; the snapshot itself already landed
	_ = s.redis.Set(ctx, s.redis.KeyBuilder.KeySnapshotWrittenAt(),
		time.Now().UTC().Format(time.RFC3339), redis.TTLSnapshot)
	return nil
}

// noopSnapshotStore is used when no redis is configured: reads are always
// empty and writes vanish, which matches the degrade-to-empty policy.
type noopSnapshotStore struct{}

// NewNoopSnapshotStore creates a SnapshotStore that remembers nothing
func NewNoopSnapshotStore() SnapshotStore {
	return &noopSnapshotStore{}
}

func (noopSnapshotStore) Read(ctx context.Context) []domain.Activity { return []domain.Activity{} }

func (noopSnapshotStore) Write(ctx context.Context, activities []domain.Activity) error { return nil }

func (noopSnapshotStore) WrittenAt(ctx context.Context) *time.Time { return nil }

// WrittenAt returns when the snapshot was last written, if known
func (s *redisSnapshotStore) WrittenAt(ctx context.Context) *time.Time {
	raw, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeySnapshotWrittenAt())
	if err != nil || raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
