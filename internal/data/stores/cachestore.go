package stores

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/skiff/internal/core/kv"
	"github.com/colonyops/skiff/internal/core/task"
)

// CacheStore implements task.Cache on top of the KV store. Each user's
// snapshot lives under one key, so a write replaces the whole list
// atomically.
type CacheStore struct {
	kv     *kv.TypedKV[[]task.Task]
	logger zerolog.Logger
}

var _ task.Cache = (*CacheStore)(nil)

// NewCacheStore creates a new KV-backed task cache.
func NewCacheStore(store kv.KV, logger zerolog.Logger) *CacheStore {
	return &CacheStore{
		kv:     kv.Scoped[[]task.Task](store, "cache"),
		logger: logger,
	}
}

// Read returns the user's cached snapshot. A missing or unreadable snapshot
// degrades to an empty list so the app can still start.
func (s *CacheStore) Read(ctx context.Context, userID string) ([]task.Task, error) {
	tasks, err := s.kv.Get(ctx, userID)
	if err != nil {
		if !errIsNoRows(err) {
			s.logger.Warn().Err(err).Str("user", userID).Msg("task cache unreadable, starting empty")
		}
		return []task.Task{}, nil
	}
	return tasks, nil
}

// Write replaces the user's snapshot.
func (s *CacheStore) Write(ctx context.Context, userID string, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	if err := s.kv.Set(ctx, userID, tasks); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}
