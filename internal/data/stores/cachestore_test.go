package stores

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/skiff/internal/core/task"
)

func newTestCache(t *testing.T) *CacheStore {
	t.Helper()
	return NewCacheStore(NewKVStore(newTestDB(t)), zerolog.Nop())
}

func TestCacheStore_ReadEmptyWhenMissing(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	tasks, err := cache.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCacheStore_WriteReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Write(ctx, "alice", []task.Task{
		sampleTask("t-1", "one"),
		sampleTask("t-2", "two"),
	}))
	require.NoError(t, cache.Write(ctx, "alice", []task.Task{
		sampleTask("t-3", "three"),
	}))

	tasks, err := cache.Read(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t-3", tasks[0].ID)
}

func TestCacheStore_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Write(ctx, "alice", []task.Task{sampleTask("t-1", "mine")}))

	tasks, err := cache.Read(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCacheStore_CorruptSnapshotDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	kvStore := NewKVStore(database)
	cache := NewCacheStore(kvStore, zerolog.Nop())

	// A snapshot of the wrong shape should not fail reads.
	require.NoError(t, kvStore.Set(ctx, "cache:alice", "not a task list"))

	tasks, err := cache.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
