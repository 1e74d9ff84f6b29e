package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapKV is a minimal in-memory KV for exercising the typed wrapper.
type mapKV struct {
	data map[string][]byte
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string][]byte)}
}

func (m *mapKV) Get(_ context.Context, key string, dest any) error {
	raw, ok := m.data[key]
	if !ok {
		return fmt.Errorf("get %q: %w", key, sql.ErrNoRows)
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapKV) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mapKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mapKV) Has(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *mapKV) ListKeys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func TestScoped_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	backing := newMapKV()
	typed := Scoped[[]string](backing, "cache")

	require.NoError(t, typed.Set(ctx, "alice", []string{"a", "b"}))

	_, ok := backing.data["cache:alice"]
	assert.True(t, ok, "key should carry the namespace prefix")

	got, err := typed.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	has, err := typed.Has(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "alice"))
	has, err = typed.Has(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestScoped_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	backing := newMapKV()

	a := Scoped[int](backing, "a")
	b := Scoped[int](backing, "b")

	require.NoError(t, a.Set(ctx, "key", 1))

	_, err := b.Get(ctx, "key")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
