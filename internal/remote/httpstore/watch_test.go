package httpstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/skiff/internal/core/remote"
	"github.com/colonyops/skiff/internal/core/task"
)

func TestWatch_DeliversSnapshots(t *testing.T) {
	snapshots := [][]task.Task{
		{{ID: "t-1", Title: "one"}},
		{{ID: "t-1", Title: "one"}, {ID: "t-2", Title: "two"}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users/alice/tasks/watch", r.URL.Path)

		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "")

		for _, snap := range snapshots {
			data, err := json.Marshal(snap)
			require.NoError(t, err)
			require.NoError(t, conn.Write(r.Context(), websocket.MessageText, data))
			time.Sleep(20 * time.Millisecond)
		}
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL: server.URL,
		UserID:  "alice",
		Timeout: 2 * time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	sub, err := client.Watch(context.Background())
	require.NoError(t, err)
	defer func() { _ = sub.Close() }()

	first, ok := <-sub.Snapshots()
	require.True(t, ok)
	require.NotEmpty(t, first)
	assert.Equal(t, "t-1", first[0].ID)
}

func TestWatch_DialFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := New(Config{
		BaseURL: server.URL,
		UserID:  "alice",
		Timeout: time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = client.Watch(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnavailable)
}

func TestWatch_CloseEndsFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		// Hold the connection open until the client closes it.
		_, _, _ = conn.Read(r.Context())
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL: server.URL,
		UserID:  "alice",
		Timeout: 2 * time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	sub, err := client.Watch(context.Background())
	require.NoError(t, err)
	_ = sub.Close()

	select {
	case _, ok := <-sub.Snapshots():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot channel not closed after Close")
	}
}
