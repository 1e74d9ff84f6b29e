package httpstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/skiff/internal/core/remote"
	"github.com/colonyops/skiff/internal/core/task"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL: server.URL,
		Token:   "test-token",
		UserID:  "alice",
		Timeout: 2 * time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(Config{BaseURL: "https://ok.example", UserID: ""})
	require.Error(t, err)

	_, err = New(Config{BaseURL: "ftp://bad.example", UserID: "alice"})
	require.Error(t, err)
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/users/alice/tasks", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var in task.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Buy milk", in.Title)

		in.ID = "srv-100"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))

	created, err := client.Create(context.Background(), task.Task{ID: "local-abc", Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "srv-100", created.ID)
}

func TestClient_UpdateNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/users/alice/tasks/t-1", r.URL.Path)
		http.Error(w, "no such task", http.StatusNotFound)
	}))

	_, err := client.Update(context.Background(), "t-1", task.Patch{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnavailable)
}

func TestClient_ConnectionRefusedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := New(Config{
		BaseURL: server.URL,
		UserID:  "alice",
		Timeout: time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, client.Ping(context.Background()), remote.ErrUnavailable)
}

func TestClient_List(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users/alice/tasks", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]task.Task{
			{ID: "t-1", Title: "one"},
			{ID: "t-2", Title: "two"},
		})
	}))

	tasks, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t-1", tasks[0].ID)
}

func TestClient_DeleteSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.Delete(context.Background(), "t-1"))
}

func boolPtr(b bool) *bool { return &b }
