// Package remote defines the boundary to the authoritative task store.
//
// The store is an external, eventually-consistent document collection
// reachable over a network that may be unavailable. Implementations live
// elsewhere (internal/remote); this package only carries the contract the
// sync coordinator programs against.
package remote

import (
	"context"
	"errors"

	"github.com/colonyops/skiff/internal/core/task"
)

var (
	// ErrUnavailable is returned when the remote store cannot be reached.
	// The coordinator treats it as "offline": the mutation is enqueued and
	// applied optimistically. Adapter timeouts map to this error as well.
	ErrUnavailable = errors.New("remote store unavailable")

	// ErrNotFound is returned when the target id no longer exists remotely,
	// e.g. it was deleted from another device. Non-fatal during replay.
	ErrNotFound = errors.New("task not found in remote store")
)

// Store is the remote task collection for a single authenticated user.
type Store interface {
	// Create stores a new task and returns it with the server-assigned id
	// and server timestamps.
	Create(ctx context.Context, t task.Task) (task.Task, error)

	// Update applies a partial update and returns the resulting task.
	Update(ctx context.Context, id string, p task.Patch) (task.Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id string) error

	// List returns the user's full task list ordered by priority descending
	// then due date ascending, ties broken by store insertion order.
	List(ctx context.Context) ([]task.Task, error)

	// Watch opens a live snapshot feed. Every change to the remote
	// collection delivers the full current ordered task list.
	Watch(ctx context.Context) (Subscription, error)

	// Ping verifies the store is reachable. Used by the connectivity probe.
	Ping(ctx context.Context) error
}

// Subscription is a cancellable handle on the live snapshot feed.
//
// Snapshots is closed after Close is called or the feed fails; Err reports
// the terminal error, if any, once the channel is closed.
type Subscription interface {
	Snapshots() <-chan []task.Task
	Err() error
	Close() error
}
