package task

import "context"

// Cache is the per-user durable snapshot of the task list, readable without
// connectivity.
//
// Write replaces the entire snapshot; a reader never observes a partially
// written list. Read degrades to an empty list when the underlying storage
// is absent or corrupt rather than failing the caller.
type Cache interface {
	Read(ctx context.Context, userID string) ([]Task, error)
	Write(ctx context.Context, userID string, tasks []Task) error
}
