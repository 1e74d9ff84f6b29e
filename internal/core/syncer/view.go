package syncer

import (
	"context"

	"github.com/colonyops/skiff/internal/core/pending"
	"github.com/colonyops/skiff/internal/core/task"
)

// List returns the working set filtered and sorted by q, with the derived
// overdue and due-soon flags computed against the current time.
func (c *Coordinator) List(q task.Query) []task.Annotated {
	c.mu.Lock()
	tasks := task.Clone(c.tasks)
	c.mu.Unlock()

	return task.Annotate(q.Apply(tasks), c.now())
}

// Get returns one task from the working set.
func (c *Coordinator) Get(id string) (task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.findLocked(id)
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

// Stats summarizes the working set.
func (c *Coordinator) Stats() task.Stats {
	c.mu.Lock()
	tasks := task.Clone(c.tasks)
	c.mu.Unlock()

	return task.Collect(tasks, c.now())
}

// PendingOps returns the queued operations in replay order.
func (c *Coordinator) PendingOps(ctx context.Context) ([]pending.Operation, error) {
	return c.queue.Drain(ctx, c.sess.UserID)
}

// PendingCount reports the queue depth.
func (c *Coordinator) PendingCount(ctx context.Context) (int, error) {
	return c.queue.Len(ctx, c.sess.UserID)
}
