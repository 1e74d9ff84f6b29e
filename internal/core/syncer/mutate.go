package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/skiff/internal/core/eventbus"
	"github.com/colonyops/skiff/internal/core/pending"
	"github.com/colonyops/skiff/internal/core/remote"
	"github.com/colonyops/skiff/internal/core/task"
)

// AddTask creates a task from the draft. Online it returns the task with
// its server-assigned id; offline it returns the task under a local id and
// queues the create for replay.
func (c *Coordinator) AddTask(ctx context.Context, draft task.Task) (task.Task, error) {
	now := c.now()

	draft.UserID = c.sess.UserID
	draft.Category = task.NormalizeCategory(draft.Category)
	if draft.Priority == "" {
		draft.Priority = task.PriorityMedium
	}
	draft.Completed = false
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := draft.Validate(); err != nil {
		return task.Task{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	draft.Order = task.NextOrder(c.tasks)

	if c.monitor.Online() {
		created, err := c.remote.Create(ctx, draft)
		switch {
		case err == nil:
			c.applyLocked(ctx, pending.NewAdd(created, now))
			c.publishMutated(pending.KindAdd, &created, false)
			return created, nil
		case !errors.Is(err, remote.ErrUnavailable):
			return task.Task{}, err
		}
		c.logger.Debug().Err(err).Msg("remote create failed, queueing")
	}

	draft.ID = c.newID()
	op, err := c.enqueueLocked(ctx, pending.NewAdd(draft, now))
	if err != nil {
		return task.Task{}, err
	}
	c.applyLocked(ctx, op)
	c.publishMutated(pending.KindAdd, &draft, true)
	return draft, nil
}

// UpdateTask applies a partial update to the task with the given id.
func (c *Coordinator) UpdateTask(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	if err := p.Validate(); err != nil {
		return task.Task{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.findLocked(id); !ok {
		return task.Task{}, fmt.Errorf("update %q: %w", id, task.ErrNotFound)
	}

	now := c.now()

	// A task under a local id is unknown to the server until its queued
	// create replays, so its updates always queue behind it.
	if c.monitor.Online() && !task.IsLocalID(id) {
		updated, err := c.remote.Update(ctx, id, p)
		switch {
		case err == nil:
			c.applyLocked(ctx, pending.NewAdd(updated, now))
			c.publishMutated(pending.KindUpdate, &updated, false)
			return updated, nil
		case errors.Is(err, remote.ErrNotFound):
			return task.Task{}, fmt.Errorf("update %q: %w", id, task.ErrNotFound)
		case !errors.Is(err, remote.ErrUnavailable):
			return task.Task{}, err
		}
		c.logger.Debug().Err(err).Msg("remote update failed, queueing")
	}

	op, err := c.enqueueLocked(ctx, pending.NewUpdate(id, p, now))
	if err != nil {
		return task.Task{}, err
	}
	c.applyLocked(ctx, op)

	updated, _ := c.findLocked(id)
	c.publishMutated(pending.KindUpdate, &updated, true)
	return updated, nil
}

// DeleteTask removes the task with the given id. A task already gone from
// the remote store counts as deleted.
func (c *Coordinator) DeleteTask(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(ctx, id)
}

func (c *Coordinator) deleteLocked(ctx context.Context, id string) error {
	if _, ok := c.findLocked(id); !ok {
		return fmt.Errorf("delete %q: %w", id, task.ErrNotFound)
	}

	now := c.now()

	if c.monitor.Online() && !task.IsLocalID(id) {
		err := c.remote.Delete(ctx, id)
		switch {
		case err == nil, errors.Is(err, remote.ErrNotFound):
			c.applyLocked(ctx, pending.NewDelete(id, now))
			c.publishMutated(pending.KindDelete, nil, false)
			return nil
		case !errors.Is(err, remote.ErrUnavailable):
			return err
		}
		c.logger.Debug().Err(err).Msg("remote delete failed, queueing")
	}

	op, err := c.enqueueLocked(ctx, pending.NewDelete(id, now))
	if err != nil {
		return err
	}
	c.applyLocked(ctx, op)
	c.publishMutated(pending.KindDelete, nil, true)
	return nil
}

// ReorderTasks sets the manual order to match ids, first to last. Ids not
// in the working set are ignored; tasks not named keep their order value.
func (c *Coordinator) ReorderTasks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("reorder: empty id list")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	op := pending.NewReorder(ids, now)

	if c.monitor.Online() {
		if err := c.pushOrderLocked(ctx, ids); err == nil {
			c.applyLocked(ctx, op)
			c.publishMutated(pending.KindReorder, nil, false)
			return nil
		} else if !errors.Is(err, remote.ErrUnavailable) {
			return err
		} else {
			c.logger.Debug().Err(err).Msg("remote reorder failed, queueing")
		}
	}

	queued, err := c.enqueueLocked(ctx, op)
	if err != nil {
		return err
	}
	c.applyLocked(ctx, queued)
	c.publishMutated(pending.KindReorder, nil, true)
	return nil
}

// pushOrderLocked writes each task's new order value to the remote store.
// Ids the server no longer knows are skipped; local ids never go over the
// wire.
func (c *Coordinator) pushOrderLocked(ctx context.Context, ids []string) error {
	for i, id := range ids {
		if task.IsLocalID(id) {
			continue
		}
		order := i
		_, err := c.remote.Update(ctx, id, task.Patch{Order: &order})
		if err != nil && !errors.Is(err, remote.ErrNotFound) {
			return err
		}
	}
	return nil
}

// ClearCompleted deletes every completed task and returns how many were
// removed.
func (c *Coordinator) ClearCompleted(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []string
	for _, t := range c.tasks {
		if t.Completed {
			ids = append(ids, t.ID)
		}
	}

	for _, id := range ids {
		if err := c.deleteLocked(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// findLocked returns the working-set task with the given id.
func (c *Coordinator) findLocked(id string) (task.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// applyLocked projects op onto the working set and persists the snapshot.
func (c *Coordinator) applyLocked(ctx context.Context, op pending.Operation) {
	c.tasks = pending.Apply(c.tasks, op)
	if err := c.cache.Write(ctx, c.sess.UserID, c.tasks); err != nil {
		c.logger.Error().Err(err).Msg("cache write failed")
	}
}

// enqueueLocked appends op to the durable queue and reports the new depth.
func (c *Coordinator) enqueueLocked(ctx context.Context, op pending.Operation) (pending.Operation, error) {
	queued, err := c.queue.Enqueue(ctx, c.sess.UserID, op)
	if err != nil {
		return queued, fmt.Errorf("enqueue %s: %w", op.Kind, err)
	}

	depth, err := c.queue.Len(ctx, c.sess.UserID)
	if err != nil {
		depth = -1
	}
	c.bus.PublishQueueEnqueued(eventbus.QueueEnqueuedPayload{
		Kind:     queued.Kind,
		TargetID: queued.TargetID,
		Depth:    depth,
	})
	return queued, nil
}

func (c *Coordinator) publishMutated(kind pending.Kind, t *task.Task, queued bool) {
	c.bus.PublishTaskMutated(eventbus.TaskMutatedPayload{Kind: kind, Task: t, Queued: queued})
}
