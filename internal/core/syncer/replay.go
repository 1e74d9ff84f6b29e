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

// ReplayResult summarizes one replay pass over the pending queue.
type ReplayResult struct {
	// Applied counts operations the remote store confirmed.
	Applied int
	// Skipped counts operations dropped because their target no longer
	// exists remotely.
	Skipped int
	// Remaining is the queue depth after the pass.
	Remaining int
	// Completed is true when the whole queue was processed.
	Completed bool
}

// Replay pushes the pending queue to the remote store in enqueue order.
//
// A confirmed operation leaves the queue immediately, so a halt part way
// through preserves exactly the untried tail. An operation whose target is
// gone remotely is skipped; any other failure halts the pass. When a queued
// create returns the server-assigned id, later queued operations that still
// reference the local id are rewritten before they replay.
//
// Only one pass runs at a time; a concurrent call returns an empty result.
func (c *Coordinator) Replay(ctx context.Context) (ReplayResult, error) {
	if !c.replayMu.TryLock() {
		c.logger.Debug().Msg("replay already running")
		return ReplayResult{}, nil
	}
	defer c.replayMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	ops, err := c.queue.Drain(ctx, c.sess.UserID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay drain: %w", err)
	}
	if len(ops) == 0 {
		return ReplayResult{Completed: true}, nil
	}

	c.bus.PublishReplayStarted(eventbus.ReplayStartedPayload{Pending: len(ops)})
	c.logger.Info().Int("pending", len(ops)).Msg("replay started")

	var res ReplayResult
	idmap := make(map[string]string)

	for i, op := range ops {
		for oldID, newID := range idmap {
			op = op.RemapID(oldID, newID)
		}

		err := c.replayOne(ctx, op, idmap)
		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, remote.ErrNotFound):
			res.Skipped++
			c.logger.Debug().Str("kind", string(op.Kind)).Str("target", op.TargetID).Msg("replay target gone, skipping")
		default:
			res.Remaining = len(ops) - i
			c.finishReplay(res)
			return res, fmt.Errorf("replay %s seq %d: %w", op.Kind, op.Seq, err)
		}

		if err := c.queue.Remove(ctx, c.sess.UserID, op.Seq); err != nil {
			c.logger.Error().Err(err).Int64("seq", op.Seq).Msg("queue remove failed")
		}
	}

	// Belt and braces: every entry was confirmed or skipped above.
	if err := c.queue.Clear(ctx, c.sess.UserID); err != nil {
		c.logger.Error().Err(err).Msg("queue clear failed")
	}

	c.renameLocked(ctx, idmap)
	res.Completed = true
	c.finishReplay(res)
	c.logger.Info().Int("applied", res.Applied).Int("skipped", res.Skipped).Msg("replay finished")

	c.refreshLocked(ctx)
	return res, nil
}

// replayOne pushes a single operation to the remote store. A successful
// create records the id assignment in idmap.
func (c *Coordinator) replayOne(ctx context.Context, op pending.Operation, idmap map[string]string) error {
	if err := op.Validate(); err != nil {
		return err
	}

	switch op.Kind {
	case pending.KindAdd:
		created, err := c.remote.Create(ctx, *op.Task)
		if err != nil {
			return err
		}
		if task.IsLocalID(op.Task.ID) {
			idmap[op.Task.ID] = created.ID
		}
		return nil

	case pending.KindUpdate:
		_, err := c.remote.Update(ctx, op.TargetID, *op.Patch)
		return err

	case pending.KindDelete:
		return c.remote.Delete(ctx, op.TargetID)

	case pending.KindReorder:
		// Replays as one order write per task. Ids the server no longer
		// knows are skipped without failing the whole reorder.
		for i, id := range op.Order {
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

	return fmt.Errorf("unknown operation kind %q", op.Kind)
}

// renameLocked swaps local ids for their server-assigned ones in the
// working set and persists the result.
func (c *Coordinator) renameLocked(ctx context.Context, idmap map[string]string) {
	if len(idmap) == 0 {
		return
	}
	for i := range c.tasks {
		if newID, ok := idmap[c.tasks[i].ID]; ok {
			c.tasks[i].ID = newID
		}
	}
	if err := c.cache.Write(ctx, c.sess.UserID, c.tasks); err != nil {
		c.logger.Error().Err(err).Msg("cache write failed")
	}
}

func (c *Coordinator) finishReplay(res ReplayResult) {
	c.bus.PublishReplayFinished(eventbus.ReplayFinishedPayload{
		Applied:   res.Applied,
		Skipped:   res.Skipped,
		Remaining: res.Remaining,
		Completed: res.Completed,
	})
}

// refreshLocked replaces the working set with the remote list. Called after
// a full replay pass, when the queue is empty.
func (c *Coordinator) refreshLocked(ctx context.Context) {
	fresh, err := c.remote.List(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("post-replay refresh failed, keeping local state")
		return
	}
	c.reconcileLocked(ctx, fresh)
}

// reconcile folds a remote snapshot into the working set, layering any
// still-pending operations back on top so unconfirmed local changes are
// not lost.
func (c *Coordinator) reconcile(ctx context.Context, snapshot []task.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcileLocked(ctx, snapshot)
}

func (c *Coordinator) reconcileLocked(ctx context.Context, snapshot []task.Task) {
	ops, err := c.queue.Drain(ctx, c.sess.UserID)
	if err != nil {
		c.logger.Error().Err(err).Msg("queue drain failed, snapshot not applied")
		return
	}

	c.tasks = pending.ApplyAll(snapshot, ops)
	if err := c.cache.Write(ctx, c.sess.UserID, c.tasks); err != nil {
		c.logger.Error().Err(err).Msg("cache write failed")
	}

	c.bus.PublishSnapshotApplied(eventbus.SnapshotAppliedPayload{
		Tasks:     len(c.tasks),
		Reapplied: len(ops),
	})
}
