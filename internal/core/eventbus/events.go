package eventbus

import (
	"github.com/colonyops/skiff/internal/core/pending"
	"github.com/colonyops/skiff/internal/core/task"
)

// ConnectivityChangedPayload is emitted when the monitor flips state.
type ConnectivityChangedPayload struct {
	Online bool
}

// TaskMutatedPayload is emitted after a mutation is applied to the working
// set. Queued reports whether the mutation awaits remote confirmation.
type TaskMutatedPayload struct {
	Kind   pending.Kind
	Task   *task.Task
	Queued bool
}

// QueueEnqueuedPayload is emitted when an operation enters the pending
// queue. Depth is the queue length after the enqueue.
type QueueEnqueuedPayload struct {
	Kind     pending.Kind
	TargetID string
	Depth    int
}

// ReplayStartedPayload is emitted when a replay pass begins.
type ReplayStartedPayload struct {
	Pending int
}

// ReplayFinishedPayload is emitted when a replay pass ends. Completed is
// false when the pass halted, leaving a tail in the queue.
type ReplayFinishedPayload struct {
	Applied   int
	Skipped   int
	Remaining int
	Completed bool
}

// SnapshotAppliedPayload is emitted when a remote snapshot replaces the
// working set. Reapplied counts pending operations layered back on top.
type SnapshotAppliedPayload struct {
	Tasks     int
	Reapplied int
}

// PublishConnectivityChanged publishes a connectivity.changed event.
func (bus *EventBus) PublishConnectivityChanged(p ConnectivityChangedPayload) {
	bus.send(EventConnectivityChanged, p)
}

// SubscribeConnectivityChanged registers a handler for connectivity.changed.
func (bus *EventBus) SubscribeConnectivityChanged(fn func(ConnectivityChangedPayload)) {
	bus.subscribe(EventConnectivityChanged, func(v any) {
		if p, ok := v.(ConnectivityChangedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskMutated publishes a task.mutated event.
func (bus *EventBus) PublishTaskMutated(p TaskMutatedPayload) {
	bus.send(EventTaskMutated, p)
}

// SubscribeTaskMutated registers a handler for task.mutated.
func (bus *EventBus) SubscribeTaskMutated(fn func(TaskMutatedPayload)) {
	bus.subscribe(EventTaskMutated, func(v any) {
		if p, ok := v.(TaskMutatedPayload); ok {
			fn(p)
		}
	})
}

// PublishQueueEnqueued publishes a queue.enqueued event.
func (bus *EventBus) PublishQueueEnqueued(p QueueEnqueuedPayload) {
	bus.send(EventQueueEnqueued, p)
}

// SubscribeQueueEnqueued registers a handler for queue.enqueued.
func (bus *EventBus) SubscribeQueueEnqueued(fn func(QueueEnqueuedPayload)) {
	bus.subscribe(EventQueueEnqueued, func(v any) {
		if p, ok := v.(QueueEnqueuedPayload); ok {
			fn(p)
		}
	})
}

// PublishReplayStarted publishes a replay.started event.
func (bus *EventBus) PublishReplayStarted(p ReplayStartedPayload) {
	bus.send(EventReplayStarted, p)
}

// SubscribeReplayStarted registers a handler for replay.started.
func (bus *EventBus) SubscribeReplayStarted(fn func(ReplayStartedPayload)) {
	bus.subscribe(EventReplayStarted, func(v any) {
		if p, ok := v.(ReplayStartedPayload); ok {
			fn(p)
		}
	})
}

// PublishReplayFinished publishes a replay.finished event.
func (bus *EventBus) PublishReplayFinished(p ReplayFinishedPayload) {
	bus.send(EventReplayFinished, p)
}

// SubscribeReplayFinished registers a handler for replay.finished.
func (bus *EventBus) SubscribeReplayFinished(fn func(ReplayFinishedPayload)) {
	bus.subscribe(EventReplayFinished, func(v any) {
		if p, ok := v.(ReplayFinishedPayload); ok {
			fn(p)
		}
	})
}

// PublishSnapshotApplied publishes a snapshot.applied event.
func (bus *EventBus) PublishSnapshotApplied(p SnapshotAppliedPayload) {
	bus.send(EventSnapshotApplied, p)
}

// SubscribeSnapshotApplied registers a handler for snapshot.applied.
func (bus *EventBus) SubscribeSnapshotApplied(fn func(SnapshotAppliedPayload)) {
	bus.subscribe(EventSnapshotApplied, func(v any) {
		if p, ok := v.(SnapshotAppliedPayload); ok {
			fn(p)
		}
	})
}
