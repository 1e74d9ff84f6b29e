// Package testbus provides test utilities for the event bus. It wraps a
// real EventBus with event recording and assertion helpers.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/skiff/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus
	cancel context.CancelFunc

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus, starts it in a background goroutine, and
// subscribes to all event types for recording. The bus is stopped when the
// test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	bus := eventbus.New(64)
	ctx, cancel := context.WithCancel(context.Background())

	tb := &Bus{
		EventBus: bus,
		cancel:   cancel,
	}

	bus.SubscribeConnectivityChanged(func(p eventbus.ConnectivityChangedPayload) {
		tb.record(eventbus.EventConnectivityChanged, p)
	})
	bus.SubscribeTaskMutated(func(p eventbus.TaskMutatedPayload) {
		tb.record(eventbus.EventTaskMutated, p)
	})
	bus.SubscribeQueueEnqueued(func(p eventbus.QueueEnqueuedPayload) {
		tb.record(eventbus.EventQueueEnqueued, p)
	})
	bus.SubscribeReplayStarted(func(p eventbus.ReplayStartedPayload) {
		tb.record(eventbus.EventReplayStarted, p)
	})
	bus.SubscribeReplayFinished(func(p eventbus.ReplayFinishedPayload) {
		tb.record(eventbus.EventReplayFinished, p)
	})
	bus.SubscribeSnapshotApplied(func(p eventbus.SnapshotAppliedPayload) {
		tb.record(eventbus.EventSnapshotApplied, p)
	})

	go bus.Run(ctx)
	t.Cleanup(cancel)

	return tb
}

func (b *Bus) record(event eventbus.Event, payload any) {
	b.mu.Lock()
	b.events = append(b.events, RecordedEvent{Event: event, Payload: payload})
	b.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (b *Bus) Events() []RecordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedEvent, len(b.events))
	copy(out, b.events)
	return out
}

// WaitFor blocks until an event with the given name is recorded or the
// timeout elapses. Returns the first matching event and whether one arrived.
func (b *Bus) WaitFor(event eventbus.Event, timeout time.Duration) (RecordedEvent, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, e := range b.Events() {
			if e.Event == event {
				return e, true
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return RecordedEvent{}, false
}
