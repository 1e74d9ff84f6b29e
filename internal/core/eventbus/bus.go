// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within skiff.
package eventbus

import (
	"context"
	"sync"
)

// Event names a bus event type.
type Event string

// All event types published on the bus.
const (
	EventConnectivityChanged Event = "connectivity.changed"
	EventQueueEnqueued       Event = "queue.enqueued"
	EventReplayFinished      Event = "replay.finished"
	EventReplayStarted       Event = "replay.started"
	EventSnapshotApplied     Event = "snapshot.applied"
	EventTaskMutated         Event = "task.mutated"
)

// envelope pairs an event with its payload on the dispatch channel.
type envelope struct {
	event   Event
	payload any
}

// EventBus is an asynchronous typed pub/sub bus. Publish enqueues onto a
// bounded buffer and never blocks; events are dropped (and the drop hook
// fired) when the buffer is full. Subscribers run sequentially on the Run
// goroutine; a panicking subscriber is recovered and reported via OnPanic.
type EventBus struct {
	ch chan envelope

	mu   sync.RWMutex
	subs map[Event][]func(any)

	hooks hooks
}

// New creates a bus with the given buffer size (defaults to 64 when <= 0).
// Call Run to start dispatching.
func New(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Run dispatches events until ctx is cancelled.
func (bus *EventBus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	handlers := make([]func(any), len(bus.subs[env.event]))
	copy(handlers, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range handlers {
		bus.invoke(env, fn)
	}
}

func (bus *EventBus) invoke(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
}
