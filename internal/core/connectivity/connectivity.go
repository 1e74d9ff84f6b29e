// Package connectivity tracks whether the remote store is reachable and
// reports online/offline transitions to the sync coordinator.
package connectivity

import "sync"

// Monitor exposes the last known connectivity state and a transition feed.
//
// Transitions delivers the new state once per change. The channel is
// buffered; a consumer that falls behind misses intermediate flaps but can
// always recover the current state from Online.
type Monitor interface {
	Online() bool
	Transitions() <-chan bool
}

// Manual is a Monitor whose state is set explicitly. Used in tests and for
// the CLI --offline override.
type Manual struct {
	mu     sync.Mutex
	online bool
	ch     chan bool
}

// NewManual creates a manual monitor with the given initial state.
func NewManual(online bool) *Manual {
	return &Manual{
		online: online,
		ch:     make(chan bool, 8),
	}
}

var _ Monitor = (*Manual)(nil)

// Online returns the last set state.
func (m *Manual) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Transitions returns the transition feed.
func (m *Manual) Transitions() <-chan bool {
	return m.ch
}

// Set updates the state, emitting a transition event on change.
func (m *Manual) Set(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}
	select {
	case m.ch <- online:
	default:
	}
}
