package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/skiff/internal/core/eventbus"
	"github.com/colonyops/skiff/internal/core/eventbus/testbus"
)

func TestPublishSubscribe(t *testing.T) {
	bus := testbus.New(t)

	bus.PublishConnectivityChanged(eventbus.ConnectivityChangedPayload{Online: true})

	got, ok := bus.WaitFor(eventbus.EventConnectivityChanged, time.Second)
	require.True(t, ok, "expected connectivity.changed to be dispatched")

	p, ok := got.Payload.(eventbus.ConnectivityChangedPayload)
	require.True(t, ok)
	assert.True(t, p.Online)
}

func TestDropHookFiresWhenBufferFull(t *testing.T) {
	// Bus is never Run, so the buffer fills and overflow drops.
	bus := eventbus.New(1)

	var dropped []eventbus.Event
	bus.OnDrop(func(e eventbus.Event, _ any) {
		dropped = append(dropped, e)
	})

	bus.PublishReplayStarted(eventbus.ReplayStartedPayload{Pending: 1})
	bus.PublishReplayStarted(eventbus.ReplayStartedPayload{Pending: 2})

	require.Len(t, dropped, 1)
	assert.Equal(t, eventbus.EventReplayStarted, dropped[0])
}

func TestPanickingSubscriberIsRecovered(t *testing.T) {
	bus := testbus.New(t)

	bus.SubscribeReplayFinished(func(eventbus.ReplayFinishedPayload) {
		panic("boom")
	})

	var panicked []eventbus.Event
	bus.OnPanic(func(e eventbus.Event, _ any, _ any) {
		panicked = append(panicked, e)
	})

	bus.PublishReplayFinished(eventbus.ReplayFinishedPayload{Completed: true})

	// The recording subscriber still sees the event despite the panic.
	_, ok := bus.WaitFor(eventbus.EventReplayFinished, time.Second)
	assert.True(t, ok)
}
