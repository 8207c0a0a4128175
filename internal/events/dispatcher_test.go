package events_test

import (
	"context"
	"testing"
	"time"

	"topjob-gateway/internal/events"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var got []events.Event
	dispatcher.Subscribe(events.TypeSessionInvalidated, func(_ context.Context, e events.Event) {
		got = append(got, e)
	})

	event := events.Event{ID: "1", Type: events.TypeSessionInvalidated, SubjectID: "s1", OccurredAt: time.Now()}
	dispatcher.Publish(context.Background(), event)

	assert.Equal(t, []events.Event{event}, got)
}

func TestPublishIsSynchronous(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	handled := false
	dispatcher.Subscribe(events.TypeSessionLogout, func(context.Context, events.Event) {
		handled = true
	})

	dispatcher.Publish(context.Background(), events.Event{Type: events.TypeSessionLogout})
	assert.True(t, handled, "handler must have run before Publish returns")
}

func TestPublishFiltersByType(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var count int
	dispatcher.Subscribe(events.TypeSessionInvalidated, func(context.Context, events.Event) { count++ })

	dispatcher.Publish(context.Background(), events.Event{Type: events.TypeSessionLogin})
	assert.Zero(t, count)
}

func TestUnsubscribe(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var count int
	unsubscribe := dispatcher.Subscribe(events.TypeSessionInvalidated, func(context.Context, events.Event) { count++ })

	dispatcher.Publish(context.Background(), events.Event{Type: events.TypeSessionInvalidated})
	unsubscribe()
	dispatcher.Publish(context.Background(), events.Event{Type: events.TypeSessionInvalidated})

	assert.Equal(t, 1, count)
}

func TestMultipleSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var first, second int
	dispatcher.Subscribe(events.TypeSessionInvalidated, func(context.Context, events.Event) { first++ })
	dispatcher.Subscribe(events.TypeSessionInvalidated, func(context.Context, events.Event) { second++ })

	dispatcher.Publish(context.Background(), events.Event{Type: events.TypeSessionInvalidated})

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
