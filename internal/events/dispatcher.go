package events

import (
	"context"
	"sync"
)

// Handler handles a published event.
type Handler func(context.Context, Event)

// Dispatcher is the publish/subscribe contract between the session manager
// and decoupled caching components. Publish is synchronous: all handlers
// have run before Publish returns, so subscribers never observe a new
// subject paired with stale cached data.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType Type, handler Handler) (unsubscribe func())
}

type inMemoryDispatcher struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[Type]map[int]Handler
}

// NewInMemoryDispatcher creates a synchronous in-process dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[Type]map[int]Handler),
	}
}

func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.listeners[event.Type]))
	for _, h := range d.listeners[event.Type] {
		handlers = append(handlers, h)
	}
	d.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}

func (d *inMemoryDispatcher) Subscribe(eventType Type, handler Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listeners[eventType] == nil {
		d.listeners[eventType] = make(map[int]Handler)
	}
	id := d.nextID
	d.nextID++
	d.listeners[eventType][id] = handler

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners[eventType], id)
	}
}
