// Package bus provides a minimal typed publish/subscribe mechanism used to
// signal cross-component state changes, so consumers are wired explicitly
// instead of listening on ambient broadcast events.
package bus

import "sync"

type Bus[T any] struct {
	mu       sync.RWMutex
	handlers []func(T)
}

func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler for future events. Handlers run synchronously
// on the publishing goroutine, in registration order.
func (b *Bus[T]) Subscribe(fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, fn)
}

func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	handlers := make([]func(T), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}
