// Package overlay models modal overlays as explicit finite states and provides the
// scoped event subscriptions that close them.
package overlay

import (
	"sync"
)

// Hub broadcasts events to its current subscribers, synchronously and in subscription
// order.
type Hub[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func(T)
	order  []uint64
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]func(T))}
}

// Subscription is a handle on one listener. Close detaches it; closing twice is a no-op.
type Subscription interface {
	Close()
}

type subscription[T any] struct {
	once sync.Once
	hub  *Hub[T]
	id   uint64
}

func (s *subscription[T]) Close() {
	s.once.Do(func() { s.hub.remove(s.id) })
}

// Subscribe attaches fn until the returned subscription is closed.
func (h *Hub[T]) Subscribe(fn func(T)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs[id] = fn
	h.order = append(h.order, id)
	return &subscription[T]{hub: h, id: id}
}

// Publish delivers event to every listener attached at the time of the call. Listeners
// may subscribe or close subscriptions while being called.
func (h *Hub[T]) Publish(event T) {
	h.mu.Lock()
	fns := make([]func(T), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Len returns the number of attached listeners.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}
