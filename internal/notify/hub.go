// Package notify provides a small publish/subscribe hub used to expose
// state changes of the dashboard stores to presentation layers.
package notify

import "sync"

// Subscription releases a listener registered on a Hub.
type Subscription interface {
	Unsubscribe()
}

// Hub fans out published values to registered listeners.
// Listeners are called synchronously, in registration order, on the
// publishing goroutine. A Hub is safe for concurrent use.
type Hub[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]func(T)
	order     []uint64
}

// NewHub creates an empty Hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{listeners: make(map[uint64]func(T))}
}

// Subscribe registers fn and returns a handle that removes it.
func (h *Hub[T]) Subscribe(fn func(T)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.order = append(h.order, id)

	return &subscription[T]{hub: h, id: id}
}

// Publish delivers v to every current listener.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	fns := make([]func(T), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of registered listeners.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.order)
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.listeners[id]; !ok {
		return
	}
	delete(h.listeners, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

type subscription[T any] struct {
	hub  *Hub[T]
	id   uint64
	once sync.Once
}

func (s *subscription[T]) Unsubscribe() {
	s.once.Do(func() { s.hub.remove(s.id) })
}
