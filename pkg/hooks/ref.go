package hooks

import "sync"

// Ref holds a mutable value without change notification. Use it for state
// that consumers read on demand but never react to.
//
// Ref is safe for concurrent access.
type Ref[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewRef creates a Ref holding initial.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Current returns the held value.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the held value.
func (r *Ref[T]) Set(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = v
}

// Swap replaces the held value and returns the previous one.
func (r *Ref[T]) Swap(v T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.value
	r.value = v
	return prev
}
