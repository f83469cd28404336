package hooks

import "github.com/statekit-dev/statekit/pkg/atom"

// Store adapts an Atom to the subscribe/read pair an external-store UI
// binding expects, optionally deduplicating notifications by equality. The
// atom itself never deduplicates; this is where downstream consumers opt in.
type Store[T any] struct {
	a      *atom.Atom[T]
	equals func(a, b T) bool
}

// NewStore creates a Store over a, with no deduplication.
func NewStore[T any](a *atom.Atom[T]) *Store[T] {
	return &Store[T]{a: a}
}

// WithEquals returns the store configured to suppress notifications when fn
// reports the new value equal to the previously delivered one.
func (s *Store[T]) WithEquals(fn func(a, b T) bool) *Store[T] {
	s.equals = fn
	return s
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	return s.a.Get()
}

// Subscribe registers onChange to run after value changes and returns an
// unsubscribe function. With an equality function configured, writes that
// leave the value equal to the last delivered one are suppressed.
func (s *Store[T]) Subscribe(onChange func()) (unsub func()) {
	last := s.a.Get()
	return s.a.Sub(func(next, _ T) atom.Cleanup {
		if s.equals != nil && s.equals(next, last) {
			return nil
		}
		last = next
		onChange()
		return nil
	})
}
