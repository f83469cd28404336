package atom

import (
	"slices"
	"sync"
)

// Cleanup is a function returned by a subscriber to release per-notification
// resources. The atom calls it immediately before the same subscriber's next
// notification, and when the subscriber unsubscribes.
type Cleanup func()

// Callback receives the new and previous value of the atom. The returned
// Cleanup may be nil.
type Callback[T any] func(next, prev T) Cleanup

// SubOptions configures a subscription made with SubWith.
type SubOptions[T any] struct {
	// Now invokes the callback immediately at subscription time with the
	// current value and the zero value as the previous value.
	Now bool

	// Skip, when non-nil, gates notification: if it returns true for a
	// change, the callback is not invoked and its pending cleanup is left
	// untouched for that change.
	Skip func(next, prev T) bool
}

type subscription[T any] struct {
	fn      Callback[T]
	skip    func(next, prev T) bool
	cleanup Cleanup
}

// Atom is a mutable value with ordered change notification. Use New to
// create one; an Atom created with the zero value of T reads as that zero
// value before the first Set.
//
// Get, Sub, and unsubscribing are safe for concurrent use. Set runs
// subscriber callbacks outside the atom's lock so callbacks may reenter the
// atom; writes are expected to be confined to a single goroutine, matching
// the cooperative model the notification ordering is specified for.
type Atom[T any] struct {
	mu     sync.Mutex
	value  T
	nextID uint64
	subs   map[uint64]*subscription[T]
}

// New creates an atom holding initial.
func New[T any](initial T) *Atom[T] {
	return &Atom[T]{
		value: initial,
		subs:  make(map[uint64]*subscription[T]),
	}
}

// Get returns the current value.
func (a *Atom[T]) Get() T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Set commits v and notifies every subscriber in subscription order with
// (v, old). The value is committed before any callback runs, so reentrant
// reads inside a callback already see v. Set never deduplicates: setting a
// value equal to the current one still notifies.
func (a *Atom[T]) Set(v T) {
	a.mu.Lock()
	old := a.value
	a.value = v
	ids := make([]uint64, 0, len(a.subs))
	for id := range a.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	a.mu.Unlock()

	// Iterate the key snapshot but re-check membership per key: subscribers
	// removed mid-pass are skipped, and subscribers added mid-pass carry
	// larger ids than anything in the snapshot, so they are not visited.
	for _, id := range ids {
		a.mu.Lock()
		s, ok := a.subs[id]
		a.mu.Unlock()
		if !ok {
			continue
		}
		if s.skip != nil && s.skip(v, old) {
			continue
		}

		a.mu.Lock()
		pending := s.cleanup
		s.cleanup = nil
		a.mu.Unlock()
		if pending != nil {
			pending()
		}

		c := s.fn(v, old)

		a.mu.Lock()
		if _, ok := a.subs[id]; ok {
			s.cleanup = c
			c = nil
		}
		a.mu.Unlock()
		// Unsubscribed while its own callback ran: release immediately.
		if c != nil {
			c()
		}
	}
}

// Sub subscribes fn to value changes and returns an unsubscribe function.
// Unsubscribing runs the subscription's pending cleanup, if any, and is
// idempotent.
func (a *Atom[T]) Sub(fn Callback[T]) (unsub func()) {
	return a.SubWith(SubOptions[T]{}, fn)
}

// SubWith subscribes fn with explicit options. With Now set, fn is invoked
// before the subscription is registered, so a reentrant Set from inside that
// initial call does not notify the new subscriber.
func (a *Atom[T]) SubWith(opts SubOptions[T], fn Callback[T]) (unsub func()) {
	s := &subscription[T]{fn: fn, skip: opts.Skip}

	if opts.Now {
		a.mu.Lock()
		current := a.value
		a.mu.Unlock()
		var zero T
		if s.skip == nil || !s.skip(current, zero) {
			s.cleanup = fn(current, zero)
		}
	}

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = s
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		sub, ok := a.subs[id]
		delete(a.subs, id)
		var pending Cleanup
		if ok {
			pending = sub.cleanup
			sub.cleanup = nil
		}
		a.mu.Unlock()
		if pending != nil {
			pending()
		}
	}
}

// Len reports the number of active subscriptions.
func (a *Atom[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.subs)
}
