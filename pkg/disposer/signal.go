package disposer

import "sync"

// Signal is a one-shot cancellation token. It transitions from not-aborted to
// aborted exactly once and never back. Observers registered via OnAbort are
// notified synchronously on that transition, in registration order.
type Signal struct {
	mu        sync.Mutex
	aborted   bool
	nextID    uint64
	observers []abortObserver
}

type abortObserver struct {
	id uint64
	fn func()
}

// Aborted reports whether the signal has been aborted.
func (s *Signal) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// OnAbort registers fn to run when the signal aborts. If the signal is
// already aborted, fn runs synchronously before OnAbort returns. The returned
// function removes the observer; calling it after the abort fired is a no-op.
func (s *Signal) OnAbort(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, abortObserver{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, obs := range s.observers {
			if obs.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// abort flips the aborted flag and notifies observers. Subsequent calls are
// no-ops and do not re-notify.
func (s *Signal) abort() {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return
	}
	s.aborted = true
	observers := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, obs := range observers {
		obs.fn()
	}
}
