package hooks

import (
	"sync"
	"time"

	"github.com/statekit-dev/statekit/pkg/atom"
	"github.com/statekit-dev/statekit/pkg/disposer"
)

// Debounced returns a setter that writes v to a after d of inactivity:
// each call restarts the delay and only the last value within a burst is
// committed (trailing edge).
//
// The pending write is cancelled when dsp is disposed, and calls after
// disposal are dropped. A nil dsp disables cancellation.
func Debounced[T any](a *atom.Atom[T], dsp *disposer.Disposer, d time.Duration) func(T) {
	var mu sync.Mutex
	var timer *time.Timer

	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	if dsp != nil {
		dsp.AddDispose(stop)
	}

	return func(v T) {
		if dsp != nil && dsp.Signal().Aborted() {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			mu.Lock()
			timer = nil
			mu.Unlock()
			if dsp != nil && dsp.Signal().Aborted() {
				return
			}
			a.Set(v)
		})
	}
}
