package disposer

import (
	"context"
	"sync"
)

// Disposer bundles a cancellation Signal with an ordered cleanup registry.
// It is created fresh for exactly one generation of work and disposed once
// when that generation ends or is superseded.
type Disposer struct {
	signal Signal
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	disposed bool
	nextID   uint64
	cleanups []cleanupEntry
}

type cleanupEntry struct {
	id uint64
	fn func()
}

// New creates a Disposer whose signal is not yet aborted.
func New() *Disposer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Disposer{ctx: ctx, cancel: cancel}
}

// Signal returns the disposer's cancellation token.
func (d *Disposer) Signal() *Signal {
	return &d.signal
}

// Context returns a context that is cancelled when the disposer is disposed.
// Pass it straight to context-aware I/O so in-flight work observes
// cancellation.
func (d *Disposer) Context() context.Context {
	return d.ctx
}

// Disposed reports whether Dispose has been called.
func (d *Disposer) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

// CleanupCount reports how many cleanups are currently registered. It drops
// to zero once Dispose has run them.
func (d *Disposer) CleanupCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cleanups)
}

// AddDispose registers fn to run when the disposer is disposed. A nil fn is a
// no-op. If the disposer is already disposed, fn runs synchronously before
// AddDispose returns. The returned function removes the registration; after
// disposal it is a no-op.
func (d *Disposer) AddDispose(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}

	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		fn()
		return func() {}
	}
	id := d.nextID
	d.nextID++
	d.cleanups = append(d.cleanups, cleanupEntry{id: id, fn: fn})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, c := range d.cleanups {
			if c.id == id {
				d.cleanups = append(d.cleanups[:i], d.cleanups[i+1:]...)
				return
			}
		}
	}
}

// Dispose aborts the signal, cancels the context, and runs every registered
// cleanup in reverse registration order, synchronously. A second call is a
// no-op: cleanups and abort observers fire at most once.
//
// A panicking cleanup does not prevent later cleanups from running; the first
// recovered panic value is re-raised after all cleanups have run.
func (d *Disposer) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	cleanups := d.cleanups
	d.cleanups = nil
	d.mu.Unlock()

	d.signal.abort()
	d.cancel()

	var firstPanic any
	panicked := false
	for i := len(cleanups) - 1; i >= 0; i-- {
		runCleanup(cleanups[i].fn, &firstPanic, &panicked)
	}
	if panicked {
		panic(firstPanic)
	}
}

func runCleanup(fn func(), firstPanic *any, panicked *bool) {
	defer func() {
		if r := recover(); r != nil && !*panicked {
			*panicked = true
			*firstPanic = r
		}
	}()
	fn()
}
