package load

import "context"

// Pending is the handle for an in-flight asynchronous invocation. It settles
// exactly once, with the true outcome of the call regardless of whether a
// newer generation superseded it.
type Pending[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// resolve settles the handle. Must be called exactly once.
func (p *Pending[T]) resolve(v T, err error) {
	p.val = v
	p.err = err
	close(p.done)
}

// Done returns a channel closed when the invocation settles.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the invocation settles or ctx is done. On settlement it
// returns the call's true outcome; on context expiry it returns ctx's error.
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking. Settled is false while the
// invocation is still in flight.
func (p *Pending[T]) Result() (v T, err error, settled bool) {
	select {
	case <-p.done:
		return p.val, p.err, true
	default:
		var zero T
		return zero, nil, false
	}
}
