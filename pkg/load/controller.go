package load

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/statekit-dev/statekit/pkg/atom"
	"github.com/statekit-dev/statekit/pkg/disposer"
	"github.com/statekit-dev/statekit/pkg/metrics"
)

// State is the tri-state result of the latest committed invocation. HasData
// and a non-nil Err are never simultaneously set; both are absent while
// Loading and before the first load.
type State[T any] struct {
	Data    T
	HasData bool
	Err     error
	Loading bool
}

// Func is the work a controller invokes. The disposer is minted fresh for
// this invocation and disposed when a newer invocation supersedes it; fn
// should pass d.Context() to I/O and may register cleanups via d.AddDispose.
type Func[T any] func(d *disposer.Disposer) (T, error)

type config struct {
	collector *metrics.Collector
	tracer    trace.Tracer
}

// Option configures a Controller.
type Option func(*config)

// WithCollector records controller activity on the given metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(cfg *config) { cfg.collector = c }
}

// WithTracer traces every invocation with a span from the named tracer,
// resolved from the global OpenTelemetry tracer provider.
func WithTracer(name string) Option {
	return func(cfg *config) { cfg.tracer = otel.Tracer(name) }
}

// Controller owns the current generation's disposer and the shared state.
// Each invocation disposes the previous generation and mints a new one; the
// commit step is gated on the invocation's generation still being current.
type Controller[T any] struct {
	cfg config

	mu         sync.Mutex
	generation uint64
	current    *disposer.Disposer
	pending    *Pending[T]
	closed     bool

	state *atom.Atom[State[T]]
}

// NewController creates a Controller with empty state.
func NewController[T any](opts ...Option) *Controller[T] {
	c := &Controller[T]{
		state: atom.New(State[T]{}),
	}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// State returns the latest committed state.
func (c *Controller[T]) State() State[T] {
	return c.state.Get()
}

// StateAtom returns the observable state cell, for UI bindings that need to
// subscribe to state transitions.
func (c *Controller[T]) StateAtom() *atom.Atom[State[T]] {
	return c.state
}

// Loading returns the handle of the latest in-flight asynchronous
// invocation, or nil if the latest invocation was synchronous or none is in
// flight. Callers can await it to coalesce duplicate calls instead of
// re-invoking.
func (c *Controller[T]) Loading() *Pending[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Run invokes fn synchronously on the caller goroutine. The previous
// generation is disposed first; the result is committed to state immediately
// (no externally observable Loading transient) and returned directly.
func (c *Controller[T]) Run(fn Func[T]) (T, error) {
	d, gen, closed := c.begin(false)
	if !closed {
		c.cfg.collector.RecordLoad("sync")
	}
	span := c.startSpan(d, "load.run", gen)

	v, err := fn(d)

	committed := c.commit(gen, v, err)
	endSpan(span, err, committed)
	return v, err
}

// RunFunc adapts a plain function to Run, ignoring the disposer.
func (c *Controller[T]) RunFunc(fn func() (T, error)) (T, error) {
	return c.Run(func(*disposer.Disposer) (T, error) { return fn() })
}

// Go invokes fn on a new goroutine. The synchronous prelude (dispose the
// previous generation, mint a new one, publish Loading, set the pending
// handle) completes before Go returns, so a later invocation can only begin
// after this one's prelude. The returned Pending always settles with fn's
// true outcome; shared state and the pending handle are only touched if this
// invocation is still current when it settles.
func (c *Controller[T]) Go(fn Func[T]) *Pending[T] {
	d, gen, closed := c.begin(true)
	if !closed {
		c.cfg.collector.RecordLoad("async")
		c.cfg.collector.IncInFlight()
	}

	p := newPending[T]()
	c.mu.Lock()
	if gen == c.generation && !c.closed {
		c.pending = p
	}
	c.mu.Unlock()

	go func() {
		span := c.startSpan(d, "load.go", gen)

		v, err := fn(d)

		c.mu.Lock()
		if gen == c.generation && c.pending == p {
			c.pending = nil
		}
		c.mu.Unlock()

		committed := c.commit(gen, v, err)
		endSpan(span, err, committed)
		if !closed {
			c.cfg.collector.DecInFlight()
		}
		p.resolve(v, err)
	}()
	return p
}

// GoFunc adapts a plain function to Go, ignoring the disposer.
func (c *Controller[T]) GoFunc(fn func() (T, error)) *Pending[T] {
	return c.Go(func(*disposer.Disposer) (T, error) { return fn() })
}

// Close disposes the current generation. A closed controller keeps operating
// statelessly: Run and Go still execute fn and deliver the outcome to the
// direct caller, but never touch the shared state or the pending handle
// again.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	current := c.current
	c.pending = nil
	c.mu.Unlock()

	if current != nil {
		n := current.CleanupCount()
		current.Dispose()
		c.cfg.collector.RecordCleanups(n)
	}
}

// begin is the invocation prelude: advance the generation, swap in a fresh
// disposer, and dispose the previous one. With loading set, the Loading
// state is published before begin returns. After Close the whole prelude
// still runs but publishes and records nothing.
func (c *Controller[T]) begin(loading bool) (*disposer.Disposer, uint64, bool) {
	d := disposer.New()

	c.mu.Lock()
	prev := c.current
	c.generation++
	gen := c.generation
	c.current = d
	c.pending = nil
	closed := c.closed
	c.mu.Unlock()

	if prev != nil {
		n := prev.CleanupCount()
		prev.Dispose()
		if !closed {
			c.cfg.collector.RecordCleanups(n)
		}
	}
	if loading && !closed {
		c.state.Set(State[T]{Loading: true})
	}
	return d, gen, closed
}

// commit publishes the outcome if gen is still the current generation and
// the controller is open. It reports whether the state was updated.
func (c *Controller[T]) commit(gen uint64, v T, err error) bool {
	c.mu.Lock()
	closed := c.closed
	current := gen == c.generation && !closed
	c.mu.Unlock()

	if !current {
		if !closed {
			c.cfg.collector.RecordSuperseded()
		}
		return false
	}
	if err != nil {
		c.state.Set(State[T]{Err: err})
		c.cfg.collector.RecordCommit("error")
	} else {
		c.state.Set(State[T]{Data: v, HasData: true})
		c.cfg.collector.RecordCommit("data")
	}
	return true
}

func (c *Controller[T]) startSpan(d *disposer.Disposer, name string, gen uint64) trace.Span {
	if c.cfg.tracer == nil {
		return nil
	}
	_, span := c.cfg.tracer.Start(
		d.Context(),
		name,
		trace.WithAttributes(attribute.Int64("load.generation", int64(gen))),
	)
	return span
}

func endSpan(span trace.Span, err error, committed bool) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Bool("load.superseded", !committed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
