package atom

// Source is the type-erased view of an atom: a zero-argument getter plus a
// subscribe primitive returning an unsubscribe function. It is the shape a
// generic "subscribe to an external store" UI binding expects, and the input
// to Combine.
type Source interface {
	// Load returns the current value.
	Load() any

	// Subscribe registers fn to run after every value change and returns an
	// unsubscribe function.
	Subscribe(fn func()) (unsub func())
}

// Load implements Source.
func (a *Atom[T]) Load() any {
	return a.Get()
}

// Subscribe implements Source.
func (a *Atom[T]) Subscribe(fn func()) (unsub func()) {
	return a.Sub(func(T, T) Cleanup {
		fn()
		return nil
	})
}

// Combine returns a derived atom whose value is always the tuple of the
// source values, in argument order. It is seeded with the sources' current
// values and re-derives the full tuple on every change of any source, with
// no deduplication, triggering the combined atom's own notification pass.
//
// The internal source subscriptions are never released: a combined atom is
// meant to live as long as its sources. Creating short-lived combined atoms
// leaks subscriptions on the sources.
func Combine(sources ...Source) *Atom[[]any] {
	derive := func() []any {
		tuple := make([]any, len(sources))
		for i, src := range sources {
			tuple[i] = src.Load()
		}
		return tuple
	}

	combined := New(derive())
	for _, src := range sources {
		src.Subscribe(func() {
			combined.Set(derive())
		})
	}
	return combined
}
