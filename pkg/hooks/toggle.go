package hooks

import "github.com/statekit-dev/statekit/pkg/atom"

// Toggle wraps Atom[bool] with convenience methods for boolean state.
type Toggle struct {
	*atom.Atom[bool]
}

// NewToggle creates a Toggle with the given initial value.
func NewToggle(initial bool) *Toggle {
	return &Toggle{atom.New(initial)}
}

// Toggle inverts the value.
func (t *Toggle) Toggle() {
	t.Set(!t.Get())
}

// On sets the value to true.
func (t *Toggle) On() {
	t.Set(true)
}

// Off sets the value to false.
func (t *Toggle) Off() {
	t.Set(false)
}
