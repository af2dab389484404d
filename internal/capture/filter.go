package capture

import (
	"github.com/blackwell-systems/coca/internal/events"
)

// FilterState is the last recorded value of every analog control seen by
// the current worker. It is never persisted.
type FilterState struct {
	Buttons map[events.Button]float32
	Axes    map[events.Axis]float32
}

// Filter decides which samples are worth recording.
type Filter struct {
	state FilterState
}

// NewFilter returns a filter with no remembered values.
func NewFilter() *Filter {
	return &Filter{state: FilterState{
		Buttons: make(map[events.Button]float32),
		Axes:    make(map[events.Axis]float32),
	}}
}

// Admit reports whether ev should be recorded. Discrete events always pass.
// An analog sample passes when it is the first for its control or differs
// from the last recorded value by at least precision; only a passing
// sample moves the baseline.
func (f *Filter) Admit(ev events.Event, precision float32) bool {
	switch ev.Kind {
	case events.KindButtonChanged:
		last, seen := f.state.Buttons[ev.Button]
		if seen && absDiff(ev.Value, last) < precision {
			return false
		}
		f.state.Buttons[ev.Button] = ev.Value
		return true

	case events.KindAxisChanged:
		last, seen := f.state.Axes[ev.Axis]
		if seen && absDiff(ev.Value, last) < precision {
			return false
		}
		f.state.Axes[ev.Axis] = ev.Value
		return true
	}
	return true
}

// State returns a copy of the remembered values.
func (f *Filter) State() FilterState {
	out := FilterState{
		Buttons: make(map[events.Button]float32, len(f.state.Buttons)),
		Axes:    make(map[events.Axis]float32, len(f.state.Axes)),
	}
	for k, v := range f.state.Buttons {
		out.Buttons[k] = v
	}
	for k, v := range f.state.Axes {
		out.Axes[k] = v
	}
	return out
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}
