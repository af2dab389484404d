package capture

import (
	"math/rand"
	"testing"

	"github.com/blackwell-systems/coca/internal/events"
)

func TestAdmit_DiscreteEventsAlwaysPass(t *testing.T) {
	f := NewFilter()
	discrete := []events.Event{
		events.ButtonPressed(events.ButtonSouth, 1),
		events.ButtonReleased(events.ButtonSouth, 1),
		events.Connected(),
		events.Disconnected(),
	}
	for _, ev := range discrete {
		for i := 0; i < 3; i++ {
			if !f.Admit(ev, 1e9) {
				t.Errorf("Admit(%v) = false, discrete events must never be filtered", ev)
			}
		}
	}
}

func TestAdmit_Deadband(t *testing.T) {
	f := NewFilter()
	const precision = 0.1

	steps := []struct {
		value float32
		want  bool
	}{
		{0.50, true},  // first sample for the control
		{0.55, false}, // below precision
		{0.59, false}, // still measured against 0.50
		{0.61, true},  // crosses precision
		{0.61, false}, // unchanged
		{0.40, true},  // large move the other way
	}

	for i, s := range steps {
		got := f.Admit(events.AxisChanged(events.AxisLeftStickX, s.value, 0), precision)
		if got != s.want {
			t.Errorf("step %d: Admit(%.2f) = %v, want %v", i, s.value, got, s.want)
		}
	}

	if last := f.State().Axes[events.AxisLeftStickX]; last != 0.40 {
		t.Errorf("baseline = %v, want 0.40", last)
	}
}

func TestAdmit_DroppedSampleLeavesBaseline(t *testing.T) {
	f := NewFilter()
	f.Admit(events.ButtonChanged(events.ButtonRightTrigger2, 0.0, 0), 0.05)

	// Slow drift in steps smaller than precision is never recorded.
	v := float32(0)
	for i := 0; i < 10; i++ {
		v += 0.004
		if f.Admit(events.ButtonChanged(events.ButtonRightTrigger2, v, 0), 0.05) {
			t.Fatalf("drift step %d (%.3f) admitted", i, v)
		}
	}
	if last := f.State().Buttons[events.ButtonRightTrigger2]; last != 0 {
		t.Errorf("baseline moved to %v after dropped samples", last)
	}
}

func TestAdmit_ZeroPrecisionAdmitsEverything(t *testing.T) {
	f := NewFilter()
	for i := 0; i < 5; i++ {
		if !f.Admit(events.AxisChanged(events.AxisRightStickY, 0.25, 0), 0) {
			t.Errorf("Admit() with precision 0 = false on repeat %d", i)
		}
	}
}

func TestAdmit_ControlsAreIndependent(t *testing.T) {
	f := NewFilter()
	f.Admit(events.AxisChanged(events.AxisLeftStickX, 0.5, 0), 0.1)

	if !f.Admit(events.AxisChanged(events.AxisLeftStickY, 0.5, 0), 0.1) {
		t.Error("first LeftStickY sample filtered by LeftStickX baseline")
	}
	if !f.Admit(events.ButtonChanged(events.ButtonLeftTrigger2, 0.5, 0), 0.1) {
		t.Error("first trigger sample filtered by axis baseline")
	}
}

func TestAdmit_DeadbandProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		f := NewFilter()
		precision := rng.Float32() * 0.3
		var last float32
		have := false

		for i := 0; i < 50; i++ {
			v := rng.Float32()*2 - 1
			admitted := f.Admit(events.AxisChanged(events.AxisRightStickX, v, 0), precision)

			want := !have || absDiff(v, last) >= precision
			if admitted != want {
				t.Fatalf("trial %d step %d: Admit(%v) = %v with last %v precision %v", trial, i, v, admitted, last, precision)
			}
			if admitted {
				last, have = v, true
			}
		}
	}
}
