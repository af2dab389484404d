// Package source turns raw input devices into a stream of typed samples.
//
// A Source is pulled rather than pushed: the capture worker calls Next with
// a bounded timeout so it can notice shutdown and settings changes between
// samples without busy-waiting.
package source

import (
	"errors"
	"time"

	"github.com/blackwell-systems/coca/internal/events"
)

// ErrSourceClosed is returned by Next once the source has been closed.
var ErrSourceClosed = errors.New("event source closed")

// Sample is one event read from a device.
type Sample struct {
	Device string // stable device identifier, e.g. /dev/input/event5
	Label  string // human readable device name
	Event  events.Event
	At     time.Time
}

// Source produces samples.
type Source interface {
	// Next waits up to timeout for the next sample. ok is false with a nil
	// error when the timeout elapsed without a sample.
	Next(timeout time.Duration) (s Sample, ok bool, err error)
	Close() error
}
