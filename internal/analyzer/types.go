package analyzer

import (
	"time"

	"github.com/blackwell-systems/coca/internal/events"
)

// Bucket is one interval of a graph.
type Bucket struct {
	Start time.Time // inclusive
	End   time.Time // exclusive
	Count int
	Label string
}

// AppUsage is the number of records attributed to an application.
type AppUsage struct {
	App     string
	Presses int
}

// Histogram maps a bin index floor(value/width) to a count.
type Histogram map[int64]int

// AppStats is the control breakdown of one application.
type AppStats struct {
	App      string
	Since    time.Time
	Records  int // records of the app in the span, of any kind
	Buttons  map[events.Button]int
	Axes     map[events.Axis]Histogram
	BinWidth float64
}

// Summary describes the whole log.
type Summary struct {
	Version uint8
	Records int
	First   *time.Time
	Last    *time.Time
}
