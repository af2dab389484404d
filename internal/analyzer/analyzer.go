// Package analyzer answers queries over the record log: time-bucketed
// activity graphs, per-application totals and per-application control
// breakdowns.
//
// Every query is a single reverse scan from the newest record that stops at
// the first record older than the query's span. This relies on keys sorting
// chronologically, which the capture worker guarantees as the only writer.
package analyzer

import (
	"time"

	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/store"
)

// DefaultBinWidth is the width of an axis histogram bin.
const DefaultBinWidth = 0.2

// Log is the read side of the record store.
type Log interface {
	Scan(opts store.ScanOptions, fn store.ScanFunc) error
	Version() (uint8, error)
	Count() (int, error)
	Bounds() (first, last []byte, err error)
}

// Analyzer runs queries against a record log.
type Analyzer struct {
	store    Log
	version  uint8
	now      func() time.Time
	loc      *time.Location
	binWidth float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the time source used as "now".
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithLocation sets the time zone used for bucket labels.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) { a.loc = loc }
}

// WithBinWidth sets the axis histogram bin width. Non-positive values are
// ignored.
func WithBinWidth(h float64) Option {
	return func(a *Analyzer) {
		if h > 0 {
			a.binWidth = h
		}
	}
}

// WithVersion sets the key schema version queries expect.
func WithVersion(v uint8) Option {
	return func(a *Analyzer) { a.version = v }
}

// New creates a new Analyzer instance with the given store.
func New(st Log, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:    st,
		version:  keys.CurrentVersion,
		now:      time.Now,
		loc:      time.Local,
		binWidth: DefaultBinWidth,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

