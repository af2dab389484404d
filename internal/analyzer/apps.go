package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/blackwell-systems/coca/internal/events"
)

// Applications counts records per application within span, most recently
// active application first.
func (a *Analyzer) Applications(span time.Duration) ([]AppUsage, error) {
	var (
		order []AppUsage
		index = make(map[string]int)
	)

	err := a.scanBack(a.window(span), func(rec events.Record) {
		if i, ok := index[rec.App]; ok {
			order[i].Presses++
			return
		}
		index[rec.App] = len(order)
		order = append(order, AppUsage{App: rec.App, Presses: 1})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return order, nil
}

// AppStats breaks down the records of app within span: presses per button
// and a histogram of values per axis.
func (a *Analyzer) AppStats(app string, span time.Duration) (*AppStats, error) {
	w := a.window(span)
	stats := &AppStats{
		App:      app,
		Since:    time.UnixMilli(int64(w.start)).In(a.loc),
		Buttons:  make(map[events.Button]int),
		Axes:     make(map[events.Axis]Histogram),
		BinWidth: a.binWidth,
	}

	err := a.scanBack(w, func(rec events.Record) {
		if rec.App != app {
			return
		}
		stats.Records++

		switch rec.Event.Kind {
		case events.KindButtonPressed:
			stats.Buttons[rec.Event.Button]++
		case events.KindAxisChanged:
			h, ok := stats.Axes[rec.Event.Axis]
			if !ok {
				h = make(Histogram)
				stats.Axes[rec.Event.Axis] = h
			}
			h[Bin(rec.Event.Value, a.binWidth)]++
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for %s: %w", app, err)
	}
	return stats, nil
}

// Bin returns the histogram bin of value for bins of width h. The quotient
// is taken in float32 so that a value on a bin edge, such as -0.2 for
// h = 0.2, falls into the bin that starts there.
func Bin(value float32, h float64) int64 {
	return int64(math.Floor(float64(value / float32(h))))
}
