package analyzer

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/coca/internal/events"
)

// Graph counts records per bucket over the timeframe ending now.
func (a *Analyzer) Graph(tf Timeframe) ([]Bucket, error) {
	return a.GraphSpan(tf.Span(), tf.Buckets(), tf.Label)
}

// GraphSpan splits the span ending now into n equal buckets, labels each by
// its start time and counts the records falling into each. Intervals are
// half-open, so a record on a boundary belongs to the later bucket. The
// last bucket absorbs any remainder of span not divisible by n.
func (a *Analyzer) GraphSpan(span time.Duration, n int, label func(time.Time) string) ([]Bucket, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", n)
	}

	w := a.window(span)
	width := (w.end - w.start) / uint64(n)
	if width == 0 {
		return nil, fmt.Errorf("span %v too short for %d buckets", span, n)
	}

	buckets := make([]Bucket, n)
	for i := range buckets {
		start := w.start + uint64(i)*width
		end := start + width
		if i == n-1 {
			end = w.end
		}
		startTime := time.UnixMilli(int64(start)).In(a.loc)
		buckets[i] = Bucket{
			Start: startTime,
			End:   time.UnixMilli(int64(end)).In(a.loc),
			Label: label(startTime),
		}
	}

	labelTransitions(buckets)

	err := a.scanBack(w, func(rec events.Record) {
		i := int((rec.At - w.start) / width)
		if i >= n {
			i = n - 1
		}
		buckets[i].Count++
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return buckets, nil
}

// labelTransitions appends the zone abbreviation to labels that repeat
// because the clock was turned back, so "01:00" on a fall-back day becomes
// "01:00 EDT" and "01:00 EST". Labels repeating within one zone offset,
// such as a month seen in two years, are left alone.
func labelTransitions(buckets []Bucket) {
	groups := make(map[string][]int)
	for i, b := range buckets {
		groups[b.Label] = append(groups[b.Label], i)
	}

	for label, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		offsets := make(map[int]bool)
		for _, i := range idx {
			_, off := buckets[i].Start.Zone()
			offsets[off] = true
		}
		if len(offsets) < 2 {
			continue
		}
		for _, i := range idx {
			buckets[i].Label = label + " " + buckets[i].Start.Format("MST")
		}
	}
}
