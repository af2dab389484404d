package analyzer

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe selects the span and bucketing of a graph.
type Timeframe string

const (
	Day   Timeframe = "day"
	Week  Timeframe = "week"
	Month Timeframe = "month"
	Year  Timeframe = "year"
)

// Timeframes lists the supported timeframes in ascending span order.
var Timeframes = []Timeframe{Day, Week, Month, Year}

// ParseTimeframe resolves a timeframe name. Unrecognised names mean Day.
func ParseTimeframe(s string) Timeframe {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Day, Week, Month, Year:
		return tf
	}
	return Day
}

// Span returns how far back the timeframe reaches.
func (tf Timeframe) Span() time.Duration {
	switch tf {
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	case Year:
		return 365 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// Buckets returns the number of graph buckets.
func (tf Timeframe) Buckets() int {
	switch tf {
	case Week:
		return 7
	case Month:
		return 30
	case Year:
		return 12
	}
	return 24
}

// Label formats a bucket start: hour of day, weekday, day of month or month.
func (tf Timeframe) Label(t time.Time) string {
	switch tf {
	case Week:
		return t.Weekday().String()[:3]
	case Month:
		return fmt.Sprintf("%d", t.Day())
	case Year:
		return t.Month().String()[:3]
	}
	return fmt.Sprintf("%02d:00", t.Hour())
}

func (tf Timeframe) String() string { return string(ParseTimeframe(string(tf))) }
