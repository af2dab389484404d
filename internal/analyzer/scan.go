package analyzer

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/coca/internal/events"
	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/store"
)

// window is the half-open millisecond range [start, end) a query covers.
type window struct {
	start, end uint64
}

func (a *Analyzer) window(span time.Duration) window {
	end := a.now().UnixMilli()
	if end < 0 {
		end = 0
	}
	w := window{end: uint64(end)}
	if s := uint64(span.Milliseconds()); s < w.end {
		w.start = w.end - s
	}
	return w
}

// scanBack calls fn for every record in w, newest first. It stops at the
// first key older than w.start. Any key of another schema version aborts
// the scan with events.ErrSchemaMismatch.
func (a *Analyzer) scanBack(w window, fn func(events.Record)) error {
	v, err := a.store.Version()
	if err != nil {
		return err
	}
	if v != a.version {
		return fmt.Errorf("record log has schema version %d, expected %d: %w", v, a.version, events.ErrSchemaMismatch)
	}

	return a.store.Scan(store.ScanOptions{Direction: store.Reverse}, func(key, value []byte) (bool, error) {
		k, err := keys.Decode(key, a.version)
		if err != nil {
			return false, err
		}
		if k.Timestamp >= w.end {
			return true, nil
		}
		if k.Timestamp < w.start {
			return false, nil
		}

		rec, err := events.DecodeRecord(value)
		if err != nil {
			return false, fmt.Errorf("record at %d: %w", k.Timestamp, err)
		}
		fn(rec)
		return true, nil
	})
}
