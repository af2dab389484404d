package analyzer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blackwell-systems/coca/internal/events"
	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/store"
)

// VerifyReport is the outcome of a full forward scan of the log.
type VerifyReport struct {
	Records      int
	Mismatched   int // keys of another schema version
	Malformed    int // undecodable keys or values
	OutOfOrder   int // records whose At disagrees with their key
	FirstProblem error
}

// OK reports whether no problem was found.
func (r *VerifyReport) OK() bool {
	return r.Mismatched == 0 && r.Malformed == 0 && r.OutOfOrder == 0
}

func (r *VerifyReport) note(err error) {
	if r.FirstProblem == nil {
		r.FirstProblem = err
	}
}

// Verify decodes every record oldest first and reports the problems found
// instead of stopping at the first one. progress, if set, is called with
// the number of records checked so far.
func (a *Analyzer) Verify(progress func(checked int)) (*VerifyReport, error) {
	r := &VerifyReport{}
	var prev []byte

	err := a.store.Scan(store.ScanOptions{Direction: store.Forward}, func(key, value []byte) (bool, error) {
		r.Records++
		if progress != nil {
			progress(r.Records)
		}

		if prev != nil && bytes.Compare(prev, key) >= 0 {
			r.OutOfOrder++
			r.note(fmt.Errorf("key %x not after %x", key, prev))
		}
		prev = append(prev[:0], key...)

		k, err := keys.Decode(key, a.version)
		switch {
		case errors.Is(err, events.ErrSchemaMismatch):
			r.Mismatched++
			r.note(err)
			return true, nil
		case err != nil:
			r.Malformed++
			r.note(err)
			return true, nil
		}

		rec, err := events.DecodeRecord(value)
		if err != nil {
			r.Malformed++
			r.note(fmt.Errorf("record at %d: %w", k.Timestamp, err))
			return true, nil
		}
		if rec.At != k.Timestamp {
			r.OutOfOrder++
			r.note(fmt.Errorf("record at %d stored under key timestamp %d", rec.At, k.Timestamp))
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify record log: %w", err)
	}
	return r, nil
}
