package analyzer

import (
	"time"

	"github.com/blackwell-systems/coca/internal/keys"
)

// Summary reports the size and extent of the log.
func (a *Analyzer) Summary() (*Summary, error) {
	v, err := a.store.Version()
	if err != nil {
		return nil, err
	}
	s := &Summary{Version: v}

	if s.Records, err = a.store.Count(); err != nil {
		return nil, err
	}

	first, last, err := a.store.Bounds()
	if err != nil {
		return nil, err
	}
	if s.First, err = a.keyTime(first, v); err != nil {
		return nil, err
	}
	if s.Last, err = a.keyTime(last, v); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Analyzer) keyTime(raw []byte, version uint8) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	k, err := keys.Decode(raw, version)
	if err != nil {
		return nil, err
	}
	t := time.UnixMilli(int64(k.Timestamp)).In(a.loc)
	return &t, nil
}
