package keys

import "sync"

// Sequencer assigns keys to writes in write order. The nonce advances on
// every write and wraps 255 -> 0; it only disambiguates writes that land in
// the same millisecond.
//
// A Sequencer is scoped to one writer. Two sequencers writing to the same
// store can hand out identical keys, which is why the store admits a single
// writer at a time.
//
// Assigned timestamps never decrease. A timestamp older than the previous
// one is raised to it, and a same-millisecond write whose nonce would wrap
// below its predecessor moves to the next millisecond, so the key order
// always equals write order.
type Sequencer struct {
	mu      sync.Mutex
	version uint8
	nonce   uint8
	last    uint64
	started bool
}

// NewSequencer returns a Sequencer producing keys tagged with version.
func NewSequencer(version uint8) *Sequencer {
	return &Sequencer{version: version}
}

// Next returns the key for a write observed at timestamp (ms since epoch).
// The returned key's Timestamp is the one the record must be stored with.
func (s *Sequencer) Next(timestamp uint64) Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.started = true
		s.last = timestamp
		return Key{Version: s.version, Nonce: s.nonce, Timestamp: timestamp}
	}

	prev := s.nonce
	s.nonce++

	if timestamp < s.last {
		timestamp = s.last
	}
	if timestamp == s.last && s.nonce < prev {
		timestamp++
	}
	s.last = timestamp

	return Key{Version: s.version, Nonce: s.nonce, Timestamp: timestamp}
}
