// Package keys encodes the composite ordering key under which records are
// stored.
//
// Layout (18 bytes):
//
//	[0]     schema version
//	[1:17]  timestamp, milliseconds since epoch, u128 big-endian
//	[17]    nonce
//
// Every multi-byte field is big-endian so that the lexicographic order of
// encoded keys equals the order of (timestamp, nonce). Range scans and the
// query engine's early exit depend on that property.
package keys

import (
	"encoding/binary"
	"fmt"

	"github.com/blackwell-systems/coca/internal/events"
)

// CurrentVersion is the schema tag written into every key by this build.
const CurrentVersion uint8 = 1

const (
	timestampWidth = 16
	// Size is the encoded length of a key.
	Size = 1 + timestampWidth + 1
)

// Key is a decoded storage key.
type Key struct {
	Version   uint8
	Nonce     uint8
	Timestamp uint64
}

// Encode returns the byte form of (version, nonce, timestamp).
func Encode(version, nonce uint8, timestamp uint64) []byte {
	buf := make([]byte, Size)
	buf[0] = version
	// buf[1:9] is the high half of the u128 timestamp and stays zero.
	binary.BigEndian.PutUint64(buf[9:17], timestamp)
	buf[17] = nonce
	return buf
}

// Bytes encodes k.
func (k Key) Bytes() []byte {
	return Encode(k.Version, k.Nonce, k.Timestamp)
}

// Decode parses b and checks its version tag against expected.
func Decode(b []byte, expected uint8) (Key, error) {
	if len(b) == 0 {
		return Key{}, fmt.Errorf("empty key: %w", events.ErrMalformed)
	}
	if len(b) != Size {
		return Key{}, fmt.Errorf("key length %d, expected %d: %w", len(b), Size, events.ErrMalformed)
	}
	if b[0] != expected {
		return Key{}, fmt.Errorf("key version %d, expected %d: %w", b[0], expected, events.ErrSchemaMismatch)
	}
	if binary.BigEndian.Uint64(b[1:9]) != 0 {
		return Key{}, fmt.Errorf("timestamp exceeds 64 bits: %w", events.ErrMalformed)
	}
	return Key{
		Version:   b[0],
		Timestamp: binary.BigEndian.Uint64(b[9:17]),
		Nonce:     b[17],
	}, nil
}

