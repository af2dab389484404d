package store

// Direction selects the iteration order of a scan.
type Direction int

const (
	// Forward iterates from the oldest key to the newest.
	Forward Direction = iota
	// Reverse iterates from the newest key to the oldest.
	Reverse
)

// ScanOptions configures Scan.
type ScanOptions struct {
	Direction Direction

	// From is an inclusive starting bound. Nil starts at the first key for
	// Forward and at the last key for Reverse.
	From []byte
}

// ScanFunc receives each key/value pair in order. Returning false stops the
// scan without error; returning an error aborts it and Scan returns that
// error unchanged.
type ScanFunc func(key, value []byte) (bool, error)
