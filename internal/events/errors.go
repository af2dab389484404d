package events

import "errors"

var (
	// ErrSchemaMismatch is returned when a stored key carries a version tag
	// other than the one this build reads and writes. The log needs an
	// external migration before it can be served again.
	ErrSchemaMismatch = errors.New("schema version mismatch")

	// ErrMalformed is returned when a key or value cannot be decoded.
	ErrMalformed = errors.New("malformed record data")

	// ErrStoreIO wraps failures of the underlying storage engine.
	ErrStoreIO = errors.New("store i/o error")

	// ErrDriverUnavailable is returned when no input event source can be opened.
	ErrDriverUnavailable = errors.New("input driver unavailable")
)
