package settings

import "sync"

// Shared holds the live settings of the process. The capture worker reads
// Precision on every sample, so an update applies from the next sample on.
type Shared struct {
	mu sync.Mutex
	s  Settings
}

// NewShared returns a Shared initialised with s.
func NewShared(s Settings) *Shared {
	return &Shared{s: s.normalize()}
}

// Precision returns the current precision threshold.
func (sh *Shared) Precision() float32 {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s.Precision
}

// SetPrecision replaces the precision threshold. Negative values become 0.
func (sh *Shared) SetPrecision(p float32) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.s.Precision = p
	sh.s = sh.s.normalize()
}

// Logging returns the current log level name.
func (sh *Shared) Logging() string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s.Logging
}

// Snapshot returns a copy of the current settings.
func (sh *Shared) Snapshot() Settings {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.s
}

// Update replaces all settings at once.
func (sh *Shared) Update(s Settings) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.s = s.normalize()
}
