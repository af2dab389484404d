// Package focus tracks the foreground application that recorded input is
// attributed to.
package focus

import "sync"

// Unknown is the application reported before any focus update.
const Unknown = "Unknown"

// Cell holds the current foreground application. Any goroutine may read
// it; only the Writer returned alongside it may change it.
type Cell struct {
	mu  sync.RWMutex
	app string
}

// Writer is the single write handle of a Cell.
type Writer struct {
	cell *Cell
}

// NewCell returns an empty cell and its writer.
func NewCell() (*Cell, *Writer) {
	c := &Cell{}
	return c, &Writer{cell: c}
}

// Current returns the foreground application name, or Unknown.
func (c *Cell) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.app == "" {
		return Unknown
	}
	return c.app
}

// Set replaces the foreground application. It reports whether the value
// changed.
func (w *Writer) Set(app string) bool {
	w.cell.mu.Lock()
	defer w.cell.mu.Unlock()
	if w.cell.app == app {
		return false
	}
	w.cell.app = app
	return true
}
