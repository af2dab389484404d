package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/coca/internal/analyzer"
	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/store"
)

// openStore opens the record log for reading. A missing database is reported
// as store.ErrNotInitialized instead of creating an empty file.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}
	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, store.ErrNotInitialized
		}
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// newAnalyzer builds an analyzer over st for the current schema version.
func newAnalyzer(st *store.Store) *analyzer.Analyzer {
	return analyzer.New(st, analyzer.WithVersion(keys.CurrentVersion))
}

// friendlyError rewrites errors the user can act on.
func friendlyError(err error) error {
	if errors.Is(err, store.ErrNotInitialized) {
		return fmt.Errorf("no recordings yet: run 'coca record' first")
	}
	return err
}
