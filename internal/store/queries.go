package store

import (
	"database/sql"
	"fmt"

	"github.com/blackwell-systems/coca/internal/events"
)

// Put stores value under key. Keys are unique per write, so an existing key
// is reported as an error instead of being overwritten.
func (s *Store) Put(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("empty key: %w", events.ErrMalformed)
	}

	_, err := s.db.Exec(`INSERT INTO records (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return wrapErr("failed to put record", err)
	}
	return nil
}

// Get returns the value stored under key, or nil if there is none.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("failed to get record", err)
	}
	return value, nil
}

// Scan iterates the log in key order as configured by opts and calls fn for
// each pair until fn returns false or an error.
func (s *Store) Scan(opts ScanOptions, fn ScanFunc) error {
	var (
		query string
		args  []any
	)

	switch {
	case opts.Direction == Reverse && opts.From != nil:
		query = `SELECT key, value FROM records WHERE key <= ? ORDER BY key DESC`
		args = append(args, opts.From)
	case opts.Direction == Reverse:
		query = `SELECT key, value FROM records ORDER BY key DESC`
	case opts.From != nil:
		query = `SELECT key, value FROM records WHERE key >= ? ORDER BY key ASC`
		args = append(args, opts.From)
	default:
		query = `SELECT key, value FROM records ORDER BY key ASC`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return wrapErr("failed to scan records", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return wrapErr("failed to read record row", err)
		}

		more, err := fn(key, value)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}

	if err := rows.Err(); err != nil {
		return wrapErr("error iterating records", err)
	}

	return nil
}

// Count returns the number of records in the log.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, wrapErr("failed to count records", err)
	}
	return count, nil
}

// Bounds returns the smallest and largest keys in the log, or nil keys when
// the log is empty.
func (s *Store) Bounds() (first, last []byte, err error) {
	err = s.db.QueryRow(`SELECT key FROM records ORDER BY key ASC LIMIT 1`).Scan(&first)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, wrapErr("failed to read first key", err)
	}

	if err := s.db.QueryRow(`SELECT key FROM records ORDER BY key DESC LIMIT 1`).Scan(&last); err != nil {
		return nil, nil, wrapErr("failed to read last key", err)
	}
	return first, last, nil
}
