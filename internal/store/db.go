package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/blackwell-systems/coca/internal/events"
)

var (
	// ErrNotInitialized is returned when the log tables do not exist yet.
	ErrNotInitialized = errors.New("record log not initialized: run 'coca record' first")

	// ErrWriterActive is returned by AcquireWriter while another writer holds the log.
	ErrWriterActive = errors.New("record log already has an active writer")
)

// Store is the append-only, key-ordered record log backed by SQLite.
type Store struct {
	db      *sql.DB
	writing atomic.Bool
}

// New creates a new Store with the specified database path.
// Use ":memory:" for in-memory databases (useful for testing).
func New(dbPath string) (*Store, error) {
	dsn := dbPath
	maxConns := 1 // each :memory: connection is its own database
	if dbPath != ":memory:" {
		// Pragmas in the DSN apply to every pooled connection, so the capture
		// writer and query readers can overlap under WAL.
		dsn = "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		maxConns = 4
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w: %w", events.ErrStoreIO, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSchema creates the log tables and stamps them with version. An
// existing log stamped with a different version is refused with
// events.ErrSchemaMismatch.
func (s *Store) CreateSchema(version uint8) error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w: %w", events.ErrStoreIO, err)
	}

	_, err := s.db.Exec(`INSERT OR IGNORE INTO meta (name, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(int(version)))
	if err != nil {
		return fmt.Errorf("failed to stamp schema version: %w: %w", events.ErrStoreIO, err)
	}

	stored, err := s.Version()
	if err != nil {
		return err
	}
	if stored != version {
		return fmt.Errorf("record log has version %d, this build uses %d: %w",
			stored, version, events.ErrSchemaMismatch)
	}
	return nil
}

// Version returns the schema version the log was created with.
func (s *Store) Version() (uint8, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE name = 'schema_version'`).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, ErrNotInitialized
	}
	if err != nil {
		return 0, wrapErr("failed to read schema version", err)
	}

	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("schema version %q: %w", raw, events.ErrMalformed)
	}
	return uint8(v), nil
}

// AcquireWriter claims the single writer slot of the log. Keys are
// disambiguated by a writer-local nonce, so a second concurrent writer
// could produce colliding keys. The returned func releases the slot.
func (s *Store) AcquireWriter() (func(), error) {
	if !s.writing.CompareAndSwap(false, true) {
		return nil, ErrWriterActive
	}
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			s.writing.Store(false)
		}
	}, nil
}

// wrapErr maps missing-table errors to ErrNotInitialized and everything
// else to events.ErrStoreIO.
func wrapErr(msg string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", msg, ErrNotInitialized)
	}
	return fmt.Errorf("%s: %w: %w", msg, events.ErrStoreIO, err)
}
