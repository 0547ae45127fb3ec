package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	logpkg "github.com/rzbill/tlog/pkg/log"
)

// Mode selects how the store file is opened.
type Mode int

const (
	ModeUnspecified Mode = iota
	// ModeRead opens an existing file read-only; fails if the file is absent.
	ModeRead
	// ModeReadWrite opens an existing file for writing; fails if absent.
	ModeReadWrite
	// ModeReadWriteCreate opens for writing, creating the file if absent.
	ModeReadWriteCreate
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeReadWrite:
		return "read-write"
	case ModeReadWriteCreate:
		return "read-write-create"
	default:
		return "unspecified"
	}
}

// Error categories surfaced by this package. Callers match with errors.Is;
// the underlying driver error stays wrapped alongside.
var (
	ErrOpen   = errors.New("open log store")
	ErrSchema = errors.New("apply log schema")
)

// Options configures the SQLite store wrapper.
type Options struct {
	// Path is the store file location.
	Path string
	// Mode selects the open behavior; required.
	Mode Mode
	// SchemaPath optionally overrides the embedded DDL script with an
	// installed schema file.
	SchemaPath string
	// BusyTimeoutMs bounds lock waits against concurrent openers of the same
	// file. Defaults to 5000.
	BusyTimeoutMs int
	// Synchronous is the SQLite synchronous pragma. Defaults to NORMAL.
	Synchronous string
	// Logger is optional; a nop logger is used when nil.
	Logger logpkg.Logger
}

// DB owns one connection to an embedded SQLite file. Its lifecycle is tied
// 1:1 to the log instance using it.
type DB struct {
	db     *sql.DB
	conn   *sql.Conn
	path   string
	mode   Mode
	logger logpkg.Logger
}

// openDSN builds the driver DSN encoding mode and pragmas.
func openDSN(opts Options) string {
	busy := opts.BusyTimeoutMs
	if busy <= 0 {
		busy = 5000
	}
	synchronous := opts.Synchronous
	if synchronous == "" {
		synchronous = "NORMAL"
	}
	var m string
	switch opts.Mode {
	case ModeRead:
		m = "ro"
	case ModeReadWrite:
		m = "rw"
	case ModeReadWriteCreate:
		m = "rwc"
	}
	return fmt.Sprintf("file:%s?mode=%s&_busy_timeout=%d&_synchronous=%s&_foreign_keys=on",
		opts.Path, m, busy, synchronous)
}

// Open opens exactly one connection to the store file in the requested mode
// and ensures the message schema exists.
func Open(ctx context.Context, opts Options) (*DB, error) {
	switch opts.Mode {
	case ModeRead, ModeReadWrite, ModeReadWriteCreate:
	default:
		return nil, fmt.Errorf("%w: unrecognized mode %d", ErrOpen, opts.Mode)
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: Options.Path is required", ErrOpen)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}

	pool, err := sql.Open("sqlite3", openDSN(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	// One pinned session: SQLite has a single writer per file, and the
	// transaction batcher needs BEGIN/END to land on the same connection.
	pool.SetMaxOpenConns(1)
	pool.SetMaxIdleConns(1)

	conn, err := pool.Conn(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, opts.Path, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = pool.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, opts.Path, err)
	}

	db := &DB{db: pool, conn: conn, path: opts.Path, mode: opts.Mode, logger: logger}
	if err := db.ensureSchema(ctx, opts.SchemaPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the pinned connection and the pool. Safe to call twice.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	var err error
	if d.conn != nil {
		err = d.conn.Close()
		d.conn = nil
	}
	if cerr := d.db.Close(); err == nil {
		err = cerr
	}
	d.db = nil
	return err
}

// Path returns the store file location.
func (d *DB) Path() string { return d.path }

// Mode returns the mode the store was opened with.
func (d *DB) Mode() Mode { return d.mode }

// Exec runs a statement on the pinned connection.
func (d *DB) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return d.conn.ExecContext(ctx, query, args...)
}

// Query runs a query on the pinned connection. Callers close the rows.
func (d *DB) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return d.conn.QueryContext(ctx, query, args...)
}

// QueryRow runs a single-row query on the pinned connection.
func (d *DB) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.conn.QueryRowContext(ctx, query, args...)
}

// Prepare compiles a statement against the pinned connection. The statement
// must be closed before the DB: its scope never outlives the connection's.
func (d *DB) Prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	return d.conn.PrepareContext(ctx, query)
}
