package tlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqlitestore "github.com/rzbill/tlog/internal/storage/sqlite"
	logpkg "github.com/rzbill/tlog/pkg/log"
)

// Mode selects how a log file is opened.
type Mode = sqlitestore.Mode

// Open modes exposed to callers.
const (
	Read            = sqlitestore.ModeRead
	ReadWrite       = sqlitestore.ModeReadWrite
	ReadWriteCreate = sqlitestore.ModeReadWriteCreate
)

// DefaultTransactionPeriod bounds how long a write transaction stays open:
// two commits per second.
const DefaultTransactionPeriod = 500 * time.Millisecond

// Time is a message receive timestamp as a (seconds, nanoseconds) pair, the
// form supplied by the surrounding transport.
type Time struct {
	Sec  int64
	Nsec int32
}

// At converts a time.Time into a Time.
func At(t time.Time) Time {
	return Time{Sec: t.Unix(), Nsec: int32(t.Nanosecond())}
}

// Now returns the current wall-clock Time.
func Now() Time { return At(time.Now()) }

// Options configures a Log.
type Options struct {
	// TransactionPeriod bounds how long a write transaction stays open.
	// Defaults to DefaultTransactionPeriod.
	TransactionPeriod time.Duration
	// SchemaPath optionally overrides the embedded DDL script with an
	// installed schema file.
	SchemaPath string
	// BusyTimeout bounds waits on the store's file lock. Defaults to 5s.
	BusyTimeout time.Duration
	// Synchronous is the store's synchronous pragma: OFF, NORMAL or FULL.
	Synchronous string
	// Logger is optional; a nop logger is used when nil.
	Logger logpkg.Logger
}

// Log is a durable append-only message log backed by one embedded store
// file. It exclusively owns its store connection, topic cache and
// transaction window; exactly one goroutine may drive it at a time.
type Log struct {
	opts   Options
	logger logpkg.Logger

	db     *sqlitestore.DB
	topics map[topicKey]int64
	txn    txnWindow

	stmtInsertType  *sql.Stmt
	stmtInsertTopic *sql.Stmt
	stmtInsertMsg   *sql.Stmt

	now func() time.Time
}

// New builds a Log. Open must be called before inserting.
func New(opts Options) *Log {
	if opts.TransactionPeriod <= 0 {
		opts.TransactionPeriod = DefaultTransactionPeriod
	}
	if opts.Logger == nil {
		opts.Logger = logpkg.NewNopLogger()
	}
	return &Log{
		opts:   opts,
		logger: opts.Logger.With(logpkg.Component("tlog")),
		now:    time.Now,
	}
}

// Open opens the store file at path in the given mode and initializes the
// schema when the mode permits writes. A Log holds at most one store: a
// second Open is rejected without side effects.
func (l *Log) Open(ctx context.Context, path string, mode Mode) error {
	if l.db != nil {
		return fmt.Errorf("%w: a store is already open at %s", ErrOpen, l.db.Path())
	}
	db, err := sqlitestore.Open(ctx, sqlitestore.Options{
		Path:          path,
		Mode:          mode,
		SchemaPath:    l.opts.SchemaPath,
		BusyTimeoutMs: int(l.opts.BusyTimeout / time.Millisecond),
		Synchronous:   l.opts.Synchronous,
		Logger:        l.logger,
	})
	if err != nil {
		return err
	}
	l.db = db
	l.topics = make(map[topicKey]int64)
	l.logger.Info("log opened", logpkg.Str("path", path), logpkg.Str("mode", mode.String()))
	return nil
}

// InsertMessage appends one message under the given topic and type names.
// The transaction window is opened on demand and committed opportunistically
// after the insert; a failed opportunistic commit does not fail the insert.
func (l *Log) InsertMessage(ctx context.Context, t Time, topicName, typeName string, payload []byte) error {
	if l.db == nil {
		return fmt.Errorf("%w: no store is open", ErrOpen)
	}
	if err := l.beginTxn(ctx); err != nil {
		return err
	}
	topicID, err := l.resolveTopicID(ctx, topicName, typeName)
	if err != nil {
		return err
	}
	if err := l.insertRow(ctx, t, topicID, payload); err != nil {
		return err
	}
	if l.timeForNewTxn() {
		if err := l.endTxn(ctx); err != nil {
			l.logger.Warn("transaction commit failed", logpkg.Err(err))
		}
	}
	return nil
}

// Close commits any pending transaction, releases prepared statements and
// the store connection, and leaves the instance empty and inert. The pending
// commit is best-effort: its failure is logged, never returned.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	if l.txn.open {
		if err := l.endTxn(context.Background()); err != nil {
			l.logger.Error("closing pending transaction failed", logpkg.Err(err))
		}
	}
	l.closeStmts()
	err := l.db.Close()
	l.db = nil
	l.topics = nil
	l.txn = txnWindow{}
	return err
}

func (l *Log) closeStmts() {
	for _, stmt := range []*sql.Stmt{l.stmtInsertType, l.stmtInsertTopic, l.stmtInsertMsg} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	l.stmtInsertType = nil
	l.stmtInsertTopic = nil
	l.stmtInsertMsg = nil
}
