package tlog

import (
	"errors"

	sqlitestore "github.com/rzbill/tlog/internal/storage/sqlite"
)

// Error categories reported by the log engine. Every failure wraps one of
// these sentinels together with the underlying store error; match with
// errors.Is. There is no automatic retry anywhere in the engine: transient
// store errors such as lock contention are the caller's to retry.
var (
	// ErrOpen covers bad modes, double-opens and underlying open failures.
	ErrOpen = sqlitestore.ErrOpen
	// ErrSchema covers unreadable DDL resources and DDL apply failures.
	ErrSchema = sqlitestore.ErrSchema
	// ErrTxn covers transaction begin/commit failures.
	ErrTxn = errors.New("log transaction")
	// ErrTopicResolve covers failures while resolving a topic identifier.
	ErrTopicResolve = errors.New("resolve topic id")
	// ErrInsert covers failures while inserting a message row.
	ErrInsert = errors.New("insert message")
)
