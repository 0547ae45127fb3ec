// Package sqlitestore provides a thin wrapper around an embedded SQLite
// database file: a single pinned connection, explicit open modes, and
// one-time schema initialization from a versioned DDL script.
//
// Usage:
//
//	db, err := sqlitestore.Open(sqlitestore.Options{
//	    Path: "/var/lib/tlog/a.tlog",
//	    Mode: sqlitestore.ModeReadWriteCreate,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	res, _ := db.Exec(ctx, "INSERT INTO ...", args...)
//
// The wrapper pins exactly one connection so that explicit BEGIN/END issued
// through Exec always address the same SQLite session. SQLite permits a
// single writer per file; cross-process contention surfaces as busy errors
// bounded by Options.BusyTimeoutMs.
package sqlitestore
