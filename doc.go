// Package tlog implements a durable append-only log for timestamped, typed
// binary records exchanged on a pub/sub bus.
//
// # Overview
//
// Messages are persisted into an embedded SQLite file holding three tables:
// message_types (unique type names), topics (topic name + type reference)
// and messages (timestamp, payload blob, topic reference). Per-write commit
// cost is amortized by a time-boxed transaction window: a transaction opens
// lazily on the first insert and commits once the configured period has
// elapsed, bounding durability lag to that period.
//
// API surface
//
//	l := tlog.New(tlog.Options{})
//	if err := l.Open(ctx, "run.tlog", tlog.ReadWriteCreate); err != nil { /* handle */ }
//	defer l.Close()
//
//	err := l.InsertMessage(ctx, tlog.Now(), "/odom", "Pose", payload)
//
// # Ownership and concurrency
//
// A Log exclusively owns its store connection and topic cache. Exactly one
// goroutine may drive a Log at a time; callers requiring concurrent inserts
// must serialize access externally. Close commits any pending transaction
// and leaves the instance empty and inert.
package tlog
