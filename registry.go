package tlog

import (
	"context"
	"fmt"

	logpkg "github.com/rzbill/tlog/pkg/log"
)

// topicKey is the composite cache key for a topic registration.
type topicKey struct {
	name string
	typ  string
}

const (
	// Duplicate type names across topics are expected; the registry keeps
	// one row per type name.
	insertTypeSQL = `INSERT OR IGNORE INTO message_types (name) VALUES (?)`

	insertTopicSQL = `INSERT INTO topics (name, message_type_id)
 SELECT ?, id FROM message_types WHERE name = ? LIMIT 1`
)

// resolveTopicID maps (topic name, type name) to the store-assigned topic
// identifier, consulting the in-process cache first. On a miss it registers
// the type and topic in the store, then caches the new identifier. The cache
// is only ever additive: identifiers are immutable for the life of the file.
func (l *Log) resolveTopicID(ctx context.Context, name, typ string) (int64, error) {
	key := topicKey{name: name, typ: typ}
	if id, ok := l.topics[key]; ok {
		return id, nil
	}

	if l.stmtInsertType == nil {
		stmt, err := l.db.Prepare(ctx, insertTypeSQL)
		if err != nil {
			return 0, fmt.Errorf("%w: prepare type insert: %v", ErrTopicResolve, err)
		}
		l.stmtInsertType = stmt
	}
	if l.stmtInsertTopic == nil {
		stmt, err := l.db.Prepare(ctx, insertTopicSQL)
		if err != nil {
			return 0, fmt.Errorf("%w: prepare topic insert: %v", ErrTopicResolve, err)
		}
		l.stmtInsertTopic = stmt
	}

	if _, err := l.stmtInsertType.ExecContext(ctx, typ); err != nil {
		return 0, fmt.Errorf("%w: register type %q: %v", ErrTopicResolve, typ, err)
	}
	res, err := l.stmtInsertTopic.ExecContext(ctx, name, typ)
	if err != nil {
		return 0, fmt.Errorf("%w: register topic %q: %v", ErrTopicResolve, name, err)
	}
	// topics.id aliases the rowid.
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: read topic id: %v", ErrTopicResolve, err)
	}

	l.topics[key] = id
	l.logger.Debug("registered topic",
		logpkg.Str("topic", name), logpkg.Str("type", typ), logpkg.Int64("id", id))
	return id, nil
}
