package tlog

import (
	"context"
	"fmt"
)

const insertMessageSQL = `INSERT INTO messages (time_recv_sec, time_recv_nano, message, topic_id)
 VALUES (?, ?, ?, ?)`

// insertRow binds one message row: timestamp pair, opaque payload blob and
// topic reference. The statement either fully executes or does not run.
func (l *Log) insertRow(ctx context.Context, t Time, topicID int64, payload []byte) error {
	if l.stmtInsertMsg == nil {
		stmt, err := l.db.Prepare(ctx, insertMessageSQL)
		if err != nil {
			return fmt.Errorf("%w: prepare: %v", ErrInsert, err)
		}
		l.stmtInsertMsg = stmt
	}
	if payload == nil {
		// The column is NOT NULL; zero-length payloads are legal.
		payload = []byte{}
	}
	if _, err := l.stmtInsertMsg.ExecContext(ctx, t.Sec, t.Nsec, payload, topicID); err != nil {
		return fmt.Errorf("%w: %v", ErrInsert, err)
	}
	return nil
}
