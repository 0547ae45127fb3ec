package tlog

import (
	"context"
	"fmt"
	"time"
)

// txnWindow tracks the open batch of pending writes. At most one window is
// open per Log at any time.
type txnWindow struct {
	open     bool
	openedAt time.Time
}

// beginTxn opens the batch transaction if none is open. On failure the
// window stays closed.
func (l *Log) beginTxn(ctx context.Context) error {
	if l.txn.open {
		return nil
	}
	if _, err := l.db.Exec(ctx, "BEGIN;"); err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxn, err)
	}
	l.txn.open = true
	l.txn.openedAt = l.now()
	l.logger.Debug("began transaction")
	return nil
}

// timeForNewTxn reports whether the configured period has elapsed since the
// window was opened.
func (l *Log) timeForNewTxn() bool {
	return l.txn.open && l.now().Sub(l.txn.openedAt) > l.opts.TransactionPeriod
}

// endTxn commits the open window. The window is marked closed regardless of
// the commit outcome, so the next insert opens a fresh transaction.
func (l *Log) endTxn(ctx context.Context) error {
	l.txn.open = false
	if _, err := l.db.Exec(ctx, "END;"); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTxn, err)
	}
	l.logger.Debug("ended transaction")
	return nil
}
