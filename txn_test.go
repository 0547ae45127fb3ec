package tlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock drives the transaction window deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestInsertsWithinPeriodShareOneCommit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	l, path := newTestLog(t, Options{TransactionPeriod: 500 * time.Millisecond})
	l.now = func() time.Time { return clock.now }

	require.NoError(t, l.InsertMessage(ctx, Now(), "/batch", "Blob", []byte("a")))
	clock.advance(100 * time.Millisecond)
	require.NoError(t, l.InsertMessage(ctx, Now(), "/batch", "Blob", []byte("b")))
	clock.advance(100 * time.Millisecond)
	require.NoError(t, l.InsertMessage(ctx, Now(), "/batch", "Blob", []byte("c")))

	// all three ride the same open window: nothing committed yet
	require.Equal(t, 0, countRows(t, path, "messages"))

	require.NoError(t, l.Close())
	require.Equal(t, 3, countRows(t, path, "messages"))
}

func TestPeriodElapsedForcesCommit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	l, path := newTestLog(t, Options{TransactionPeriod: 500 * time.Millisecond})
	l.now = func() time.Time { return clock.now }

	require.NoError(t, l.InsertMessage(ctx, Now(), "/batch", "Blob", []byte("a")))
	require.Equal(t, 0, countRows(t, path, "messages"))

	// the next insert after the period lands and commits the whole window
	clock.advance(501 * time.Millisecond)
	require.NoError(t, l.InsertMessage(ctx, Now(), "/batch", "Blob", []byte("b")))
	require.Equal(t, 2, countRows(t, path, "messages"))

	// a following insert opens a fresh window
	require.NoError(t, l.InsertMessage(ctx, Now(), "/batch", "Blob", []byte("c")))
	require.Equal(t, 2, countRows(t, path, "messages"))

	require.NoError(t, l.Close())
	require.Equal(t, 3, countRows(t, path, "messages"))
}

func TestWindowOpensLazily(t *testing.T) {
	l, _ := newTestLog(t, Options{})
	require.False(t, l.txn.open)

	require.NoError(t, l.InsertMessage(context.Background(), Now(), "/t", "T", []byte("x")))
	require.True(t, l.txn.open)

	require.NoError(t, l.Close())
	require.False(t, l.txn.open)
}

func TestTimeForNewTxnBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	l, _ := newTestLog(t, Options{TransactionPeriod: 500 * time.Millisecond})
	l.now = func() time.Time { return clock.now }

	require.NoError(t, l.beginTxn(context.Background()))
	require.False(t, l.timeForNewTxn())

	clock.advance(500 * time.Millisecond)
	require.False(t, l.timeForNewTxn(), "elapsed == period must not trigger")

	clock.advance(time.Millisecond)
	require.True(t, l.timeForNewTxn())
}
