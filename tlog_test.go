package tlog

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sqlitestore "github.com/rzbill/tlog/internal/storage/sqlite"
)

func newTestLog(t *testing.T, opts Options) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")
	l := New(opts)
	require.NoError(t, l.Open(context.Background(), path, ReadWriteCreate))
	t.Cleanup(func() { _ = l.Close() })
	return l, path
}

// countRows opens an independent read-only store handle, so it observes only
// committed state.
func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sqlitestore.Open(context.Background(), sqlitestore.Options{
		Path: path,
		Mode: sqlitestore.ModeRead,
	})
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestInsertRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	l, path := newTestLog(t, Options{TransactionPeriod: time.Hour})

	require.NoError(t, l.InsertMessage(ctx, Time{Sec: 10, Nsec: 500}, "/odom", "Pose", []byte{0x01, 0x02, 0x03}))
	require.NoError(t, l.InsertMessage(ctx, Time{Sec: 10, Nsec: 600}, "/odom", "Pose", []byte{0xFF}))
	require.NoError(t, l.Close())

	db, err := sqlitestore.Open(ctx, sqlitestore.Options{Path: path, Mode: sqlitestore.ModeRead})
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(ctx,
		`SELECT time_recv_sec, time_recv_nano, message, topic_id FROM messages ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		sec     int64
		nsec    int32
		payload []byte
		topicID int64
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.sec, &r.nsec, &r.payload, &r.topicID))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	require.Equal(t, got[0].topicID, got[1].topicID)
	require.Equal(t, int64(10), got[0].sec)
	require.Equal(t, int32(500), got[0].nsec)
	require.True(t, bytes.Equal([]byte{0x01, 0x02, 0x03}, got[0].payload))
	require.Equal(t, int64(10), got[1].sec)
	require.Equal(t, int32(600), got[1].nsec)
	require.True(t, bytes.Equal([]byte{0xFF}, got[1].payload))
}

func TestEmptyPayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, path := newTestLog(t, Options{})

	require.NoError(t, l.InsertMessage(ctx, Time{Sec: 1, Nsec: 2}, "/t", "Empty", nil))
	require.NoError(t, l.InsertMessage(ctx, Time{Sec: 3, Nsec: 4}, "/t", "Empty", []byte{}))
	require.NoError(t, l.Close())

	db, err := sqlitestore.Open(ctx, sqlitestore.Options{Path: path, Mode: sqlitestore.ModeRead})
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(ctx, `SELECT message FROM messages ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var count int
	for rows.Next() {
		var payload []byte
		require.NoError(t, rows.Scan(&payload))
		require.Empty(t, payload)
		count++
	}
	require.NoError(t, rows.Err())
	require.Equal(t, 2, count)
}

func TestDoubleOpenRejectedWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLog(t, Options{})

	err := l.Open(ctx, filepath.Join(t.TempDir(), "other.tlog"), ReadWriteCreate)
	require.ErrorIs(t, err, ErrOpen)

	// the first store stays usable
	require.NoError(t, l.InsertMessage(ctx, Now(), "/still", "Alive", []byte("ok")))
}

func TestOpenReadMissingFileFails(t *testing.T) {
	l := New(Options{})
	err := l.Open(context.Background(), filepath.Join(t.TempDir(), "missing.tlog"), Read)
	require.ErrorIs(t, err, ErrOpen)

	// the failed open left the instance usable
	require.NoError(t, l.Open(context.Background(), filepath.Join(t.TempDir(), "new.tlog"), ReadWriteCreate))
	require.NoError(t, l.Close())
}

func TestInsertOnUnopenedLogFails(t *testing.T) {
	l := New(Options{})
	err := l.InsertMessage(context.Background(), Now(), "/t", "T", []byte("x"))
	require.ErrorIs(t, err, ErrOpen)
}

func TestCloseCommitsPendingTransaction(t *testing.T) {
	ctx := context.Background()
	l, path := newTestLog(t, Options{TransactionPeriod: time.Hour})

	require.NoError(t, l.InsertMessage(ctx, Now(), "/pending", "Blob", []byte("x")))
	require.Equal(t, 0, countRows(t, path, "messages"))

	require.NoError(t, l.Close())
	require.Equal(t, 1, countRows(t, path, "messages"))
}

func TestCloseTwice(t *testing.T) {
	l, _ := newTestLog(t, Options{})
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	// closed instance is inert
	err := l.InsertMessage(context.Background(), Now(), "/t", "T", nil)
	require.ErrorIs(t, err, ErrOpen)
}

func TestInsertUnknownModeRejected(t *testing.T) {
	l := New(Options{})
	err := l.Open(context.Background(), filepath.Join(t.TempDir(), "x.tlog"), Mode(99))
	require.ErrorIs(t, err, ErrOpen)
}

func TestTimeConversion(t *testing.T) {
	now := time.Unix(1700000000, 123456789)
	ts := At(now)
	require.Equal(t, int64(1700000000), ts.Sec)
	require.Equal(t, int32(123456789), ts.Nsec)
}

func TestInsertOnReadOnlyLogFails(t *testing.T) {
	ctx := context.Background()
	l, path := newTestLog(t, Options{})
	require.NoError(t, l.InsertMessage(ctx, Now(), "/t", "T", []byte("x")))
	require.NoError(t, l.Close())

	ro := New(Options{})
	require.NoError(t, ro.Open(ctx, path, Read))
	defer ro.Close()
	require.Error(t, ro.InsertMessage(ctx, Now(), "/t", "T", []byte("y")))
}

func TestErrorCategoriesDistinct(t *testing.T) {
	for _, pair := range [][2]error{
		{ErrOpen, ErrSchema},
		{ErrTxn, ErrTopicResolve},
		{ErrTopicResolve, ErrInsert},
	} {
		require.False(t, errors.Is(pair[0], pair[1]))
	}
}
