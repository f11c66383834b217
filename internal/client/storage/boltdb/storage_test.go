package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/topokeeper/internal/client/storage"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "dumps.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s
}

func TestNew_CreatesBuckets(t *testing.T) {
	s := createTestStorage(t)

	err := s.db.View(func(tx *bbolt.Tx) error {
		for _, name := range append([][]byte{bucketState}, dumpBuckets...) {
			if _, err := bucketOf(tx, name); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestNew_ReopenKeepsDumps(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dumps.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveLastSyncTimestamp(ctx, 77))
	require.NoError(t, s.Close())

	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, s.Close())
	}()
	ts, err := s.LastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(77), ts)
}

func TestNew_MissingDirectory(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "no", "such", "dumps.db"))
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestClose_Twice(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, filepath.Join(t.TempDir(), "dumps.db"))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err = s.LastSyncTimestamp(ctx)
	assert.ErrorIs(t, err, storage.ErrClosed)
	assert.ErrorIs(t, s.SaveLastSyncTimestamp(ctx, 1), storage.ErrClosed)
}

func TestLastSyncTimestamp(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)

	ts, err := s.LastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Zero(t, ts, "no sync yet")

	require.NoError(t, s.SaveLastSyncTimestamp(ctx, 1700000000123))
	require.NoError(t, s.SaveLastSyncTimestamp(ctx, 1700000000456))

	ts, err = s.LastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000456), ts)
}

func TestLastSyncTimestamp_StateBucketDropped(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketState)
	}))

	_, err := s.LastSyncTimestamp(ctx)
	assert.ErrorContains(t, err, "is missing")
	assert.Error(t, s.SaveLastSyncTimestamp(ctx, 1))
}

func TestTimestampKey_SortsByTime(t *testing.T) {
	keys := [][]byte{timestampKey(5), timestampKey(256), timestampKey(1 << 40)}
	for i := 1; i < len(keys); i++ {
		assert.Less(t, string(keys[i-1]), string(keys[i]))
	}
	assert.Equal(t, int64(1<<40), keyTimestamp(keys[2]))
}
