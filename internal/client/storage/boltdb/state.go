package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var keyLastSync = []byte("last_sync")

// SaveLastSyncTimestamp запоминает server timestamp последнего слияния
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	err := s.update(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucketState)
		if err != nil {
			return err
		}
		return b.Put(keyLastSync, timestampKey(timestamp))
	})
	if err != nil {
		return fmt.Errorf("save last sync timestamp: %w", err)
	}
	return nil
}

// LastSyncTimestamp возвращает server timestamp последнего слияния, 0 если его не было
func (s *Storage) LastSyncTimestamp(ctx context.Context) (int64, error) {
	var ts int64
	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucketState)
		if err != nil {
			return err
		}
		if v := b.Get(keyLastSync); len(v) == 8 {
			ts = keyTimestamp(v)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read last sync timestamp: %w", err)
	}
	return ts, nil
}
