package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/topokeeper/internal/client/storage"
	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

var (
	_ storage.DumpStorage = (*Storage)(nil)
	_ storage.DumpReader  = (*Storage)(nil)
)

// SaveDelta stores the raw delta under its server timestamp
func (s *Storage) SaveDelta(ctx context.Context, timestamp int64, delta *models.Delta) error {
	return s.put(bucketDeltas, timestamp, delta)
}

// SaveSnapshot stores the full store state under the delta's server timestamp
func (s *Storage) SaveSnapshot(ctx context.Context, timestamp int64, snap store.Snapshot) error {
	return s.put(bucketSnapshots, timestamp, snap)
}

// GetSnapshot returns the snapshot written for timestamp
func (s *Storage) GetSnapshot(ctx context.Context, timestamp int64) (*store.Snapshot, error) {
	var snap store.Snapshot
	if err := s.get(bucketSnapshots, timestamp, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetDelta returns the delta written for timestamp
func (s *Storage) GetDelta(ctx context.Context, timestamp int64) (*models.Delta, error) {
	var delta models.Delta
	if err := s.get(bucketDeltas, timestamp, &delta); err != nil {
		return nil, err
	}
	return &delta, nil
}

// ListSnapshots returns timestamps of all snapshots in ascending order
func (s *Storage) ListSnapshots(ctx context.Context) ([]int64, error) {
	var out []int64
	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucketSnapshots)
		if err != nil {
			return err
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			out = append(out, keyTimestamp(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Prune removes snapshots and deltas older than before
func (s *Storage) Prune(ctx context.Context, before int64) (int, error) {
	removed := 0
	err := s.update(func(tx *bbolt.Tx) error {
		limit := timestampKey(before)
		for _, name := range dumpBuckets {
			b, err := bucketOf(tx, name)
			if err != nil {
				return err
			}
			// удаление во время обхода сдвигает курсор, поэтому сначала собираем ключи
			var stale [][]byte
			c := b.Cursor()
			for k, _ := c.First(); k != nil && bytes.Compare(k, limit) < 0; k, _ = c.Next() {
				stale = append(stale, bytes.Clone(k))
			}
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
			removed += len(stale)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune dumps: %w", err)
	}
	return removed, nil
}

func (s *Storage) put(name []byte, timestamp int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s dump: %w", name, err)
	}
	err = s.update(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, name)
		if err != nil {
			return err
		}
		return b.Put(timestampKey(timestamp), data)
	})
	if err != nil {
		return fmt.Errorf("save %s dump: %w", name, err)
	}
	return nil
}

func (s *Storage) get(name []byte, timestamp int64, v any) error {
	return s.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return storage.ErrDumpNotFound
		}
		data := b.Get(timestampKey(timestamp))
		if data == nil {
			return storage.ErrDumpNotFound
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode %s dump: %w", name, err)
		}
		return nil
	})
}
