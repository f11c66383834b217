// Package boltdb хранит отладочные дампы клиента в одном файле bbolt.
//
// Снимки и дельты лежат в отдельных бакетах под ключом big-endian
// timestamp, поэтому курсор обходит их по времени сервера.
package boltdb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/topokeeper/internal/client/storage"
)

var (
	bucketSnapshots = []byte("snapshots")
	bucketDeltas    = []byte("deltas")
	bucketState     = []byte("state")

	dumpBuckets = [][]byte{bucketSnapshots, bucketDeltas}
)

// lockTimeout сколько ждать файл, занятый другим процессом клиента
const lockTimeout = 2 * time.Second

// Storage файл отладочных дампов
type Storage struct {
	db *bbolt.DB
}

// New открывает файл дампов path, создавая его и бакеты при необходимости
func New(ctx context.Context, path string) (*Storage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("open dump file %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range append([][]byte{bucketState}, dumpBuckets...) {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Storage{db: db}, nil
}

// Close закрывает файл. Повторный вызов ничего не делает
func (s *Storage) Close() error {
	db := s.db
	if db == nil {
		return nil
	}
	s.db = nil
	return db.Close()
}

func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrClosed
	}
	return s.db.Update(fn)
}

func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	if s.db == nil {
		return storage.ErrClosed
	}
	return s.db.View(fn)
}

func bucketOf(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("bucket %s is missing", name)
	}
	return b, nil
}

func timestampKey(ts int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(ts))
}

func keyTimestamp(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key))
}
