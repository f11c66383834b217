package storage

import (
	"context"

	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

//go:generate moq -out dumpstorage_mock.go . DumpStorage

// DumpStorage defines interface for debug dumps written after every merge.
// Dumps are keyed by the server timestamp of the delta.
type DumpStorage interface {
	// SaveDelta stores the delta as received from the server
	SaveDelta(ctx context.Context, timestamp int64, delta *models.Delta) error

	// SaveSnapshot stores the full store state after the merge
	SaveSnapshot(ctx context.Context, timestamp int64, snap store.Snapshot) error

	// SaveLastSyncTimestamp saves the timestamp of the last successful sync
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error
}

// DumpReader reads dumps back for inspection
type DumpReader interface {
	// ListSnapshots returns timestamps of all stored snapshots in ascending order
	ListSnapshots(ctx context.Context) ([]int64, error)

	// GetSnapshot returns the snapshot stored for timestamp
	// Returns ErrDumpNotFound if it doesn't exist
	GetSnapshot(ctx context.Context, timestamp int64) (*store.Snapshot, error)

	// GetDelta returns the delta stored for timestamp
	// Returns ErrDumpNotFound if it doesn't exist
	GetDelta(ctx context.Context, timestamp int64) (*models.Delta, error)

	// LastSyncTimestamp returns the timestamp of the last successful sync, 0 before the first one
	LastSyncTimestamp(ctx context.Context) (int64, error)

	// Prune removes dumps older than timestamp and returns how many were removed
	Prune(ctx context.Context, before int64) (int, error)
}
