package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/topokeeper/internal/client/storage"
	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

func TestNewEngine_Defaults(t *testing.T) {
	e := newTestEngine(t, &TransportMock{})

	assert.Equal(t, DefaultInterval, e.cfg.Interval)
	assert.Equal(t, DefaultTimeout, e.cfg.Timeout)
	assert.Equal(t, DefaultGateWait, e.cfg.GateWait)
	assert.NotNil(t, e.Store())
	assert.Equal(t, Cursor{}, e.Cursor())
}

func TestFetchDelta_SinceOverlap(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	timestamps := []int64{2000, 2600, 100}
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			ts := timestamps[0]
			timestamps = timestamps[1:]
			return &models.Delta{Timestamp: ts}, nil
		},
	}
	e := newTestEngine(t, mockTransport, WithClock(func() time.Time { return now }))

	for range 3 {
		_, err := e.FetchDelta(context.Background())
		require.NoError(t, err)
	}

	calls := mockTransport.FetchSinceCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, int64(0), calls[0].Since)
	assert.Equal(t, int64(1500), calls[1].Since)
	assert.Equal(t, int64(2100), calls[2].Since)

	// курсор не откатывается назад
	assert.Equal(t, int64(2600), e.Cursor().LastServerTimestamp)
	assert.True(t, e.Cursor().LastCompletion.IsZero(), "fetch alone is not a completed sync")
}

func TestRefresh_StampsCompletionAfterReconcile(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return &models.Delta{Timestamp: 900, Features: []*models.Feature{marker("m1", "LKP", 1, 2)}}, nil
		},
	}

	t.Run("success", func(t *testing.T) {
		e := newTestEngine(t, mockTransport, WithClock(func() time.Time { return now }))
		require.NoError(t, e.Refresh(context.Background(), true))
		assert.Equal(t, now, e.Cursor().LastCompletion)
		assert.Equal(t, int64(900), e.Cursor().LastServerTimestamp)
	})

	t.Run("failed reconcile", func(t *testing.T) {
		e := newTestEngine(t, mockTransport,
			WithClock(func() time.Time { return now }),
			WithCallbacks(Callbacks{OnNewFeature: func(*models.Feature) { panic("boom") }}))
		require.ErrorIs(t, e.Refresh(context.Background(), true), ErrCallback)
		assert.True(t, e.Cursor().LastCompletion.IsZero())
	})
}

func TestFetchDelta_FailureDisablesSync(t *testing.T) {
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return nil, errors.New("connection refused")
		},
	}
	e := newTestEngine(t, mockTransport)

	_, err := e.FetchDelta(context.Background())
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, e.Disabled())
	assert.Equal(t, Cursor{}, e.Cursor())
}

func TestFetchDelta_NilDelta(t *testing.T) {
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return nil, nil
		},
	}
	e := newTestEngine(t, mockTransport)

	_, err := e.FetchDelta(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRefresh_Interval(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return &models.Delta{
				IDs:       map[models.Class][]string{models.ClassMarker: {"m1"}},
				Features:  []*models.Feature{marker("m1", "LKP", -120, 39)},
				Timestamp: 1000,
			}, nil
		},
	}
	e := newTestEngine(t, mockTransport, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	// первая синхронизация всегда выполняется
	require.NoError(t, e.Refresh(ctx, false))
	assert.Len(t, mockTransport.FetchSinceCalls(), 1)
	assert.Equal(t, 1, e.Store().Len())

	// интервал не прошел
	require.NoError(t, e.Refresh(ctx, false))
	assert.Len(t, mockTransport.FetchSinceCalls(), 1)

	// force игнорирует интервал
	require.NoError(t, e.Refresh(ctx, true))
	assert.Len(t, mockTransport.FetchSinceCalls(), 2)

	now = now.Add(DefaultInterval + time.Second)
	require.NoError(t, e.Refresh(ctx, false))
	assert.Len(t, mockTransport.FetchSinceCalls(), 3)
}

func TestRefresh_SkipsWhenGateHeld(t *testing.T) {
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return &models.Delta{}, nil
		},
	}
	e := newTestEngine(t, mockTransport)

	release, err := e.BeginEdit(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.Refresh(context.Background(), true))
	assert.Empty(t, mockTransport.FetchSinceCalls())

	release()
	release() // повторный вызов безопасен

	require.NoError(t, e.Refresh(context.Background(), true))
	assert.Len(t, mockTransport.FetchSinceCalls(), 1)
}

func TestRefresh_TransportError(t *testing.T) {
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return nil, errors.New("timeout")
		},
	}
	e := newTestEngine(t, mockTransport)

	err := e.Refresh(context.Background(), true)
	assert.ErrorIs(t, err, ErrTransport)

	// gate освобожден даже после ошибки
	assert.True(t, e.tryAcquire())
	e.release()
}

func TestRefresh_WritesDump(t *testing.T) {
	mockTransport := &TransportMock{
		FetchSinceFunc: func(ctx context.Context, since int64) (*models.Delta, error) {
			return &models.Delta{
				IDs:       map[models.Class][]string{models.ClassMarker: {"m1"}},
				Features:  []*models.Feature{marker("m1", "LKP", -120, 39)},
				Timestamp: 4242,
			}, nil
		},
	}
	mockDump := &storage.DumpStorageMock{
		SaveDeltaFunc: func(ctx context.Context, timestamp int64, delta *models.Delta) error {
			return nil
		},
		SaveSnapshotFunc: func(ctx context.Context, timestamp int64, snap store.Snapshot) error {
			return errors.New("disk full")
		},
		SaveLastSyncTimestampFunc: func(ctx context.Context, timestamp int64) error {
			return nil
		},
	}
	e := newTestEngine(t, mockTransport, WithDump(mockDump))

	// ошибка дампа не ломает синхронизацию
	require.NoError(t, e.Refresh(context.Background(), true))

	require.Len(t, mockDump.SaveDeltaCalls(), 1)
	assert.Equal(t, int64(4242), mockDump.SaveDeltaCalls()[0].Timestamp)
	require.Len(t, mockDump.SaveSnapshotCalls(), 1)
	assert.Len(t, mockDump.SaveSnapshotCalls()[0].Snap.Features, 1)
	require.Len(t, mockDump.SaveLastSyncTimestampCalls(), 1)
	assert.Equal(t, int64(4242), mockDump.SaveLastSyncTimestampCalls()[0].Timestamp)
}
