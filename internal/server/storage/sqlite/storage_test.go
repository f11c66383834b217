package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PragmasAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "map.db")

	s, err := New(ctx, path)
	require.NoError(t, err)

	var mode string
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))
	require.NoError(t, s.Ping(ctx))

	rec := newRecord("Marker", 10)
	require.NoError(t, s.SaveFeature(ctx, rec))
	require.NoError(t, s.Close())

	// миграции уже применены, повторное открытие их пропускает
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, s.Close())
	}()
	got, err := s.GetFeature(ctx, testMap, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestNew_BadPath(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "map.db"))
	assert.Error(t, err)
}
