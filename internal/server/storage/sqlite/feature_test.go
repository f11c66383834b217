package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/topokeeper/internal/server/storage"
)

const testMap = "ABC123"

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s
}

func newRecord(class string, ts int64) *storage.FeatureRecord {
	return &storage.FeatureRecord{
		MapID:      testMap,
		ID:         uuid.NewString(),
		Class:      class,
		Properties: []byte(`{"class":"` + class + `","title":"t"}`),
		Geometry:   []byte(`{"type":"Point","coordinates":[1,2]}`),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

func TestStorage_SaveAndGetFeature(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	rec := newRecord("Marker", 100)
	require.NoError(t, s.SaveFeature(ctx, rec))

	got, err := s.GetFeature(ctx, testMap, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	t.Run("upsert replaces body and keeps created_at", func(t *testing.T) {
		updated := *rec
		updated.Properties = []byte(`{"class":"Marker","title":"t2"}`)
		updated.Geometry = nil
		updated.CreatedAt = 999
		updated.UpdatedAt = 200
		require.NoError(t, s.SaveFeature(ctx, &updated))

		got, err := s.GetFeature(ctx, testMap, rec.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"class":"Marker","title":"t2"}`, string(got.Properties))
		assert.Nil(t, got.Geometry)
		assert.Equal(t, int64(100), got.CreatedAt)
		assert.Equal(t, int64(200), got.UpdatedAt)
	})

	t.Run("other map does not see feature", func(t *testing.T) {
		_, err := s.GetFeature(ctx, "OTHER", rec.ID)
		assert.ErrorIs(t, err, storage.ErrFeatureNotFound)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		err := s.SaveFeature(ctx, &storage.FeatureRecord{MapID: testMap, ID: "x"})
		assert.ErrorIs(t, err, storage.ErrInvalidFeature)
	})
}

func TestStorage_FeaturesSince(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	first := newRecord("Marker", 100)
	second := newRecord("Shape", 200)
	third := newRecord("Marker", 300)
	for _, rec := range []*storage.FeatureRecord{third, first, second} {
		require.NoError(t, s.SaveFeature(ctx, rec))
	}

	tests := []struct {
		name  string
		want  []string
		since int64
	}{
		{name: "from zero", since: 0, want: []string{first.ID, second.ID, third.ID}},
		{name: "after first", since: 100, want: []string{second.ID, third.ID}},
		{name: "nothing newer", since: 300, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.FeaturesSince(ctx, testMap, tt.since)
			require.NoError(t, err)

			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("deleted features are excluded", func(t *testing.T) {
		require.NoError(t, s.DeleteFeature(ctx, testMap, "Shape", second.ID, 400))

		records, err := s.FeaturesSince(ctx, testMap, 0)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestStorage_MembershipAndIDs(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	marker := newRecord("Marker", 100)
	shape := newRecord("Shape", 200)
	require.NoError(t, s.SaveFeature(ctx, marker))
	require.NoError(t, s.SaveFeature(ctx, shape))

	changed, err := s.MembershipChangedSince(ctx, testMap, 150)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.MembershipChangedSince(ctx, testMap, 200)
	require.NoError(t, err)
	assert.False(t, changed)

	// простое изменение не меняет состав карты
	marker.UpdatedAt = 300
	require.NoError(t, s.SaveFeature(ctx, marker))
	changed, err = s.MembershipChangedSince(ctx, testMap, 200)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, s.DeleteFeature(ctx, testMap, "Shape", shape.ID, 400))
	changed, err = s.MembershipChangedSince(ctx, testMap, 300)
	require.NoError(t, err)
	assert.True(t, changed)

	ids, err := s.FeatureIDs(ctx, testMap)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"Marker": {marker.ID}}, ids)

	last, err := s.LastTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(400), last)
}

func TestStorage_DeleteFeature(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	rec := newRecord("Marker", 100)
	require.NoError(t, s.SaveFeature(ctx, rec))

	t.Run("class mismatch", func(t *testing.T) {
		err := s.DeleteFeature(ctx, testMap, "Shape", rec.ID, 200)
		assert.ErrorIs(t, err, storage.ErrFeatureNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteFeature(ctx, testMap, "Marker", rec.ID, 200))

		_, err := s.GetFeature(ctx, testMap, rec.ID)
		assert.ErrorIs(t, err, storage.ErrFeatureNotFound)
	})

	t.Run("second delete", func(t *testing.T) {
		err := s.DeleteFeature(ctx, testMap, "Marker", rec.ID, 300)
		assert.ErrorIs(t, err, storage.ErrFeatureNotFound)
	})
}

func TestStorage_EmptyDatabase(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.Ping(ctx))

	last, err := s.LastTimestamp(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	ids, err := s.FeatureIDs(ctx, testMap)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
