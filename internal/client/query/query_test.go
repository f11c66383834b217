package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

const zoneID = "0b6f2c3e-8a1d-4d6e-9f3a-2c1b5e7d9a10"

func seedStore(t *testing.T, features ...*models.Feature) *store.Store {
	t.Helper()
	st := store.New()
	require.NoError(t, st.Update(func(tx *store.Tx) error {
		for _, f := range features {
			tx.Put(f)
		}
		return nil
	}))
	return st
}

func feature(id string, class models.Class, title string) *models.Feature {
	return &models.Feature{
		ID:         id,
		Class:      class,
		Properties: models.Properties{"title": title, "class": string(class)},
	}
}

func newTestService(t *testing.T, st *store.Store) (*Service, *RefresherMock) {
	t.Helper()
	refresher := &RefresherMock{
		RefreshFunc: func(ctx context.Context, force bool) error { return nil },
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(refresher, st, logger), refresher
}

func TestGetFeatures_MissingDiscriminator(t *testing.T) {
	svc, refresher := newTestService(t, store.New())

	_, err := svc.GetFeatures(context.Background(), Filter{AllowMultiple: true})
	assert.ErrorIs(t, err, ErrMissingDiscriminator)
	// никаких сетевых запросов
	assert.Empty(t, refresher.RefreshCalls())
}

func TestGetFeatures_IDShortCircuits(t *testing.T) {
	st := seedStore(t,
		feature(zoneID, models.ClassShape, "zoneA"),
		feature("other", models.ClassShape, "zoneB"),
	)
	svc, refresher := newTestService(t, st)

	// title не совпадает, но id найден
	got, err := svc.GetFeatures(context.Background(), Filter{ID: zoneID, Title: "zoneB", Fresh: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "zoneA", got[0].Title())

	calls := refresher.RefreshCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Force)
}

func TestGetFeatures_UnknownIDOnly(t *testing.T) {
	svc, _ := newTestService(t, seedStore(t, feature("a", models.ClassMarker, "LKP")))

	got, err := svc.GetFeatures(context.Background(), Filter{ID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetFeature_UnknownIDIgnoresClassAndTitle(t *testing.T) {
	const otherID = "2222c3e4-8a1d-4d6e-9f3a-2c1b5e7d9a10"
	svc, _ := newTestService(t, seedStore(t,
		feature(zoneID, models.ClassShape, "zoneA"),
	))
	ctx := context.Background()

	_, err := svc.GetFeature(ctx, Filter{ID: otherID, Class: models.ClassShape})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetFeatures(ctx, Filter{ID: otherID, Class: models.ClassShape, Title: "zoneA"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetFeatures_ClassAndTitle(t *testing.T) {
	st := seedStore(t,
		feature("m1", models.ClassMarker, "LKP"),
		feature("m2", models.ClassMarker, "PLS"),
		feature("s1", models.ClassShape, "LKP"),
	)
	svc, _ := newTestService(t, st)
	ctx := context.Background()

	markers, err := svc.GetFeatures(ctx, Filter{Class: models.ClassMarker})
	require.NoError(t, err)
	assert.Len(t, markers, 2)

	got, err := svc.GetFeatures(ctx, Filter{Class: models.ClassShape, Title: "LKP"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	got, err = svc.GetFeatures(ctx, Filter{Title: "LKP", ExcludeClasses: []models.Class{models.ClassShape}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestGetFeatures_AmbiguousTitle(t *testing.T) {
	st := seedStore(t,
		feature("m1", models.ClassMarker, "LKP"),
		feature("s1", models.ClassShape, "LKP"),
	)
	svc, _ := newTestService(t, st)
	ctx := context.Background()

	got, err := svc.GetFeatures(ctx, Filter{Title: "LKP"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.GetFeatures(ctx, Filter{Title: "LKP", AllowMultiple: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetFeatures_Letter(t *testing.T) {
	st := seedStore(t,
		feature("a1", models.ClassAssignment, "A 12"),
		feature("a2", models.ClassAssignment, "AB 3"),
		feature("m1", models.ClassMarker, "A marker"),
	)
	svc, _ := newTestService(t, st)

	got, err := svc.GetFeatures(context.Background(), Filter{Letter: "A"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestGetFeature(t *testing.T) {
	st := seedStore(t,
		feature("m1", models.ClassMarker, "LKP"),
		feature("s1", models.ClassShape, "LKP"),
	)
	svc, _ := newTestService(t, st)
	ctx := context.Background()

	f, err := svc.GetFeature(ctx, Filter{Title: "LKP", Class: models.ClassMarker})
	require.NoError(t, err)
	assert.Equal(t, "m1", f.ID)

	_, err = svc.GetFeature(ctx, Filter{Title: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetFeature(ctx, Filter{Title: "LKP"})
	require.ErrorIs(t, err, ErrAmbiguous)
	var ambiguous *AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Matches, 2)
	assert.Contains(t, err.Error(), "s1")
}

func TestGetFeature_RefreshError(t *testing.T) {
	svc, refresher := newTestService(t, store.New())
	refresher.RefreshFunc = func(ctx context.Context, force bool) error {
		return errors.New("offline")
	}

	_, err := svc.GetFeature(context.Background(), Filter{Title: "LKP"})
	assert.ErrorContains(t, err, "offline")
}

func TestResolve(t *testing.T) {
	st := seedStore(t,
		feature(zoneID, models.ClassShape, "zoneA"),
		feature("m1", models.ClassMarker, "LKP"),
	)
	svc, _ := newTestService(t, st)
	ctx := context.Background()

	f, err := svc.Resolve(ctx, zoneID, "")
	require.NoError(t, err)
	assert.Equal(t, "zoneA", f.Title())

	f, err = svc.Resolve(ctx, "LKP", models.ClassMarker)
	require.NoError(t, err)
	assert.Equal(t, "m1", f.ID)

	assert.True(t, IsID(zoneID))
	assert.False(t, IsID("zoneA"))
	assert.False(t, IsID("0b6f2c3e-8a1d-4d6e-9f3a-2c1b5e7d9a1z"))
}
