package sync

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

func newTestEngine(t *testing.T, transport Transport, opts ...Option) *Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(transport, store.New(), Config{}, logger, opts...)
}

func marker(id, title string, lon, lat float64) *models.Feature {
	return &models.Feature{
		ID:         id,
		Class:      models.ClassMarker,
		Properties: models.Properties{"title": title, "class": "Marker"},
		Geometry:   models.Point{Coord: models.Coord{lon, lat}},
	}
}

func track(id string, timestamps ...float64) *models.Feature {
	line := models.LineString{}
	for i, ts := range timestamps {
		line.Coords = append(line.Coords, models.Coord{float64(i), float64(i), 0, ts})
	}
	return &models.Feature{
		ID:         id,
		Class:      models.ClassAppTrack,
		Properties: models.Properties{"title": "track", "class": "AppTrack"},
		Geometry:   line,
	}
}

// recorder считает вызовы callbacks
type recorder struct {
	created    []string
	properties []string
	geometry   []string
	deleted    []string
	completed  int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnNewFeature:      func(f *models.Feature) { r.created = append(r.created, f.ID) },
		OnPropertyChanged: func(f *models.Feature) { r.properties = append(r.properties, f.ID) },
		OnGeometryChanged: func(f *models.Feature) { r.geometry = append(r.geometry, f.ID) },
		OnDeletedFeature:  func(id string, class models.Class) { r.deleted = append(r.deleted, string(class)+"/"+id) },
		OnSyncCompleted:   func() { r.completed++ },
	}
}

func TestReconcile_NewFeatures(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, nil, WithCallbacks(rec.callbacks()))

	delta := &models.Delta{
		IDs: map[models.Class][]string{
			models.ClassMarker:     {"m1"},
			models.ClassAssignment: {"a1"},
		},
		Features: []*models.Feature{
			marker("m1", "LKP", -120, 39),
			{
				ID:         "a1",
				Class:      models.ClassAssignment,
				Properties: models.Properties{"class": "Assignment", "letter": "A", "number": float64(12)},
				Geometry:   models.Polygon{Ring: []models.Coord{{0, 0}, {1, 0}, {1, 1}}},
			},
		},
		Timestamp: 1000,
	}

	result, err := e.Reconcile(delta)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, []string{"m1", "a1"}, rec.created)
	assert.Equal(t, 1, rec.completed)

	st := e.Store()
	require.NoError(t, st.CheckConsistency())
	assert.Equal(t, 2, st.Len())

	a1, ok := st.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "A 12", a1.Title())
}

func TestReconcile_Idempotent(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, nil, WithCallbacks(rec.callbacks()))

	delta := &models.Delta{
		IDs: map[models.Class][]string{
			models.ClassMarker:   {"m1", "m2"},
			models.ClassAppTrack: {"t1"},
		},
		Features: []*models.Feature{
			marker("m1", "LKP", -120, 39),
			marker("m2", "PLS", -121, 38),
			track("t1", 10, 20, 30),
		},
		Timestamp: 1000,
	}
	_, err := e.Reconcile(delta)
	require.NoError(t, err)
	first := e.Store().Snapshot()

	result, err := e.Reconcile(delta)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
	assert.Equal(t, first, e.Store().Snapshot())

	// колбэки изменений не вызывались повторно
	assert.Len(t, rec.created, 3)
	assert.Empty(t, rec.geometry)
	assert.Empty(t, rec.properties)
	assert.Equal(t, 2, rec.completed)
}

func TestReconcile_PropertyChangeKeepsGeometry(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, nil, WithCallbacks(rec.callbacks()))

	_, err := e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassMarker: {"m1"}},
		Features: []*models.Feature{marker("m1", "LKP", -120, 39)},
	})
	require.NoError(t, err)

	// только блок properties, индекс не прислан
	_, err = e.Reconcile(&models.Delta{
		Features: []*models.Feature{{
			ID:         "m1",
			Class:      models.ClassMarker,
			Properties: models.Properties{"title": "LKP 2", "class": "Marker"},
		}},
	})
	require.NoError(t, err)

	got, ok := e.Store().Get("m1")
	require.True(t, ok)
	assert.Equal(t, "LKP 2", got.Title())
	assert.Equal(t, models.Point{Coord: models.Coord{-120, 39}}, got.Geometry)
	assert.Equal(t, []string{"m1"}, rec.properties)
	assert.Empty(t, rec.geometry)
}

func TestReconcile_SameFeatureTwiceFiresOnce(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, nil, WithCallbacks(rec.callbacks()))

	_, err := e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassMarker: {"m1"}},
		Features: []*models.Feature{marker("m1", "LKP", -120, 39)},
	})
	require.NoError(t, err)

	var last *models.Feature
	rec2 := rec.callbacks()
	rec2.OnPropertyChanged = func(f *models.Feature) {
		rec.properties = append(rec.properties, f.ID)
		last = f
	}
	e.callbacks = rec2

	_, err = e.Reconcile(&models.Delta{
		Features: []*models.Feature{
			marker("m1", "first", -120, 39),
			marker("m1", "second", -120, 39),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"m1"}, rec.properties)
	require.NotNil(t, last)
	assert.Equal(t, "second", last.Title())
}

func TestReconcile_DeletesFeaturesMissingFromIndex(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, nil, WithCallbacks(rec.callbacks()))

	_, err := e.Reconcile(&models.Delta{
		IDs: map[models.Class][]string{models.ClassMarker: {"m1", "m2"}},
		Features: []*models.Feature{
			marker("m1", "LKP", -120, 39),
			marker("m2", "PLS", -121, 38),
		},
	})
	require.NoError(t, err)

	result, err := e.Reconcile(&models.Delta{
		IDs: map[models.Class][]string{models.ClassMarker: {"m1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"Marker/m2"}, rec.deleted)

	_, ok := e.Store().Get("m2")
	assert.False(t, ok)
	require.NoError(t, e.Store().CheckConsistency())
}

func TestReconcile_NoIndexNeverDeletes(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassMarker: {"m1"}},
		Features: []*models.Feature{marker("m1", "LKP", -120, 39)},
	})
	require.NoError(t, err)

	result, err := e.Reconcile(&models.Delta{Timestamp: 2000})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, 1, e.Store().Len())
}

func TestReconcile_ClassChangeUnderSameID(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, nil, WithCallbacks(rec.callbacks()))

	_, err := e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassAppTrack: {"x1"}},
		Features: []*models.Feature{track("x1", 1, 2)},
	})
	require.NoError(t, err)

	shape := &models.Feature{
		ID:         "x1",
		Class:      models.ClassShape,
		Properties: models.Properties{"title": "track", "class": "Shape"},
		Geometry:   models.LineString{Coords: []models.Coord{{0, 0}, {1, 1}}},
	}
	_, err = e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassShape: {"x1"}},
		Features: []*models.Feature{shape},
	})
	require.NoError(t, err)

	st := e.Store()
	require.NoError(t, st.CheckConsistency())
	assert.Equal(t, 1, st.Len())
	got, ok := st.Get("x1")
	require.True(t, ok)
	assert.Equal(t, models.ClassShape, got.Class)
	assert.Equal(t, []string{"AppTrack/x1"}, rec.deleted)
}

func TestReconcile_IncrementalTrackAppend(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassAppTrack: {"t1"}},
		Features: []*models.Feature{track("t1", 1, 2, 3)},
	})
	require.NoError(t, err)

	incoming := &models.Feature{
		ID: "t1",
		Geometry: models.LineString{
			Incremental: true,
			Coords: []models.Coord{
				{9, 9, 0, 2}, // старая
				{9, 9, 0, 4},
				{9, 9, 0, 4}, // повтор
				{9, 9, 0, 3}, // не по порядку
				{9, 9, 0, 5},
				{9, 9}, // без timestamp
			},
		},
	}
	result, err := e.Reconcile(&models.Delta{Features: []*models.Feature{incoming}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.GeometryChanges)

	got, ok := e.Store().Get("t1")
	require.True(t, ok)
	line := got.Geometry.(models.LineString)
	assert.False(t, line.Incremental)

	var timestamps []float64
	for _, c := range line.Coords {
		ts, ok := c.Timestamp()
		require.True(t, ok)
		timestamps = append(timestamps, ts)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, timestamps)

	// повторное применение той же порции ничего не меняет
	result, err = e.Reconcile(&models.Delta{Features: []*models.Feature{incoming}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.GeometryChanges)
}

func TestReconcile_SkipsUnknownFeatureWithoutClass(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Reconcile(&models.Delta{
		Features: []*models.Feature{{ID: "ghost", Geometry: models.Point{Coord: models.Coord{1, 1}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, e.Store().Len())
}

func TestReconcile_IndexWithoutFeaturesStaysConsistent(t *testing.T) {
	e := newTestEngine(t, nil)
	shape := &models.Feature{ID: "s1", Class: models.ClassShape, Properties: models.Properties{"title": "zone"}}

	result, err := e.Reconcile(&models.Delta{
		IDs: map[models.Class][]string{
			models.ClassShape:  {"s1", "s2"},
			models.ClassMarker: {"ghost"},
		},
		Features: []*models.Feature{
			shape,
			{ID: "ghost", Geometry: models.Point{Coord: models.Coord{1, 1}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Orphaned)
	require.NoError(t, e.Store().CheckConsistency())
	assert.Equal(t, []string{"s1"}, e.Store().IDs()[models.ClassShape])
	assert.Empty(t, e.Store().IDs()[models.ClassMarker])
}

func TestReconcile_CallbackPanic(t *testing.T) {
	e := newTestEngine(t, nil, WithCallbacks(Callbacks{
		OnNewFeature: func(*models.Feature) { panic("boom") },
	}))

	_, err := e.Reconcile(&models.Delta{
		IDs:      map[models.Class][]string{models.ClassMarker: {"m1"}},
		Features: []*models.Feature{marker("m1", "LKP", -120, 39)},
	})
	require.ErrorIs(t, err, ErrCallback)

	// слияние уже применено к хранилищу
	assert.Equal(t, 1, e.Store().Len())
}

func TestMergeGeometry_ReplaceWholesale(t *testing.T) {
	cached := models.Polygon{Ring: []models.Coord{{0, 0}, {1, 0}, {1, 1}}}
	incoming := models.Polygon{Ring: []models.Coord{{0, 0}, {2, 0}, {2, 2}}}

	got, changed := mergeGeometry(cached, incoming)
	assert.True(t, changed)
	assert.Equal(t, incoming, got)

	_, changed = mergeGeometry(incoming, incoming)
	assert.False(t, changed)
}
