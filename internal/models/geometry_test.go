package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineString_AppendNewer(t *testing.T) {
	line := LineString{Coords: []Coord{{0, 0, 0, 10}, {1, 1, 0, 20}}}

	got, n := line.AppendNewer([]Coord{
		{1, 1, 0, 20},
		{2, 2, 0, 30},
		{3, 3},
		{2, 2, 0, 25},
		{4, 4, 0, 40},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []Coord{{0, 0, 0, 10}, {1, 1, 0, 20}, {2, 2, 0, 30}, {4, 4, 0, 40}}, got.Coords)

	// исходная линия не изменилась
	assert.Len(t, line.Coords, 2)
}

func TestLineString_AppendNewerUntimedTail(t *testing.T) {
	line := LineString{Coords: []Coord{{0, 0}, {1, 1}}, Incremental: true}

	got, n := line.AppendNewer([]Coord{{2, 2, 0, 5}, {3, 3, 0, 5}})
	assert.Equal(t, 1, n)
	assert.False(t, got.Incremental)
	assert.Equal(t, Coord{2, 2, 0, 5}, got.Coords[2])
}

func TestGeometry_CloneIsDeep(t *testing.T) {
	poly := Polygon{Ring: []Coord{{0, 0}, {1, 0}, {1, 1}}}
	clone := poly.Clone().(Polygon)
	clone.Ring[0][0] = 42

	assert.Equal(t, float64(0), poly.Ring[0][0])
}
