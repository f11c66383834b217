package geometry

import (
	"cmp"
	"slices"

	"github.com/twpayne/go-geos"

	"github.com/iudanet/topokeeper/internal/models"
)

// SplitLineByBoundary возвращает части линии, лежащие внутри полигона boundary.
// В отличие от пересечения GEOS не теряет участки самопересекающихся линий.
// Для каждой пары соседних вершин (A, B):
//   - обе внутри: A добавляется в текущий отрезок;
//   - A внутри, B снаружи: добавляются A и точка выхода, отрезок закрывается;
//   - A снаружи, B внутри: новый отрезок начинается в точке входа, добавляется B;
//   - обе снаружи: если A-B дважды пересекает границу, получается отрезок из двух точек.
//
// В конце последняя вершина добавляется к последнему отрезку, если она внутри.
// Результат: nil, LineString или MultiLineString.
func SplitLineByBoundary(line []models.Coord, boundary *geos.Geom) (models.Geometry, error) {
	return Safe(func() models.Geometry {
		runs := splitRuns(RemoveSpurs(line), boundary)
		switch len(runs) {
		case 0:
			return nil
		case 1:
			return models.LineString{Coords: runs[0]}
		default:
			return models.MultiLineString{Lines: runs}
		}
	})
}

type splitter struct {
	boundary *geos.Geom
	ring     *geos.Geom
	runs     [][]models.Coord
	current  []models.Coord
}

func splitRuns(line []models.Coord, boundary *geos.Geom) [][]models.Coord {
	if len(line) == 0 {
		return nil
	}
	s := &splitter{boundary: boundary, ring: boundary.Boundary()}

	inside := make([]bool, len(line))
	for i, c := range line {
		inside[i] = s.contains(c)
	}

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		switch {
		case inside[i] && inside[i+1]:
			s.add(a)
		case inside[i]:
			s.add(a)
			if cross := s.crossings(a, b); len(cross) > 0 {
				s.add(cross[0])
			}
			s.end()
		case inside[i+1]:
			s.end()
			if cross := s.crossings(a, b); len(cross) > 0 {
				// последний вход в полигон перед B
				s.add(cross[len(cross)-1])
			}
			s.add(b)
		default:
			if cross := s.crossings(a, b); len(cross) >= 2 {
				s.end()
				s.add(cross[0])
				s.add(cross[1])
				s.end()
			}
		}
	}

	if last := len(line) - 1; inside[last] {
		s.add(line[last])
	}
	s.end()
	return s.runs
}

func (s *splitter) contains(c models.Coord) bool {
	return s.boundary.Intersects(geos.NewPoint(c.XY()))
}

// add дописывает точку в текущий отрезок, не повторяя последнюю
func (s *splitter) add(c models.Coord) {
	if n := len(s.current); n > 0 && s.current[n-1].SamePosition(c) {
		return
	}
	s.current = append(s.current, c)
}

func (s *splitter) end() {
	if len(s.current) >= 2 {
		s.runs = append(s.runs, s.current)
	}
	s.current = nil
}

// crossings возвращает точки пересечения отрезка a-b с границей, упорядоченные от a
func (s *splitter) crossings(a, b models.Coord) []models.Coord {
	seg := geos.NewLineString([][]float64{a.XY(), b.XY()})
	hit := seg.Intersection(s.ring)
	if hit.IsEmpty() {
		return nil
	}

	var points []models.Coord
	collectPoints(hit, &points)

	dist := func(c models.Coord) float64 {
		dx, dy := c.Lon()-a.Lon(), c.Lat()-a.Lat()
		return dx*dx + dy*dy
	}
	slices.SortFunc(points, func(p, q models.Coord) int {
		return cmp.Compare(dist(p), dist(q))
	})
	return slices.CompactFunc(points, models.Coord.SamePosition)
}

func collectPoints(g *geos.Geom, out *[]models.Coord) {
	switch g.TypeID() {
	case geos.TypeIDPoint:
		if !g.IsEmpty() {
			*out = append(*out, models.Coord(g.CoordSeq().ToCoords()[0]))
		}
	case geos.TypeIDLineString, geos.TypeIDLinearRing:
		// отрезок идет вдоль границы: берем его концы
		coords := g.CoordSeq().ToCoords()
		if len(coords) > 0 {
			*out = append(*out, models.Coord(coords[0]), models.Coord(coords[len(coords)-1]))
		}
	default:
		for i := range g.NumGeometries() {
			collectPoints(g.Geometry(i), out)
		}
	}
}
