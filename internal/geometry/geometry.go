// Package geometry adapts feature geometries to GEOS and implements the
// shape-preserving helpers used by geometry edits: spur removal, the
// boundary-preserving line splitter and classification of operation results.
package geometry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/twpayne/go-geos"

	"github.com/iudanet/topokeeper/internal/models"
)

var (
	// ErrUnsupported означает, что геометрию нельзя использовать в операции
	ErrUnsupported = errors.New("unsupported geometry")

	// ErrDegenerate означает, что после нормализации в геометрии не хватает точек
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrGEOS означает, что GEOS не смог выполнить операцию
	ErrGEOS = errors.New("geos operation failed")

	// ErrLowerDimension означает, что результат содержит только геометрии меньшей
	// размерности, чем нужное семейство (полигоны касаются по ребру или в точке)
	ErrLowerDimension = errors.New("result has lower dimension")
)

// Family семейство геометрий, для которых определены правки
type Family int

const (
	FamilyNone Family = iota
	FamilyLine
	FamilyPolygon
)

func (f Family) String() string {
	switch f {
	case FamilyLine:
		return "line"
	case FamilyPolygon:
		return "polygon"
	default:
		return "none"
	}
}

// FamilyOf возвращает семейство геометрии; точки и неизвестные типы дают FamilyNone
func FamilyOf(g models.Geometry) Family {
	switch g.(type) {
	case models.LineString, models.MultiLineString:
		return FamilyLine
	case models.Polygon, models.MultiPolygon:
		return FamilyPolygon
	default:
		return FamilyNone
	}
}

// ToGEOS конвертирует геометрию объекта в GEOS, удаляя шипы и закрывая кольца
func ToGEOS(g models.Geometry) (*geos.Geom, error) {
	switch geom := g.(type) {
	case models.Point:
		if len(geom.Coord) < 2 {
			return nil, ErrDegenerate
		}
		return geos.NewPoint(geom.Coord.XY()), nil
	case models.LineString:
		return lineToGEOS(geom.Coords)
	case models.Polygon:
		return polygonToGEOS(geom.Ring)
	case models.MultiLineString:
		parts := make([]*geos.Geom, 0, len(geom.Lines))
		for _, l := range geom.Lines {
			part, err := lineToGEOS(l)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return geos.NewCollection(geos.TypeIDMultiLineString, parts), nil
	case models.MultiPolygon:
		parts := make([]*geos.Geom, 0, len(geom.Polygons))
		for _, ring := range geom.Polygons {
			part, err := polygonToGEOS(ring)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return geos.NewCollection(geos.TypeIDMultiPolygon, parts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, g.Type())
	}
}

func lineToGEOS(coords []models.Coord) (*geos.Geom, error) {
	clean := RemoveSpurs(coords)
	if len(clean) < 2 {
		return nil, fmt.Errorf("%w: line needs 2 distinct points", ErrDegenerate)
	}
	return geos.NewLineString(xy(clean)), nil
}

func polygonToGEOS(ring []models.Coord) (*geos.Geom, error) {
	clean := RemoveSpurs(OpenRing(ring))
	if len(clean) < 3 {
		return nil, fmt.Errorf("%w: polygon needs 3 distinct points", ErrDegenerate)
	}
	closed := append(xy(clean), clean[0].XY())
	poly := geos.NewPolygon([][][]float64{closed})
	if !poly.IsValid() {
		// самопересекающееся кольцо ломает булевы операции
		poly = poly.MakeValidWithParams(geos.MakeValidStructure, geos.MakeValidDiscardCollapsed)
	}
	return poly, nil
}

// OpenRing убирает замыкающую вершину, если она совпадает с первой
func OpenRing(ring []models.Coord) []models.Coord {
	if len(ring) > 1 && ring[0].SamePosition(ring[len(ring)-1]) {
		return ring[:len(ring)-1]
	}
	return ring
}

func xy(coords []models.Coord) [][]float64 {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = c.XY()
	}
	return out
}

func fromXY(coords [][]float64) []models.Coord {
	out := make([]models.Coord, len(coords))
	for i, c := range coords {
		out[i] = models.Coord(c)
	}
	return out
}

// FromGEOS конвертирует одиночную GEOS геометрию обратно в модель.
// Кольцо полигона возвращается без замыкающей вершины.
func FromGEOS(g *geos.Geom) (models.Geometry, error) {
	switch g.TypeID() {
	case geos.TypeIDPoint:
		coords := g.CoordSeq().ToCoords()
		if len(coords) == 0 {
			return nil, ErrDegenerate
		}
		return models.Point{Coord: models.Coord(coords[0])}, nil
	case geos.TypeIDLineString, geos.TypeIDLinearRing:
		return models.LineString{Coords: fromXY(g.CoordSeq().ToCoords())}, nil
	case geos.TypeIDPolygon:
		ring := fromXY(g.ExteriorRing().CoordSeq().ToCoords())
		return models.Polygon{Ring: OpenRing(ring)}, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a single geometry", ErrUnsupported, g.Type())
	}
}

// Pieces раскладывает результат операции на одиночные геометрии семейства family.
// GeometryCollection приводится к набору того же семейства, лишние элементы
// (точки, вырожденные линии) отбрасываются. Пустой результат дает nil без ошибки.
func Pieces(g *geos.Geom, family Family) ([]models.Geometry, error) {
	if g == nil || g.IsEmpty() {
		return nil, nil
	}

	var want []geos.TypeID
	switch family {
	case FamilyPolygon:
		want = []geos.TypeID{geos.TypeIDPolygon}
	case FamilyLine:
		want = []geos.TypeID{geos.TypeIDLineString, geos.TypeIDLinearRing}
	default:
		return nil, fmt.Errorf("%w: family %s", ErrUnsupported, family)
	}

	var out []models.Geometry
	var walk func(*geos.Geom) error
	walk = func(part *geos.Geom) error {
		if part.IsEmpty() {
			return nil
		}
		switch part.TypeID() {
		case geos.TypeIDMultiPolygon, geos.TypeIDMultiLineString, geos.TypeIDMultiPoint, geos.TypeIDGeometryCollection:
			for i := range part.NumGeometries() {
				if err := walk(part.Geometry(i)); err != nil {
					return err
				}
			}
			return nil
		}
		if !slices.Contains(want, part.TypeID()) {
			if g.TypeID() != geos.TypeIDGeometryCollection {
				if typeDimension(part.TypeID()) < typeDimension(want[0]) {
					return fmt.Errorf("%w: %w: %s instead of %s", ErrUnsupported, ErrLowerDimension, part.Type(), family)
				}
				return fmt.Errorf("%w: result %s is not a %s", ErrUnsupported, part.Type(), family)
			}
			// элемент другой размерности внутри коллекции
			return nil
		}
		piece, err := FromGEOS(part)
		if err != nil {
			return err
		}
		out = append(out, piece)
		return nil
	}
	if err := walk(g); err != nil {
		return nil, err
	}
	if len(out) == 0 && g.TypeID() == geos.TypeIDGeometryCollection {
		return nil, fmt.Errorf("%w: %w: collection has no %s members", ErrUnsupported, ErrLowerDimension, family)
	}
	return out, nil
}

func typeDimension(id geos.TypeID) int {
	switch id {
	case geos.TypeIDPoint, geos.TypeIDMultiPoint:
		return 0
	case geos.TypeIDLineString, geos.TypeIDLinearRing, geos.TypeIDMultiLineString:
		return 1
	default:
		return 2
	}
}

// Combine собирает одиночные геометрии одного семейства в Multi геометрию
func Combine(pieces []models.Geometry) (models.Geometry, error) {
	switch len(pieces) {
	case 0:
		return nil, ErrDegenerate
	case 1:
		return pieces[0], nil
	}
	switch pieces[0].(type) {
	case models.Polygon:
		out := models.MultiPolygon{}
		for _, p := range pieces {
			poly, ok := p.(models.Polygon)
			if !ok {
				return nil, fmt.Errorf("%w: mixed pieces", ErrUnsupported)
			}
			out.Polygons = append(out.Polygons, poly.Ring)
		}
		return out, nil
	case models.LineString:
		out := models.MultiLineString{}
		for _, p := range pieces {
			line, ok := p.(models.LineString)
			if !ok {
				return nil, fmt.Errorf("%w: mixed pieces", ErrUnsupported)
			}
			out.Lines = append(out.Lines, line.Coords)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s pieces", ErrUnsupported, pieces[0].Type())
	}
}

// Safe выполняет операцию GEOS, превращая панику библиотеки в ErrGEOS
func Safe[T any](op func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGEOS, r)
		}
	}()
	return op(), nil
}
