package geometry

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geos"

	"github.com/iudanet/topokeeper/internal/models"
)

// metersPerDegree длина градуса широты
const metersPerDegree = 111320.0

// bufferQuadSegs число сегментов на четверть окружности
const bufferQuadSegs = 8

// cutWidth полуширина разреза линии линией в градусах (около сантиметра)
const cutWidth = 1e-7

// BufferMeters строит полигон на расстоянии meters вокруг геометрии.
// Долгота масштабируется по косинусу средней широты, чтобы буфер был круглым на местности.
func BufferMeters(g models.Geometry, meters float64) ([]models.Geometry, error) {
	if meters <= 0 {
		return nil, fmt.Errorf("%w: buffer width must be positive", ErrDegenerate)
	}
	lat0, ok := meanLatitude(g)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, g.Type())
	}
	scale := math.Cos(lat0 * math.Pi / 180)
	if scale < 1e-6 {
		return nil, fmt.Errorf("%w: buffer at the pole", ErrUnsupported)
	}

	local, err := ToGEOS(scaleLon(g, scale))
	if err != nil {
		return nil, err
	}
	buffered, err := Safe(func() *geos.Geom {
		return local.Buffer(meters/metersPerDegree, bufferQuadSegs)
	})
	if err != nil {
		return nil, err
	}
	pieces, err := Pieces(buffered, FamilyPolygon)
	if err != nil {
		return nil, err
	}
	for i, p := range pieces {
		pieces[i] = scaleLon(p, 1/scale)
	}
	return pieces, nil
}

// CutPolygonByLine разрезает полигон вдоль линии. Граница полигона узлуется
// с линией, из полученного графа собираются грани, и остаются грани внутри
// полигона. Части имеют общие ребра по линии разреза. Линия, не пересекающая
// полигон насквозь, оставляет его без изменений.
// Линейная цель режется узким буфером линии.
func CutPolygonByLine(poly, line *geos.Geom) (*geos.Geom, error) {
	switch poly.TypeID() {
	case geos.TypeIDPolygon, geos.TypeIDMultiPolygon:
	default:
		return Safe(func() *geos.Geom {
			return poly.Difference(line.Buffer(cutWidth, 1))
		})
	}

	return Safe(func() *geos.Geom {
		noded := poly.Boundary().Union(line)
		faces := geos.DefaultContext.Polygonize([]*geos.Geom{noded})

		var inside []*geos.Geom
		for i := range faces.NumGeometries() {
			face := faces.Geometry(i)
			if face.IsEmpty() || !poly.Contains(face.PointOnSurface()) {
				continue
			}
			inside = append(inside, face.Clone())
		}
		return geos.NewCollection(geos.TypeIDMultiPolygon, inside)
	})
}

func meanLatitude(g models.Geometry) (float64, bool) {
	var coords []models.Coord
	switch geom := g.(type) {
	case models.Point:
		coords = []models.Coord{geom.Coord}
	case models.LineString:
		coords = geom.Coords
	case models.Polygon:
		coords = geom.Ring
	case models.MultiLineString:
		for _, l := range geom.Lines {
			coords = append(coords, l...)
		}
	case models.MultiPolygon:
		for _, r := range geom.Polygons {
			coords = append(coords, r...)
		}
	}
	if len(coords) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, c := range coords {
		sum += c.Lat()
	}
	return sum / float64(len(coords)), true
}

func scaleLon(g models.Geometry, k float64) models.Geometry {
	scale := func(coords []models.Coord) []models.Coord {
		out := make([]models.Coord, len(coords))
		for i, c := range coords {
			out[i] = models.Coord{c.Lon() * k, c.Lat()}
		}
		return out
	}
	switch geom := g.(type) {
	case models.Point:
		return models.Point{Coord: scale([]models.Coord{geom.Coord})[0]}
	case models.LineString:
		return models.LineString{Coords: scale(geom.Coords)}
	case models.Polygon:
		return models.Polygon{Ring: scale(geom.Ring)}
	case models.MultiLineString:
		out := models.MultiLineString{}
		for _, l := range geom.Lines {
			out.Lines = append(out.Lines, scale(l))
		}
		return out
	case models.MultiPolygon:
		out := models.MultiPolygon{}
		for _, r := range geom.Polygons {
			out.Polygons = append(out.Polygons, scale(r))
		}
		return out
	default:
		return g
	}
}

// Difference вычитает cutter из target. Линия режет полигон или другую линию вдоль себя.
func Difference(target, cutter *geos.Geom) (*geos.Geom, error) {
	switch cutter.TypeID() {
	case geos.TypeIDLineString, geos.TypeIDMultiLineString, geos.TypeIDLinearRing:
		return CutPolygonByLine(target, cutter)
	}
	return Safe(func() *geos.Geom { return target.Difference(cutter) })
}
