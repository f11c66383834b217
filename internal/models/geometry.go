package models

import "encoding/json"

// GeometryType тип геометрии
type GeometryType string

const (
	GeometryPoint           GeometryType = "Point"
	GeometryLineString      GeometryType = "LineString"
	GeometryPolygon         GeometryType = "Polygon"
	GeometryMultiLineString GeometryType = "MultiLineString"
	GeometryMultiPolygon    GeometryType = "MultiPolygon"
)

// Coord одна точка: [lon, lat] с опциональными высотой и timestamp (для треков).
type Coord []float64

func (c Coord) Lon() float64 { return c[0] }
func (c Coord) Lat() float64 { return c[1] }

// Timestamp возвращает время точки трека (четвертый элемент), если оно есть
func (c Coord) Timestamp() (float64, bool) {
	if len(c) < 4 {
		return 0, false
	}
	return c[3], true
}

// SamePosition сравнивает только lon/lat
func (c Coord) SamePosition(other Coord) bool {
	return len(c) >= 2 && len(other) >= 2 && c[0] == other[0] && c[1] == other[1]
}

// XY возвращает двумерную копию точки для геометрических операций
func (c Coord) XY() []float64 {
	return []float64{c[0], c[1]}
}

func (c Coord) clone() Coord {
	out := make(Coord, len(c))
	copy(out, c)
	return out
}

func cloneCoords(coords []Coord) []Coord {
	if coords == nil {
		return nil
	}
	out := make([]Coord, len(coords))
	for i, c := range coords {
		out[i] = c.clone()
	}
	return out
}

// Geometry сумма типов Point | LineString | Polygon | MultiLineString | MultiPolygon | RawGeometry.
type Geometry interface {
	Type() GeometryType
	Clone() Geometry
}

// Point точка (маркер)
type Point struct {
	Coord Coord
}

// LineString линия. Incremental = координаты дописываются к уже известному треку.
type LineString struct {
	Coords      []Coord
	Incremental bool
}

// Polygon полигон с единственным кольцом. Последняя вершина может не совпадать с первой.
type Polygon struct {
	Ring []Coord
}

// MultiLineString набор линий
type MultiLineString struct {
	Lines [][]Coord
}

// MultiPolygon набор полигонов (по одному кольцу на каждый)
type MultiPolygon struct {
	Polygons [][]Coord
}

// RawGeometry геометрия неизвестного типа, хранится без разбора
type RawGeometry struct {
	Kind        string
	Coordinates json.RawMessage
}

func (Point) Type() GeometryType           { return GeometryPoint }
func (LineString) Type() GeometryType      { return GeometryLineString }
func (Polygon) Type() GeometryType         { return GeometryPolygon }
func (MultiLineString) Type() GeometryType { return GeometryMultiLineString }
func (MultiPolygon) Type() GeometryType    { return GeometryMultiPolygon }
func (g RawGeometry) Type() GeometryType   { return GeometryType(g.Kind) }

func (g Point) Clone() Geometry { return Point{Coord: g.Coord.clone()} }

func (g LineString) Clone() Geometry {
	return LineString{Coords: cloneCoords(g.Coords), Incremental: g.Incremental}
}

func (g Polygon) Clone() Geometry { return Polygon{Ring: cloneCoords(g.Ring)} }

func (g MultiLineString) Clone() Geometry {
	lines := make([][]Coord, len(g.Lines))
	for i, l := range g.Lines {
		lines[i] = cloneCoords(l)
	}
	return MultiLineString{Lines: lines}
}

func (g MultiPolygon) Clone() Geometry {
	polys := make([][]Coord, len(g.Polygons))
	for i, p := range g.Polygons {
		polys[i] = cloneCoords(p)
	}
	return MultiPolygon{Polygons: polys}
}

func (g RawGeometry) Clone() Geometry {
	raw := make(json.RawMessage, len(g.Coordinates))
	copy(raw, g.Coordinates)
	return RawGeometry{Kind: g.Kind, Coordinates: raw}
}

// AppendNewer дописывает к линии точки с timestamp строго больше последнего известного.
// Точки без timestamp, с равным или меньшим timestamp отбрасываются.
// Возвращает новую линию и число добавленных точек.
func (g LineString) AppendNewer(coords []Coord) (LineString, int) {
	out := g.Clone().(LineString)
	out.Incremental = false

	var (
		threshold    float64
		hasThreshold bool
	)
	if len(out.Coords) > 0 {
		threshold, hasThreshold = out.Coords[len(out.Coords)-1].Timestamp()
	}

	appended := 0
	for _, c := range coords {
		ts, ok := c.Timestamp()
		if !ok || (hasThreshold && ts <= threshold) {
			continue
		}
		out.Coords = append(out.Coords, c.clone())
		threshold, hasThreshold = ts, true
		appended++
	}
	return out, appended
}
