package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/topokeeper/pkg/api"
)

// ErrEmptyGeometry означает, что у геометрии нет координат
var ErrEmptyGeometry = errors.New("geometry has no coordinates")

// FeatureFromWire конвертирует API объект в модель.
// Класс берется из properties.class.
func FeatureFromWire(wf api.Feature) (*Feature, error) {
	f := &Feature{ID: wf.ID}
	if wf.Properties != nil {
		f.Properties = Properties(wf.Properties).Clone()
		f.Class = f.Properties.Class()
	}
	if wf.Geometry != nil {
		geom, err := GeometryFromWire(wf.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", wf.ID, err)
		}
		f.Geometry = geom
	}
	return f, nil
}

// ToWire конвертирует модель в API объект
func (f *Feature) ToWire() (api.Feature, error) {
	wf := api.Feature{ID: f.ID, Type: api.FeatureType}
	if f.Properties != nil || f.Class != "" {
		props := f.Properties.Clone()
		if props == nil {
			props = Properties{}
		}
		if f.Class != "" {
			props[PropClass] = string(f.Class)
		}
		wf.Properties = props
	}
	if f.Geometry != nil {
		wg, err := GeometryToWire(f.Geometry)
		if err != nil {
			return api.Feature{}, fmt.Errorf("feature %s: %w", f.ID, err)
		}
		wf.Geometry = wg
	}
	return wf, nil
}

// MarshalJSON сериализует объект в GeoJSON Feature
func (f *Feature) MarshalJSON() ([]byte, error) {
	wf, err := f.ToWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wf)
}

// UnmarshalJSON десериализует объект из GeoJSON Feature
func (f *Feature) UnmarshalJSON(data []byte) error {
	var wf api.Feature
	if err := json.Unmarshal(data, &wf); err != nil {
		return err
	}
	parsed, err := FeatureFromWire(wf)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// GeometryFromWire разбирает координаты в зависимости от типа геометрии.
// Неизвестные типы сохраняются как RawGeometry.
func GeometryFromWire(wg *api.Geometry) (Geometry, error) {
	switch wg.Type {
	case api.GeometryPoint:
		var c Coord
		if err := json.Unmarshal(wg.Coordinates, &c); err != nil {
			return nil, fmt.Errorf("failed to decode point: %w", err)
		}
		if len(c) < 2 {
			return nil, ErrEmptyGeometry
		}
		return Point{Coord: c}, nil
	case api.GeometryLineString:
		var coords []Coord
		if err := json.Unmarshal(wg.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("failed to decode line: %w", err)
		}
		return LineString{Coords: coords, Incremental: wg.Incremental}, nil
	case api.GeometryPolygon:
		var rings [][]Coord
		if err := json.Unmarshal(wg.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("failed to decode polygon: %w", err)
		}
		if len(rings) == 0 {
			return Polygon{}, nil
		}
		// Дырки не поддерживаются, используется только внешнее кольцо
		return Polygon{Ring: rings[0]}, nil
	case api.GeometryMultiLineString:
		var lines [][]Coord
		if err := json.Unmarshal(wg.Coordinates, &lines); err != nil {
			return nil, fmt.Errorf("failed to decode multiline: %w", err)
		}
		return MultiLineString{Lines: lines}, nil
	case api.GeometryMultiPolygon:
		var polys [][][]Coord
		if err := json.Unmarshal(wg.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("failed to decode multipolygon: %w", err)
		}
		out := MultiPolygon{Polygons: make([][]Coord, 0, len(polys))}
		for _, rings := range polys {
			if len(rings) > 0 {
				out.Polygons = append(out.Polygons, rings[0])
			}
		}
		return out, nil
	default:
		raw := make(json.RawMessage, len(wg.Coordinates))
		copy(raw, wg.Coordinates)
		return RawGeometry{Kind: wg.Type, Coordinates: raw}, nil
	}
}

// GeometryToWire сериализует координаты геометрии
func GeometryToWire(g Geometry) (*api.Geometry, error) {
	var (
		coords any
		wg     = &api.Geometry{Type: string(g.Type())}
	)
	switch geom := g.(type) {
	case Point:
		coords = geom.Coord
	case LineString:
		coords = nonNil(geom.Coords)
		wg.Incremental = geom.Incremental
		if geom.Incremental {
			wg.Size = len(geom.Coords)
		}
	case Polygon:
		coords = [][]Coord{nonNil(geom.Ring)}
	case MultiLineString:
		coords = geom.Lines
	case MultiPolygon:
		polys := make([][][]Coord, len(geom.Polygons))
		for i, ring := range geom.Polygons {
			polys[i] = [][]Coord{ring}
		}
		coords = polys
	case RawGeometry:
		wg.Coordinates = geom.Coordinates
		return wg, nil
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
	data, err := json.Marshal(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coordinates: %w", err)
	}
	wg.Coordinates = data
	return wg, nil
}

// DeltaFromWire конвертирует ответ since в модель дельты
func DeltaFromWire(resp *api.SinceResponse) (*Delta, error) {
	delta := &Delta{Timestamp: resp.Timestamp}
	if resp.Result.Timestamp > delta.Timestamp {
		delta.Timestamp = resp.Result.Timestamp
	}
	if resp.Result.IDs != nil {
		delta.IDs = make(map[Class][]string, len(resp.Result.IDs))
		for class, ids := range resp.Result.IDs {
			delta.IDs[Class(class)] = append([]string(nil), ids...)
		}
	}
	delta.Features = make([]*Feature, 0, len(resp.Result.State.Features))
	for _, wf := range resp.Result.State.Features {
		f, err := FeatureFromWire(wf)
		if err != nil {
			return nil, err
		}
		delta.Features = append(delta.Features, f)
	}
	return delta, nil
}

func nonNil(coords []Coord) []Coord {
	if coords == nil {
		return []Coord{}
	}
	return coords
}
