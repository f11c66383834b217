package api

import "encoding/json"

// Feature представляет объект карты в формате GeoJSON Feature
type Feature struct {
	Properties map[string]any `json:"properties,omitempty"` // nil = блок properties отсутствует в дельте
	Geometry   *Geometry      `json:"geometry,omitempty"`   // nil = блок geometry отсутствует в дельте
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type,omitempty"`
}

// Geometry представляет GeoJSON геометрию.
// Coordinates хранится как сырой JSON, так как его форма зависит от Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Incremental bool            `json:"incremental,omitempty"` // true = координаты дописываются к существующему треку
	Size        int             `json:"size,omitempty"`        // полный размер трека для incremental геометрий
}

// FeatureType значение поля type для Feature
const FeatureType = "Feature"

// Geometry types
const (
	GeometryPoint           = "Point"
	GeometryLineString      = "LineString"
	GeometryPolygon         = "Polygon"
	GeometryMultiLineString = "MultiLineString"
	GeometryMultiPolygon    = "MultiPolygon"
)
