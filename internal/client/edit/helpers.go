package edit

import (
	"context"
	"time"

	"github.com/iudanet/topokeeper/internal/models"
)

// Styling property keys
const (
	PropMarkerColor   = "marker-color"
	PropMarkerSymbol  = "marker-symbol"
	PropMarkerHeading = "heading"
	PropStroke        = "stroke"
	PropStrokeWidth   = "stroke-width"
	PropStrokeOpacity = "stroke-opacity"
	PropFill          = "fill"
	PropFillOpacity   = "fill-opacity"
	PropPattern       = "pattern"
	PropResourceType  = "resourceType"
	PropStatus        = "status"
	PropPriority      = "priority"
	PropTeamSize      = "teamSize"
	PropOperationalID = "operationalPeriodId"
)

// MarkerOptions параметры нового маркера
type MarkerOptions struct {
	Rotation    *float64
	Title       string
	Description string
	Color       string // по умолчанию #FF0000
	Symbol      string // по умолчанию point
	FolderID    string
}

// LineOptions параметры новой линии
type LineOptions struct {
	Title       string
	Description string
	Color       string
	Pattern     string
	FolderID    string
	Width       float64
	Opacity     float64
}

// PolygonOptions параметры нового полигона
type PolygonOptions struct {
	Title         string
	Description   string
	Stroke        string
	Fill          string
	FolderID      string
	StrokeWidth   float64
	StrokeOpacity float64
	FillOpacity   float64
}

// AssignmentOptions параметры нового задания.
// Extra переносится в properties как есть.
type AssignmentOptions struct {
	Extra               models.Properties
	Letter              string
	Number              string
	OperationalPeriodID string
	FolderID            string
	ResourceType        string // по умолчанию GROUND
	Status              string // по умолчанию DRAFT
	Priority            string
	Description         string
	TeamSize            int
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func withFolder(props models.Properties, folderID string) models.Properties {
	if folderID != "" {
		props[models.PropFolderID] = folderID
	}
	return props
}

// AddFolder создает папку
func (s *Service) AddFolder(ctx context.Context, title string) (*models.Feature, error) {
	return s.Submit(ctx, Edit{
		Kind:       KindCreate,
		Class:      models.ClassFolder,
		Properties: models.Properties{models.PropTitle: orDefault(title, "New Folder")},
	})
}

// AddMarker создает маркер в точке lon/lat
func (s *Service) AddMarker(ctx context.Context, lon, lat float64, opts MarkerOptions) (*models.Feature, error) {
	props := models.Properties{
		models.PropTitle:       orDefault(opts.Title, "New Marker"),
		models.PropDescription: opts.Description,
		models.PropUpdated:     0,
		PropMarkerColor:        orDefault(opts.Color, "#FF0000"),
		PropMarkerSymbol:       orDefault(opts.Symbol, "point"),
	}
	if opts.Rotation != nil {
		props[PropMarkerHeading] = *opts.Rotation
	}
	return s.Submit(ctx, Edit{
		Kind:       KindCreate,
		Class:      models.ClassMarker,
		Properties: withFolder(props, opts.FolderID),
		Geometry:   models.Point{Coord: models.Coord{lon, lat}},
	})
}

// AddLine создает линию (Shape)
func (s *Service) AddLine(ctx context.Context, coords []models.Coord, opts LineOptions) (*models.Feature, error) {
	if len(coords) < 2 {
		return nil, errTooFewPoints(2)
	}
	props := models.Properties{
		models.PropTitle:       orDefault(opts.Title, "New Line"),
		models.PropDescription: opts.Description,
		PropStroke:             orDefault(opts.Color, "#FF0000"),
		PropStrokeWidth:        orDefault(opts.Width, 2),
		PropStrokeOpacity:      orDefault(opts.Opacity, 1),
		PropPattern:            orDefault(opts.Pattern, "solid"),
	}
	return s.Submit(ctx, Edit{
		Kind:       KindCreate,
		Class:      models.ClassShape,
		Properties: withFolder(props, opts.FolderID),
		Geometry:   models.LineString{Coords: coords},
	})
}

// AddPolygon создает полигон (Shape)
func (s *Service) AddPolygon(ctx context.Context, ring []models.Coord, opts PolygonOptions) (*models.Feature, error) {
	if len(ring) < 3 {
		return nil, errTooFewPoints(3)
	}
	props := models.Properties{
		models.PropTitle:       orDefault(opts.Title, "New Shape"),
		models.PropDescription: opts.Description,
		PropStroke:             orDefault(opts.Stroke, "#FF0000"),
		PropFill:               orDefault(opts.Fill, "#FF0000"),
		PropStrokeWidth:        orDefault(opts.StrokeWidth, 2),
		PropStrokeOpacity:      orDefault(opts.StrokeOpacity, 1),
		PropFillOpacity:        orDefault(opts.FillOpacity, 0.1),
	}
	return s.Submit(ctx, Edit{
		Kind:       KindCreate,
		Class:      models.ClassShape,
		Properties: withFolder(props, opts.FolderID),
		Geometry:   models.Polygon{Ring: ring},
	})
}

// AddLineAssignment создает линейное задание
func (s *Service) AddLineAssignment(ctx context.Context, coords []models.Coord, opts AssignmentOptions) (*models.Feature, error) {
	if len(coords) < 2 {
		return nil, errTooFewPoints(2)
	}
	return s.Submit(ctx, Edit{
		Kind:       KindCreate,
		Class:      models.ClassAssignment,
		Properties: assignmentProps(opts),
		Geometry:   models.LineString{Coords: coords},
	})
}

// AddAreaAssignment создает площадное задание
func (s *Service) AddAreaAssignment(ctx context.Context, ring []models.Coord, opts AssignmentOptions) (*models.Feature, error) {
	if len(ring) < 3 {
		return nil, errTooFewPoints(3)
	}
	return s.Submit(ctx, Edit{
		Kind:       KindCreate,
		Class:      models.ClassAssignment,
		Properties: assignmentProps(opts),
		Geometry:   models.Polygon{Ring: ring},
	})
}

func assignmentProps(opts AssignmentOptions) models.Properties {
	props := models.Properties{}.Merge(opts.Extra)
	props[models.PropLetter] = opts.Letter
	props[models.PropNumber] = opts.Number
	props[models.PropDescription] = opts.Description
	props[PropResourceType] = orDefault(opts.ResourceType, "GROUND")
	props[PropStatus] = orDefault(opts.Status, "DRAFT")
	if opts.Priority != "" {
		props[PropPriority] = opts.Priority
	}
	if opts.TeamSize > 0 {
		props[PropTeamSize] = opts.TeamSize
	}
	if opts.OperationalPeriodID != "" {
		props[PropOperationalID] = opts.OperationalPeriodID
	}
	return withFolder(props, opts.FolderID)
}

// AddAppTrack создает трек или, если existingID не пуст, дописывает в него новые точки.
// Точки должны нести timestamp (четвертый элемент координаты).
func (s *Service) AddAppTrack(ctx context.Context, existingID, title string, points []models.Coord) (*models.Feature, error) {
	line := models.LineString{Coords: points, Incremental: true}
	props := models.Properties{models.PropUpdated: time.Now().UnixMilli()}
	e := Edit{Class: models.ClassAppTrack, Properties: props, Geometry: line}
	if existingID != "" {
		e.Kind = KindUpdate
		e.ID = existingID
		if title != "" {
			props[models.PropTitle] = title
		}
	} else {
		props[models.PropTitle] = orDefault(title, "New Track")
	}
	return s.Submit(ctx, e)
}

// EditProperties обновляет только перечисленные свойства объекта
func (s *Service) EditProperties(ctx context.Context, class models.Class, id string, props models.Properties) (*models.Feature, error) {
	return s.Submit(ctx, Edit{Kind: KindUpdate, Class: class, ID: id, Properties: props})
}

// EditGeometry заменяет геометрию объекта, не трогая свойства
func (s *Service) EditGeometry(ctx context.Context, class models.Class, id string, geom models.Geometry) (*models.Feature, error) {
	return s.Submit(ctx, Edit{Kind: KindUpdate, Class: class, ID: id, Geometry: geom})
}

// MoveMarker переносит маркер в новую точку
func (s *Service) MoveMarker(ctx context.Context, id string, lon, lat float64) (*models.Feature, error) {
	return s.EditGeometry(ctx, models.ClassMarker, id, models.Point{Coord: models.Coord{lon, lat}})
}
