package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/iudanet/topokeeper/internal/models"
)

const featureTemplate = `
=== {{.Class}} {{.Title}} ===

ID:       {{.ID}}
{{- if .FolderID }}
Folder:   {{.FolderID}}
{{- end}}
{{- if .Description }}
Notes:    {{.Description}}
{{- end}}
Geometry: {{.Geometry}}
{{- if .Properties }}
Properties:
{{- range .Properties }}
  {{.Key}} = {{.Value}}
{{- end}}
{{- end}}
`

var featureTmpl = template.Must(template.New("feature").Parse(featureTemplate))

type propertyView struct {
	Key   string
	Value any
}

type featureView struct {
	ID          string
	Class       models.Class
	Title       string
	FolderID    string
	Description string
	Geometry    string
	Properties  []propertyView
}

// shownElsewhere свойства, которые выводятся отдельными строками
var shownElsewhere = []string{
	models.PropTitle, models.PropClass, models.PropFolderID, models.PropDescription,
}

func newFeatureView(f *models.Feature) featureView {
	v := featureView{
		ID:          f.ID,
		Class:       f.Class,
		Title:       f.Title(),
		FolderID:    f.Properties.FolderID(),
		Description: f.Properties.Description(),
		Geometry:    describeGeometry(f.Geometry),
	}
	keys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		if !slices.Contains(shownElsewhere, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		v.Properties = append(v.Properties, propertyView{Key: k, Value: f.Properties[k]})
	}
	return v
}

// describeGeometry краткое описание геометрии для вывода
func describeGeometry(g models.Geometry) string {
	switch geom := g.(type) {
	case nil:
		return "none"
	case models.Point:
		return fmt.Sprintf("Point (%.6f, %.6f)", geom.Coord.Lon(), geom.Coord.Lat())
	case models.LineString:
		return fmt.Sprintf("LineString, %d points", len(geom.Coords))
	case models.Polygon:
		return fmt.Sprintf("Polygon, %d vertices", len(geom.Ring))
	case models.MultiLineString:
		return fmt.Sprintf("MultiLineString, %d parts", len(geom.Lines))
	case models.MultiPolygon:
		return fmt.Sprintf("MultiPolygon, %d parts", len(geom.Polygons))
	default:
		return string(g.Type())
	}
}

func renderFeature(f *models.Feature) (string, error) {
	var b strings.Builder
	if err := featureTmpl.Execute(&b, newFeatureView(f)); err != nil {
		return "", fmt.Errorf("failed to render feature %s: %w", f.ID, err)
	}
	return b.String(), nil
}
