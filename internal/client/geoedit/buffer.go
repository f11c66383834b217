package geoedit

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/topokeeper/internal/client/edit"
	"github.com/iudanet/topokeeper/internal/geometry"
	"github.com/iudanet/topokeeper/internal/models"
)

// styleKeys свойства оформления, которые переносятся на буфер
var styleKeys = []string{
	edit.PropStroke, edit.PropStrokeWidth, edit.PropStrokeOpacity,
	edit.PropFill, edit.PropFillOpacity, edit.PropPattern,
	models.PropFolderID, models.PropDescription,
}

// Buffer создает новый полигон (Shape) на расстоянии meters вокруг target.
// Пустой title превращается в "<заголовок цели> buffer".
func (e *Engine) Buffer(ctx context.Context, targetOp Operand, meters float64, title string) (*Result, error) {
	target, err := e.resolve(ctx, targetOp)
	if err != nil {
		return nil, fmt.Errorf("buffer: target: %w", err)
	}
	switch target.Geometry.(type) {
	case models.Point, models.LineString, models.Polygon:
	default:
		return unsupported(fmt.Sprintf("cannot buffer %s %q", target.Class, target.Title())), nil
	}

	pieces, err := geometry.BufferMeters(target.Geometry, meters)
	if err != nil {
		if errors.Is(err, geometry.ErrGEOS) {
			return nil, fmt.Errorf("buffer: %w", err)
		}
		return unsupported(err.Error()), nil
	}
	if len(pieces) == 0 {
		return unsupported("buffer is empty"), nil
	}
	geom, err := geometry.Combine(pieces)
	if err != nil {
		return unsupported(err.Error()), nil
	}

	if title == "" {
		title = target.Title() + " buffer"
	}
	props := models.Properties{models.PropTitle: title}
	for _, k := range styleKeys {
		if v, ok := target.Properties[k]; ok {
			props[k] = v
		}
	}
	if _, ok := props[edit.PropStroke]; !ok {
		if color, ok := target.Properties[edit.PropMarkerColor]; ok {
			props[edit.PropStroke] = color
		}
	}

	created, err := e.editor.Submit(ctx, edit.Edit{
		Kind:       edit.KindCreate,
		Class:      models.ClassShape,
		Properties: props,
		Geometry:   geom,
	})
	if err != nil {
		return nil, fmt.Errorf("buffer: failed to create shape: %w", err)
	}

	e.logger.Info("Buffer created", "target", target.Title(), "meters", meters, "id", created.ID)
	return &Result{Outcome: OutcomeApplied, Created: []*models.Feature{created}}, nil
}
