// Package geoedit implements cut, expand, crop and buffer edits over cached
// features. Every edit runs Resolve, Normalize, Apply, Classify and Commit:
// the first resulting piece replaces the target geometry, every further piece
// becomes a new feature with the next free ":N" title suffix.
package geoedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twpayne/go-geos"

	"github.com/iudanet/topokeeper/internal/client/edit"
	"github.com/iudanet/topokeeper/internal/geometry"
	"github.com/iudanet/topokeeper/internal/models"
)

// Resolver находит объект по id или заголовку
type Resolver interface {
	Resolve(ctx context.Context, ref string, class models.Class) (*models.Feature, error)
}

// Editor отправляет правки
type Editor interface {
	Submit(ctx context.Context, e edit.Edit) (*models.Feature, error)
	Delete(ctx context.Context, class models.Class, id string) error
}

// Titles возвращает заголовки всех закэшированных объектов
type Titles interface {
	Titles() []string
}

// Operand операнд правки: уже полученный объект или ссылка (id или заголовок)
type Operand struct {
	Feature *models.Feature
	Ref     string
}

// ByRef создает операнд по id или заголовку
func ByRef(ref string) Operand { return Operand{Ref: ref} }

// ByFeature создает операнд из уже полученного объекта
func ByFeature(f *models.Feature) Operand { return Operand{Feature: f} }

// Outcome итог геометрической правки
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeNoIntersection
	OutcomeUnsupported
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoIntersection:
		return "no intersection"
	default:
		return "unsupported"
	}
}

// Result итог правки. Edited измененный целевой объект, Created новые части.
type Result struct {
	Edited  *models.Feature
	Deleted *edit.Ref
	Reason  string
	Created []*models.Feature
	Outcome Outcome
}

// Options настройки правки
type Options struct {
	DeleteOperand bool // удалить режущий/граничный объект после правки
}

type op int

const (
	opCut op = iota
	opExpand
	opCrop
)

func (o op) String() string {
	return [...]string{"cut", "expand", "crop"}[o]
}

// Engine выполняет геометрические правки
type Engine struct {
	resolver Resolver
	editor   Editor
	titles   Titles
	logger   *slog.Logger
}

// NewEngine creates a new geometry editing engine
func NewEngine(resolver Resolver, editor Editor, titles Titles, logger *slog.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		editor:   editor,
		titles:   titles,
		logger:   logger,
	}
}

// Cut вычитает cutter из target; линия разрезает полигон вдоль себя
func (e *Engine) Cut(ctx context.Context, target, cutter Operand, opts Options) (*Result, error) {
	return e.run(ctx, opCut, target, cutter, opts)
}

// Expand объединяет target с operand
func (e *Engine) Expand(ctx context.Context, target, operand Operand, opts Options) (*Result, error) {
	return e.run(ctx, opExpand, target, operand, opts)
}

// Crop оставляет часть target внутри boundary
func (e *Engine) Crop(ctx context.Context, target, boundary Operand, opts Options) (*Result, error) {
	return e.run(ctx, opCrop, target, boundary, opts)
}

func (e *Engine) run(ctx context.Context, kind op, targetOp, operandOp Operand, opts Options) (*Result, error) {
	// Resolve: любая неудача прерывает правку до изменений
	target, err := e.resolve(ctx, targetOp)
	if err != nil {
		return nil, fmt.Errorf("%s: target: %w", kind, err)
	}
	operand, err := e.resolve(ctx, operandOp)
	if err != nil {
		return nil, fmt.Errorf("%s: operand: %w", kind, err)
	}
	if target.ID == operand.ID && target.Class == operand.Class {
		return unsupported("target and operand are the same feature"), nil
	}

	if reason, ok := checkOperand(target); !ok {
		return unsupported("target " + reason), nil
	}
	if reason, ok := checkOperand(operand); !ok {
		return unsupported("operand " + reason), nil
	}
	family := geometry.FamilyOf(target.Geometry)

	// Normalize
	tg, err := geometry.ToGEOS(target.Geometry)
	if err != nil {
		return unsupported(fmt.Sprintf("target %s: %v", target.ID, err)), nil
	}
	og, err := geometry.ToGEOS(operand.Geometry)
	if err != nil {
		return unsupported(fmt.Sprintf("operand %s: %v", operand.ID, err)), nil
	}

	intersects, err := geometry.Safe(func() bool { return tg.Intersects(og) })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if !intersects {
		e.logger.Info("Operands do not intersect, nothing to do",
			"op", kind.String(), "target", target.Title(), "operand", operand.Title())
		return &Result{Outcome: OutcomeNoIntersection, Reason: "operands do not intersect"}, nil
	}

	// Apply + Classify
	pieces, result := e.apply(kind, target, operand, tg, og, family)
	if result != nil {
		return result, nil
	}

	// Commit
	res, err := e.commit(ctx, target, pieces)
	if err != nil {
		return res, fmt.Errorf("%s: %w", kind, err)
	}
	if opts.DeleteOperand {
		if err := e.editor.Delete(ctx, operand.Class, operand.ID); err != nil {
			return res, fmt.Errorf("%s: delete operand: %w", kind, err)
		}
		res.Deleted = &edit.Ref{Class: operand.Class, ID: operand.ID}
	}

	e.logger.Info("Geometry edit applied",
		"op", kind.String(),
		"target", target.Title(),
		"operand", operand.Title(),
		"created", len(res.Created),
		"operand_deleted", res.Deleted != nil)
	return res, nil
}

// apply выполняет операцию и раскладывает результат на части.
// Непустой *Result означает, что правку применять не нужно.
func (e *Engine) apply(kind op, target, operand *models.Feature, tg, og *geos.Geom, family geometry.Family) ([]models.Geometry, *Result) {
	operandFamily := geometry.FamilyOf(operand.Geometry)

	var (
		out *geos.Geom
		err error
	)
	switch kind {
	case opCut:
		out, err = geometry.Difference(tg, og)
	case opExpand:
		if operandFamily != family {
			return nil, unsupported(fmt.Sprintf("cannot expand a %s with a %s", family, operandFamily))
		}
		out, err = geometry.Safe(func() *geos.Geom { return tg.Union(og) })
	case opCrop:
		if operandFamily != geometry.FamilyPolygon {
			return nil, unsupported("crop boundary must be a polygon")
		}
		if line, ok := target.Geometry.(models.LineString); ok {
			// пересечение GEOS теряет участки самопересекающихся линий
			split, err := geometry.SplitLineByBoundary(line.Coords, og)
			if err != nil {
				return nil, unsupported(err.Error())
			}
			return splitPieces(split)
		}
		out, err = geometry.Safe(func() *geos.Geom { return tg.Intersection(og) })
	}
	if err != nil {
		return nil, unsupported(err.Error())
	}

	pieces, err := geometry.Pieces(out, family)
	switch {
	case errors.Is(err, geometry.ErrLowerDimension):
		// операнды только касаются: в результате нет ни одной части цели
		e.logger.Debug("Edit result has no target pieces", "op", kind.String(), "target", target.ID, "error", err)
		pieces = nil
	case err != nil:
		e.logger.Warn("Edit result cannot be classified", "op", kind.String(), "target", target.ID, "error", err)
		return nil, unsupported(err.Error())
	}
	if len(pieces) == 0 {
		if kind == opCut {
			return nil, unsupported("cut would remove the whole target")
		}
		return nil, &Result{Outcome: OutcomeNoIntersection, Reason: fmt.Sprintf("result has no %s", family)}
	}
	return pieces, nil
}

func splitPieces(g models.Geometry) ([]models.Geometry, *Result) {
	switch geom := g.(type) {
	case nil:
		return nil, &Result{Outcome: OutcomeNoIntersection, Reason: "line does not enter the boundary"}
	case models.LineString:
		return []models.Geometry{geom}, nil
	case models.MultiLineString:
		out := make([]models.Geometry, 0, len(geom.Lines))
		for _, l := range geom.Lines {
			out = append(out, models.LineString{Coords: l})
		}
		return out, nil
	default:
		return nil, unsupported(fmt.Sprintf("unexpected split result %s", g.Type()))
	}
}

// commit заменяет геометрию цели первой частью и создает объекты для остальных
func (e *Engine) commit(ctx context.Context, target *models.Feature, pieces []models.Geometry) (*Result, error) {
	res := &Result{Outcome: OutcomeApplied}

	edited, err := e.editor.Submit(ctx, edit.Edit{
		Kind:     edit.KindUpdate,
		Class:    target.Class,
		ID:       target.ID,
		Geometry: pieces[0],
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", target.ID, err)
	}
	res.Edited = edited

	extra := pieces[1:]
	if len(extra) == 0 {
		return res, nil
	}

	base := BaseTitle(target.Title())
	suffixes := NextSuffixes(base, e.titles.Titles(), len(extra))
	for i, piece := range extra {
		props := inheritProperties(target, base, suffixes[i])
		created, err := e.editor.Submit(ctx, edit.Edit{
			Kind:       edit.KindCreate,
			Class:      target.Class,
			Properties: props,
			Geometry:   piece,
		})
		if err != nil {
			return res, fmt.Errorf("failed to create piece %d of %s: %w", i+2, target.ID, err)
		}
		res.Created = append(res.Created, created)
	}
	return res, nil
}

// inheritProperties копирует оформление, описание и папку цели и назначает новый заголовок
func inheritProperties(target *models.Feature, base string, suffix int) models.Properties {
	props := target.Properties.Clone()
	if props == nil {
		props = models.Properties{}
	}
	delete(props, models.PropUpdated)
	props[models.PropTitle] = WithSuffix(base, suffix)

	// у заданий заголовок выводится из буквы и номера, суффикс переносится в номер
	if target.Class == models.ClassAssignment {
		props[models.PropNumber] = WithSuffix(BaseTitle(props.Number()), suffix)
	}
	return props
}

func (e *Engine) resolve(ctx context.Context, o Operand) (*models.Feature, error) {
	if o.Feature != nil {
		return o.Feature, nil
	}
	if o.Ref == "" {
		return nil, errors.New("empty feature reference")
	}
	return e.resolver.Resolve(ctx, o.Ref, "")
}

// checkOperand допускает только полигоны и линии
func checkOperand(f *models.Feature) (string, bool) {
	switch f.Class {
	case models.ClassFolder, models.ClassOperationalPeriod, models.ClassMarker:
		return fmt.Sprintf("%s %q has class %s", f.ID, f.Title(), f.Class), false
	}
	switch f.Geometry.(type) {
	case models.Polygon, models.LineString:
		return "", true
	case nil:
		return fmt.Sprintf("%s %q has no geometry", f.ID, f.Title()), false
	default:
		return fmt.Sprintf("%s %q has %s geometry", f.ID, f.Title(), f.Geometry.Type()), false
	}
}

func unsupported(reason string) *Result {
	return &Result{Outcome: OutcomeUnsupported, Reason: reason}
}
