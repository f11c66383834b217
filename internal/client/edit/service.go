// Package edit turns logical create, update and delete requests into server
// submissions and keeps the local mirror updated from the server echo.
package edit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

//go:generate moq -out transport_mock.go . Transport
//go:generate moq -out gate_mock.go . Gate

// Transport определяет операции отправки правок на сервер
type Transport interface {
	// SubmitEdit создает (id пустой) или обновляет объект и возвращает его серверную версию
	SubmitEdit(ctx context.Context, class models.Class, id string, f *models.Feature) (*models.Feature, error)

	// SubmitDelete удаляет объект на сервере
	SubmitDelete(ctx context.Context, class models.Class, id string) error
}

// Gate исключает одновременную отправку правки и слияние дельты
type Gate interface {
	BeginEdit(ctx context.Context) (release func(), err error)
}

// Mirror зеркало, которое обновляется серверным ответом
type Mirror interface {
	Get(id string) (*models.Feature, bool)
	Update(fn func(tx *store.Tx) error) error
}

// DefaultParallelism число одновременных запросов удаления
const DefaultParallelism = 4

// Kind вид правки
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
)

func (k Kind) String() string {
	if k == KindUpdate {
		return "update"
	}
	return "create"
}

// Edit логическая правка объекта.
// При обновлении Properties сливаются поверх закэшированных, а nil Geometry
// оставляет закэшированную геометрию.
type Edit struct {
	Properties models.Properties
	Geometry   models.Geometry
	ID         string
	Class      models.Class
	Kind       Kind
}

// Ref ссылка на объект для удаления
type Ref struct {
	ID    string
	Class models.Class
}

// Service отправляет правки
type Service struct {
	transport   Transport
	gate        Gate
	mirror      Mirror
	logger      *slog.Logger
	parallelism int
}

// NewService creates a new edit service
func NewService(transport Transport, gate Gate, mirror Mirror, logger *slog.Logger, parallelism int) *Service {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &Service{
		transport:   transport,
		gate:        gate,
		mirror:      mirror,
		logger:      logger,
		parallelism: parallelism,
	}
}

func (e Edit) validate() error {
	if e.Class == "" {
		return fmt.Errorf("%w: class is required", ErrInvalidEdit)
	}
	switch e.Kind {
	case KindCreate:
		if e.ID != "" {
			return fmt.Errorf("%w: create must not carry an id", ErrInvalidEdit)
		}
	case KindUpdate:
		if e.ID == "" {
			return fmt.Errorf("%w: update requires an id", ErrInvalidEdit)
		}
		if e.Properties == nil && e.Geometry == nil {
			return fmt.Errorf("%w: update of %s changes nothing", ErrInvalidEdit, e.ID)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidEdit, e.Kind)
	}
	return nil
}

// Submit отправляет правку и при успехе сразу кладет серверную версию объекта в зеркало.
// На время отправки фоновая синхронизация приостанавливается.
// При ошибке зеркало не меняется.
func (s *Service) Submit(ctx context.Context, e Edit) (*models.Feature, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	release, err := s.gate.BeginEdit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to pause sync for edit: %w", err)
	}
	defer release()

	payload, cached, err := s.payload(e)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Submitting edit", "kind", e.Kind.String(), "class", e.Class, "id", e.ID)

	echo, err := s.transport.SubmitEdit(ctx, e.Class, e.ID, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s of %s %s: %w", e.Kind, e.Class, e.ID, err)
	}
	if echo == nil || echo.ID == "" {
		return nil, fmt.Errorf("%s of %s %s: %w", e.Kind, e.Class, e.ID, ErrEmptyEcho)
	}

	committed := echo.Clone()
	if committed.Class == "" {
		committed.Class = e.Class
	}
	committed.Geometry = resolveEchoGeometry(cached, payload, committed.Geometry)
	if committed.Properties == nil {
		committed.Properties = payload.Properties.Clone()
	}

	if err := s.mirror.Update(func(tx *store.Tx) error {
		tx.Put(committed)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to store committed feature %s: %w", committed.ID, err)
	}

	s.logger.Info("Edit committed", "kind", e.Kind.String(), "class", committed.Class, "id", committed.ID, "title", committed.Title())
	return committed.Clone(), nil
}

// payload собирает объект для отправки, сливая правку с закэшированной версией
func (s *Service) payload(e Edit) (payload, cached *models.Feature, err error) {
	payload = &models.Feature{ID: e.ID, Class: e.Class}

	if e.Kind == KindUpdate {
		var ok bool
		cached, ok = s.mirror.Get(e.ID)
		if !ok || cached.Class != e.Class {
			return nil, nil, fmt.Errorf("%w: %s %s", ErrNotCached, e.Class, e.ID)
		}
		payload.Properties = cached.Properties.Merge(e.Properties)
		payload.Geometry = cached.Geometry
		if e.Geometry != nil {
			payload.Geometry = e.Geometry.Clone()
		}
	} else {
		payload.Properties = models.Properties{}.Merge(e.Properties)
		if e.Geometry != nil {
			payload.Geometry = e.Geometry.Clone()
		}
	}

	payload.Properties[models.PropClass] = string(e.Class)
	if e.Class == models.ClassAssignment {
		letter, number := payload.Properties.Letter(), payload.Properties.Number()
		if letter != "" || number != "" {
			payload.Properties[models.PropTitle] = models.AssignmentTitle(letter, number)
		}
	}
	return payload, cached, nil
}

// resolveEchoGeometry возвращает геометрию, которую нужно положить в зеркало.
// Если сервер вернул только дописанные точки трека, они добавляются к закэшированной линии.
func resolveEchoGeometry(cached, payload *models.Feature, echo models.Geometry) models.Geometry {
	if echo == nil {
		if payload.Geometry == nil {
			return nil
		}
		echo = payload.Geometry.Clone()
	}
	line, ok := echo.(models.LineString)
	if !ok || !line.Incremental {
		return echo
	}
	if cached != nil {
		if cachedLine, ok := cached.Geometry.(models.LineString); ok {
			merged, _ := cachedLine.AppendNewer(line.Coords)
			return merged
		}
	}
	line.Incremental = false
	return line
}

// Delete удаляет объект на сервере.
// Зеркало не меняется: объект исчезнет при следующем слиянии индекса.
func (s *Service) Delete(ctx context.Context, class models.Class, id string) error {
	if class == "" || id == "" {
		return fmt.Errorf("%w: delete requires class and id", ErrInvalidEdit)
	}

	release, err := s.gate.BeginEdit(ctx)
	if err != nil {
		return fmt.Errorf("failed to pause sync for delete: %w", err)
	}
	defer release()

	if err := s.transport.SubmitDelete(ctx, class, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", class, id, err)
	}
	s.logger.Info("Feature deleted", "class", class, "id", id)
	return nil
}

// DeleteMany удаляет объекты параллельно (не более parallelism запросов одновременно).
// Ошибка одного удаления не отменяет остальные, все ошибки возвращаются вместе.
func (s *Service) DeleteMany(ctx context.Context, refs []Ref) error {
	for _, ref := range refs {
		if ref.Class == "" || ref.ID == "" {
			return fmt.Errorf("%w: delete requires class and id", ErrInvalidEdit)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	release, err := s.gate.BeginEdit(ctx)
	if err != nil {
		return fmt.Errorf("failed to pause sync for delete: %w", err)
	}
	defer release()

	errs := make([]error, len(refs))
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, ref := range refs {
		g.Go(func() error {
			if err := s.transport.SubmitDelete(ctx, ref.Class, ref.ID); err != nil {
				errs[i] = fmt.Errorf("failed to delete %s %s: %w", ref.Class, ref.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	err = errors.Join(errs...)
	s.logger.Info("Batch delete finished", "count", len(refs), "failed", err != nil)
	return err
}
