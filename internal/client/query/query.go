// Package query implements read-only filtered lookups into the feature store.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/topokeeper/internal/models"
)

//go:generate moq -out refresher_mock.go . Refresher

// Refresher обновляет зеркало перед чтением
type Refresher interface {
	Refresh(ctx context.Context, force bool) error
}

// Source предоставляет копии объектов зеркала
type Source interface {
	Find(pred func(*models.Feature) bool) []*models.Feature
}

// Filter описывает выборку объектов.
// Id имеет приоритет: если он задан, остальные условия не проверяются,
// и неизвестный id дает пустой результат.
type Filter struct {
	ID             string
	Class          models.Class
	Title          string
	Letter         string // только первое слово заголовка задания (Assignment)
	ExcludeClasses []models.Class
	AllowMultiple  bool // разрешить несколько совпадений по заголовку
	Fresh          bool // принудительная синхронизация перед чтением
}

func (f Filter) String() string {
	var parts []string
	if f.ID != "" {
		parts = append(parts, "id="+f.ID)
	}
	if f.Class != "" {
		parts = append(parts, "class="+string(f.Class))
	}
	if f.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", f.Title))
	}
	if f.Letter != "" {
		parts = append(parts, "letter="+f.Letter)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (f Filter) validate() error {
	if f.ID == "" && f.Class == "" && f.Title == "" && f.Letter == "" {
		return ErrMissingDiscriminator
	}
	return nil
}

// byTitle выборка по заголовку, где несколько совпадений считаются неоднозначностью
func (f Filter) byTitle() bool {
	return f.Title != "" || f.Letter != ""
}

// Service выполняет выборки по зеркалу
type Service struct {
	refresher Refresher
	source    Source
	logger    *slog.Logger
}

// NewService creates a new query service
func NewService(refresher Refresher, source Source, logger *slog.Logger) *Service {
	return &Service{
		refresher: refresher,
		source:    source,
		logger:    logger,
	}
}

// GetFeatures возвращает объекты, подходящие под фильтр.
// Несколько совпадений по заголовку возвращаются только при AllowMultiple,
// иначе результат пуст, а совпадения пишутся в лог.
func (s *Service) GetFeatures(ctx context.Context, filter Filter) ([]*models.Feature, error) {
	matches, err := s.lookup(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(matches) > 1 && filter.byTitle() && !filter.AllowMultiple {
		s.logger.Warn("Ambiguous feature lookup, nothing returned",
			"filter", filter.String(),
			"matches", describe(matches))
		return nil, nil
	}
	return matches, nil
}

// GetFeature возвращает единственный объект, подходящий под фильтр.
// Возвращает ErrNotFound или *AmbiguousError.
func (s *Service) GetFeature(ctx context.Context, filter Filter) (*models.Feature, error) {
	matches, err := s.lookup(ctx, filter)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filter)
	case 1:
		return matches[0], nil
	default:
		s.logger.Warn("Ambiguous feature lookup",
			"filter", filter.String(),
			"matches", describe(matches))
		return nil, &AmbiguousError{Filter: filter, Matches: matches}
	}
}

// Resolve находит объект по строке, которая может быть id или заголовком
func (s *Service) Resolve(ctx context.Context, ref string, class models.Class) (*models.Feature, error) {
	if IsID(ref) {
		return s.GetFeature(ctx, Filter{ID: ref})
	}
	return s.GetFeature(ctx, Filter{Title: ref, Class: class})
}

// IsID сообщает, похожа ли строка на серверный идентификатор
func IsID(ref string) bool {
	if len(ref) != models.IDLength {
		return false
	}
	_, err := uuid.Parse(ref)
	return err == nil
}

func (s *Service) lookup(ctx context.Context, filter Filter) ([]*models.Feature, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	if err := s.refresher.Refresh(ctx, filter.Fresh); err != nil {
		return nil, fmt.Errorf("failed to refresh before lookup: %w", err)
	}

	if filter.ID != "" {
		// id задан: остальные условия не рассматриваются, промах дает пустой результат
		return s.source.Find(func(f *models.Feature) bool { return f.ID == filter.ID }), nil
	}

	return s.source.Find(filter.match), nil
}

func (f Filter) match(feature *models.Feature) bool {
	if f.Class != "" && feature.Class != f.Class {
		return false
	}
	if slices.Contains(f.ExcludeClasses, feature.Class) {
		return false
	}
	if f.Letter != "" {
		if feature.Class != models.ClassAssignment {
			return false
		}
		fields := strings.Fields(feature.Title())
		if len(fields) == 0 || fields[0] != f.Letter {
			return false
		}
	}
	if f.Title != "" && feature.Title() != f.Title {
		return false
	}
	return true
}

func describe(features []*models.Feature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, fmt.Sprintf("%s:%s:%q", f.Class, f.ID, f.Title()))
	}
	return out
}
