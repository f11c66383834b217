package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/topokeeper/internal/models"
)

var (
	// ErrNotFound означает, что ни один объект не подходит под фильтр
	ErrNotFound = errors.New("feature not found")

	// ErrAmbiguous означает, что под фильтр подходит больше одного объекта
	ErrAmbiguous = errors.New("feature reference is ambiguous")

	// ErrMissingDiscriminator означает, что в фильтре не задан ни id, ни класс, ни заголовок, ни буква
	ErrMissingDiscriminator = errors.New("filter needs an id, class, title or letter")
)

// AmbiguousError содержит все объекты, подошедшие под фильтр
type AmbiguousError struct {
	Filter  Filter
	Matches []*models.Feature
}

func (e *AmbiguousError) Error() string {
	refs := make([]string, 0, len(e.Matches))
	for _, f := range e.Matches {
		refs = append(refs, fmt.Sprintf("%s %q (%s)", f.Class, f.Title(), f.ID))
	}
	return fmt.Sprintf("%s: %s matches %d features: %s",
		ErrAmbiguous, e.Filter, len(e.Matches), strings.Join(refs, ", "))
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}
