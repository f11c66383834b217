package edit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEdit означает, что правка сформирована неверно (ошибка вызывающего кода)
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrNotCached означает, что редактируемого объекта нет в зеркале
	ErrNotCached = errors.New("feature is not cached")

	// ErrEmptyEcho означает, что сервер не вернул сохраненный объект
	ErrEmptyEcho = errors.New("server returned no feature")
)

func errTooFewPoints(n int) error {
	return fmt.Errorf("%w: geometry needs at least %d points", ErrInvalidEdit, n)
}
