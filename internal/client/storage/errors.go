package storage

import "errors"

var (
	// ErrDumpNotFound нет дампа с запрошенным timestamp
	ErrDumpNotFound = errors.New("dump not found")

	// ErrClosed файл дампов уже закрыт
	ErrClosed = errors.New("dump file closed")
)
