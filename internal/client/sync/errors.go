package sync

import "errors"

var (
	// ErrTransport означает, что запрос дельты к серверу не удался.
	// Автоматическая синхронизация отключается до следующего Start.
	ErrTransport = errors.New("sync transport failure")

	// ErrCallback означает, что пользовательский callback запаниковал во время слияния
	ErrCallback = errors.New("sync callback failed")

	// ErrGateBusy означает, что write gate не удалось захватить за отведенное время
	ErrGateBusy = errors.New("sync gate busy")
)
