package api

import (
	"errors"
	"fmt"
)

// ErrRequest означает, что запрос не дошел до сервера или ответ не удалось прочитать
var ErrRequest = errors.New("map api request failed")

// ServerError ошибка, о которой сообщил сервер (HTTP статус или status != "ok")
type ServerError struct {
	Status     string
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d): status %q", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}
