package api

// Значения поля status ответа сервера
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// SinceResponse представляет ответ на GET /api/v1/map/{mapID}/since/{timestamp}
type SinceResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Result    SinceResult `json:"result"`
	Timestamp int64       `json:"timestamp"` // серверное время ответа в миллисекундах
}

// SinceResult содержит изменения карты с указанного timestamp
type SinceResult struct {
	// IDs полный индекс class -> ids. Присутствует только если что-то было
	// добавлено или удалено, иначе nil.
	IDs       map[string][]string `json:"ids"`
	State     State               `json:"state"`
	Timestamp int64               `json:"timestamp"`
}

// State содержит изменённые или новые объекты
type State struct {
	Features []Feature `json:"features"`
}

// EditResponse представляет ответ на POST создания/изменения объекта
type EditResponse struct {
	Result  *Feature `json:"result,omitempty"`
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
}

// StatusResponse представляет ответ без данных (DELETE, health)
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Status  string `json:"status"`            // всегда не "ok"
	Message string `json:"message,omitempty"` // описание ошибки
}
