package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/topokeeper/pkg/api"
)

const (
	healthUnavailable = "unavailable"
	pingTimeout       = 2 * time.Second
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse тело ответа GET /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// HealthHandler отвечает на health check, без подписи и без лога запросов
type HealthHandler struct {
	logger  *slog.Logger
	db      Pinger
	version string
}

// NewHealthHandler db может быть nil, тогда хранилище не проверяется
func NewHealthHandler(logger *slog.Logger, db Pinger, version string) *HealthHandler {
	if version == "" {
		version = "dev"
	}
	return &HealthHandler{logger: logger, db: db, version: version}
}

// Health отвечает 200, либо 503 если база не ответила за pingTimeout
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error("Database is unavailable", slog.Any("error", err))
			writeJSON(w, h.logger, http.StatusServiceUnavailable,
				HealthResponse{Status: healthUnavailable, Version: h.version})
			return
		}
	}
	writeJSON(w, h.logger, http.StatusOK, HealthResponse{Status: api.StatusOK, Version: h.version})
}
