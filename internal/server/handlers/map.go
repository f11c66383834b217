package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/topokeeper/internal/clock"
	"github.com/iudanet/topokeeper/internal/server/storage"
	"github.com/iudanet/topokeeper/internal/validation"
	"github.com/iudanet/topokeeper/pkg/api"
)

//go:generate moq -out mapstorage_mock.go . MapStorage

// FormFieldJSON поле формы с телом объекта
const FormFieldJSON = "json"

var errBadFeature = errors.New("invalid feature")

// MapStorage определяет интерфейс для работы с объектами карты
type MapStorage interface {
	SaveFeature(ctx context.Context, rec *storage.FeatureRecord) error
	GetFeature(ctx context.Context, mapID, id string) (*storage.FeatureRecord, error)
	FeaturesSince(ctx context.Context, mapID string, since int64) ([]*storage.FeatureRecord, error)
	MembershipChangedSince(ctx context.Context, mapID string, since int64) (bool, error)
	FeatureIDs(ctx context.Context, mapID string) (map[string][]string, error)
	DeleteFeature(ctx context.Context, mapID, class, id string, timestamp int64) error
}

// MapHandler обрабатывает запросы к объектам карты
type MapHandler struct {
	logger  *slog.Logger
	storage MapStorage
	clock   *clock.Clock
	newID   func() string
	// mu сериализует read-modify-write изменений
	mu sync.Mutex
}

// NewMapHandler создает новый handler карты
func NewMapHandler(logger *slog.Logger, storage MapStorage, clk *clock.Clock) *MapHandler {
	return &MapHandler{
		logger:  logger,
		storage: storage,
		clock:   clk,
		newID:   uuid.NewString,
	}
}

// Register регистрирует маршруты карты. edit оборачивает изменяющие маршруты
// (например, rate limit), может быть nil.
func (h *MapHandler) Register(mux *http.ServeMux, edit func(http.Handler) http.Handler) {
	if edit == nil {
		edit = func(next http.Handler) http.Handler { return next }
	}
	mux.HandleFunc("GET /api/v1/map/{mapID}/since/{ts}", h.Since)
	mux.Handle("POST /api/v1/map/{mapID}/{class}", edit(http.HandlerFunc(h.Edit)))
	mux.Handle("POST /api/v1/map/{mapID}/{class}/{id}", edit(http.HandlerFunc(h.Edit)))
	mux.Handle("DELETE /api/v1/map/{mapID}/{class}/{id}", edit(http.HandlerFunc(h.Delete)))
}

// Since обрабатывает GET /api/v1/map/{mapID}/since/{ts}
// Возвращает объекты, измененные после ts, и индекс ids, если состав карты менялся
func (h *MapHandler) Since(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mapID := r.PathValue("mapID")
	if err := validation.ValidateMapID(mapID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	since, err := strconv.ParseInt(r.PathValue("ts"), 10, 64)
	if err != nil || since < 0 {
		h.logger.Warn("Invalid since parameter", "ts", r.PathValue("ts"))
		writeError(w, http.StatusBadRequest, "invalid since timestamp")
		return
	}

	// Время ответа фиксируется до чтения: все записи с большим timestamp попадут
	// в следующий запрос
	now := h.clock.Now()

	records, err := h.storage.FeaturesSince(ctx, mapID, since)
	if err != nil {
		h.internalError(w, "Failed to get features", err, mapID)
		return
	}

	result := api.SinceResult{
		Timestamp: now,
		State:     api.State{Features: make([]api.Feature, 0, len(records))},
	}
	for _, rec := range records {
		wf, err := recordToWire(rec)
		if err != nil {
			h.internalError(w, "Failed to decode feature", err, mapID)
			return
		}
		result.State.Features = append(result.State.Features, wf)
	}

	changed := since == 0
	if !changed {
		changed, err = h.storage.MembershipChangedSince(ctx, mapID, since)
		if err != nil {
			h.internalError(w, "Failed to check map membership", err, mapID)
			return
		}
	}
	if changed {
		result.IDs, err = h.storage.FeatureIDs(ctx, mapID)
		if err != nil {
			h.internalError(w, "Failed to get feature ids", err, mapID)
			return
		}
	}

	writeJSON(w, h.logger, http.StatusOK, api.SinceResponse{
		Status:    api.StatusOK,
		Timestamp: now,
		Result:    result,
	})

	h.logger.Debug("Since request completed",
		"map", mapID,
		"since", since,
		"features_count", len(result.State.Features),
		"ids_sent", changed)
}

// Edit обрабатывает POST /api/v1/map/{mapID}/{class}[/{id}]
// Без id создает объект, с id изменяет существующий
func (h *MapHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mapID, class, ok := h.target(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var wf api.Feature
	if err := json.Unmarshal([]byte(r.PostFormValue(FormFieldJSON)), &wf); err != nil {
		h.logger.Warn("Failed to decode feature", "map", mapID, "error", err)
		writeError(w, http.StatusBadRequest, "invalid feature json")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ts := h.clock.Tick()

	var rec *storage.FeatureRecord
	if id == "" {
		rec = &storage.FeatureRecord{
			MapID:     mapID,
			ID:        h.newID(),
			Class:     class,
			CreatedAt: ts,
		}
	} else {
		var err error
		rec, err = h.storage.GetFeature(ctx, mapID, id)
		if errors.Is(err, storage.ErrFeatureNotFound) || (err == nil && rec.Class != class) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", class, id))
			return
		}
		if err != nil {
			h.internalError(w, "Failed to get feature", err, mapID)
			return
		}
	}

	if err := applyEdit(rec, wf, ts); err != nil {
		if errors.Is(err, errBadFeature) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, "Failed to apply edit", err, mapID)
		return
	}

	if err := h.storage.SaveFeature(ctx, rec); err != nil {
		h.internalError(w, "Failed to save feature", err, mapID)
		return
	}

	echo, err := recordToWire(rec)
	if err != nil {
		h.internalError(w, "Failed to encode feature", err, mapID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.EditResponse{Status: api.StatusOK, Result: &echo})

	h.logger.Info("Feature saved",
		"map", mapID,
		"class", class,
		"id", rec.ID,
		"created", id == "",
		"timestamp", ts)
}

// Delete обрабатывает DELETE /api/v1/map/{mapID}/{class}/{id}
func (h *MapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mapID, class, ok := h.target(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	ts := h.clock.Tick()
	err := h.storage.DeleteFeature(r.Context(), mapID, class, id, ts)
	if errors.Is(err, storage.ErrFeatureNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", class, id))
		return
	}
	if err != nil {
		h.internalError(w, "Failed to delete feature", err, mapID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.StatusResponse{Status: api.StatusOK})

	h.logger.Info("Feature deleted", "map", mapID, "class", class, "id", id, "timestamp", ts)
}

// target извлекает и проверяет map id и класс из пути
func (h *MapHandler) target(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	mapID := r.PathValue("mapID")
	if err := validation.ValidateMapID(mapID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	class := r.PathValue("class")
	if err := validation.ValidateClass(class); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	return mapID, class, true
}

func (h *MapHandler) internalError(w http.ResponseWriter, msg string, err error, mapID string) {
	h.logger.Error(msg, "map", mapID, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
