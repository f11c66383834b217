package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		db          Pinger
		name        string
		version     string
		wantStatus  string
		wantVersion string
		wantCode    int
	}{
		{
			name:        "without database",
			wantCode:    http.StatusOK,
			wantStatus:  "ok",
			wantVersion: "dev",
		},
		{
			name:        "database is up",
			db:          pingerFunc(func(context.Context) error { return nil }),
			version:     "1.2.3",
			wantCode:    http.StatusOK,
			wantStatus:  "ok",
			wantVersion: "1.2.3",
		},
		{
			name:        "database is down",
			db:          pingerFunc(func(context.Context) error { return errors.New("closed") }),
			version:     "1.2.3",
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  "unavailable",
			wantVersion: "1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), tt.db, tt.version)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			resp := w.Result()
			defer func() {
				err := resp.Body.Close()
				assert.NoError(t, err)
			}()

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var healthResp HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&healthResp))
			assert.Equal(t, tt.wantStatus, healthResp.Status)
			assert.Equal(t, tt.wantVersion, healthResp.Version)
		})
	}
}
