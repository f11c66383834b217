package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/topokeeper/pkg/api"
)

// writeError пишет JSON ответ с ошибкой в формате API
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Status: api.StatusError, Message: message})
}
