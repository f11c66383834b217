package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/topokeeper/internal/crypto"
)

// FormFieldJSON поле формы POST с телом объекта, входит в подписываемые данные
const FormFieldJSON = "json"

// contextKey тип для ключей контекста
type contextKey string

// AccountKey ключ для хранения id аккаунта в контексте
const AccountKey contextKey = "account_id"

// WithAccount добавляет id аккаунта в контекст
func WithAccount(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, AccountKey, id)
}

// AccountFromContext извлекает id аккаунта из контекста запроса
func AccountFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountKey).(string)
	return id, ok && id != ""
}

// KeyStore возвращает ключ подписи аккаунта по его id
type KeyStore interface {
	Key(id string) ([]byte, bool)
}

// SignatureMiddleware создает middleware для проверки подписи запроса.
// Параметры id, expires и signature берутся из формы (POST) или из query.
// Подписывается "METHOD path\nexpires\nbody", где body это поле формы json.
func SignatureMiddleware(logger *slog.Logger, keys KeyStore, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, body, err := signedParams(r)
			if err != nil {
				logger.Warn("Failed to parse signed request", "error", err)
				writeError(w, http.StatusBadRequest, "invalid request form")
				return
			}

			id := params.Get(crypto.ParamID)
			if id == "" {
				writeError(w, http.StatusUnauthorized, "missing signature")
				return
			}

			key, ok := keys.Key(id)
			if !ok {
				logger.Warn("Unknown account", "account_id", id)
				writeError(w, http.StatusUnauthorized, "unknown account")
				return
			}

			expires, err := crypto.ParseExpires(params.Get(crypto.ParamExpires))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid expires")
				return
			}

			err = crypto.Verify(key, r.Method, r.URL.EscapedPath(), expires, body, params.Get(crypto.ParamSignature), now())
			if err != nil {
				logger.Warn("Invalid signature", "account_id", id, "path", r.URL.Path, "error", err)
				message := "invalid signature"
				if errors.Is(err, crypto.ErrExpired) {
					message = "signature expired"
				}
				writeError(w, http.StatusUnauthorized, message)
				return
			}

			logger.Debug("Request signature verified", "account_id", id)

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), id)))
		})
	}
}

// signedParams возвращает параметры подписи и подписанное тело запроса
func signedParams(r *http.Request) (url.Values, []byte, error) {
	if r.Method != http.MethodPost {
		return r.URL.Query(), nil, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	return r.PostForm, []byte(r.PostForm.Get(FormFieldJSON)), nil
}
