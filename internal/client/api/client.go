// Package api implements the HTTP transport to the map server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/topokeeper/internal/crypto"
	"github.com/iudanet/topokeeper/internal/models"
	"github.com/iudanet/topokeeper/pkg/api"
)

// DefaultTimeout таймаут одного запроса
const DefaultTimeout = 10 * time.Second

// FormFieldJSON поле формы с телом объекта
const FormFieldJSON = "json"

// Client представляет HTTP клиент для взаимодействия с сервером карты
type Client struct {
	httpClient *http.Client
	signer     *crypto.Signer
	logger     *slog.Logger
	baseURL    string
	mapID      string
}

// Option настройка клиента
type Option func(*Client)

// WithTimeout задает таймаут запросов
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithSigner включает подпись запросов ключом аккаунта
func WithSigner(s *crypto.Signer) Option {
	return func(c *Client) { c.signer = s }
}

// WithHTTPClient заменяет http.Client (используется в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient создает новый API клиент для карты mapID
func NewClient(baseURL, mapID string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		mapID:   mapID,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MapPath возвращает путь API карты с заданными сегментами
func MapPath(mapID string, segments ...string) string {
	var b strings.Builder
	b.WriteString("/api/v1/map/")
	b.WriteString(url.PathEscape(mapID))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// FetchSince получает изменения карты начиная с since (мс)
func (c *Client) FetchSince(ctx context.Context, since int64) (*models.Delta, error) {
	path := MapPath(c.mapID, "since", strconv.FormatInt(since, 10))

	var resp api.SinceResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("since request failed: %w", err)
	}
	if resp.Status != api.StatusOK {
		return nil, &ServerError{StatusCode: http.StatusOK, Status: resp.Status, Message: resp.Message}
	}

	delta, err := models.DeltaFromWire(&resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode since response: %w", ErrRequest, err)
	}
	return delta, nil
}

// SubmitEdit создает (пустой id) или обновляет объект и возвращает серверную версию
func (c *Client) SubmitEdit(ctx context.Context, class models.Class, id string, f *models.Feature) (*models.Feature, error) {
	segments := []string{string(class)}
	if id != "" {
		segments = append(segments, id)
	}
	path := MapPath(c.mapID, segments...)

	body, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature: %w", err)
	}

	var resp api.EditResponse
	if err := c.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("edit request failed: %w", err)
	}
	if resp.Status != api.StatusOK {
		return nil, &ServerError{StatusCode: http.StatusOK, Status: resp.Status, Message: resp.Message}
	}
	if resp.Result == nil {
		return nil, nil
	}

	echo, err := models.FeatureFromWire(*resp.Result)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode edit response: %w", ErrRequest, err)
	}
	return echo, nil
}

// SubmitDelete удаляет объект на сервере
func (c *Client) SubmitDelete(ctx context.Context, class models.Class, id string) error {
	path := MapPath(c.mapID, string(class), id)

	var resp api.StatusResponse
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	if resp.Status != api.StatusOK {
		return &ServerError{StatusCode: http.StatusOK, Status: resp.Status, Message: resp.Message}
	}
	return nil
}

// doRequest выполняет HTTP запрос.
// Тело объекта POST передается полем формы json, параметры подписи добавляются
// в форму (POST) или в query (GET, DELETE).
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, result any) error {
	params := url.Values{}
	if c.signer != nil {
		params = c.signer.Params(method, path, body)
	}

	target := c.baseURL + path
	var bodyReader io.Reader
	switch method {
	case http.MethodPost:
		params.Set(FormFieldJSON, string(body))
		bodyReader = strings.NewReader(params.Encode())
	case http.MethodDelete:
		params.Set(FormFieldJSON, "")
		target += "?" + params.Encode()
	default:
		if len(params) > 0 {
			target += "?" + params.Encode()
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrRequest, err)
	}
	c.logger.Debug("Map API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			serr.Status = errResp.Status
			serr.Message = errResp.Message
		}
		return serr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", ErrRequest, err)
		}
	}
	return nil
}

// IsServerError сообщает, что ошибку вернул сервер, а не транспорт
func IsServerError(err error) bool {
	var serr *ServerError
	return errors.As(err, &serr)
}
