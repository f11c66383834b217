// Package server assembles the local map server: sqlite storage, map
// handlers and the middleware chain.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/topokeeper/internal/clock"
	"github.com/iudanet/topokeeper/internal/server/handlers"
	"github.com/iudanet/topokeeper/internal/server/middleware"
	"github.com/iudanet/topokeeper/internal/server/storage/sqlite"
)

// Defaults
const (
	DefaultAddr            = "localhost:8080"
	DefaultDBPath          = "topokeeper.db"
	DefaultRateLimit       = 120
	DefaultRateWindow      = time.Minute
	DefaultShutdownTimeout = 10 * time.Second
	healthPath             = "/api/v1/health"
)

// Config параметры сервера
type Config struct {
	Addr            string
	DBPath          string
	AccountsFile    string // пусто = подпись запросов не проверяется
	Version         string
	RateLimit       int // изменений в окне на аккаунт, 0 = без ограничения
	RateWindow      time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		DBPath:          DefaultDBPath,
		RateLimit:       DefaultRateLimit,
		RateWindow:      DefaultRateWindow,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Server локальный сервер карты
type Server struct {
	logger  *slog.Logger
	storage *sqlite.Storage
	limiter *middleware.RateLimiter
	handler http.Handler
	cfg     Config
}

// New открывает хранилище и собирает обработчики
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	var accounts Accounts
	if cfg.AccountsFile != "" {
		var err error
		accounts, err = LoadAccounts(cfg.AccountsFile)
		if err != nil {
			return nil, err
		}
	}

	st, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	// Timestamps после перезапуска должны продолжать уже выданные
	clk := clock.New()
	last, err := st.LastTimestamp(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	clk.Observe(last)

	s := &Server{
		logger:  logger,
		storage: st,
		cfg:     cfg,
	}

	var edit func(http.Handler) http.Handler
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
		edit = middleware.RateLimitMiddleware(s.limiter, logger)
	}

	maps := http.NewServeMux()
	handlers.NewMapHandler(logger, st, clk).Register(maps, edit)

	var mapAPI http.Handler = maps
	if len(accounts) > 0 {
		mapAPI = middleware.SignatureMiddleware(logger, accounts, nil)(maps)
	} else {
		logger.Warn("No accounts configured, request signatures are not verified")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, handlers.NewHealthHandler(logger, st, cfg.Version).Health)
	mux.Handle("/api/v1/map/", mapAPI)

	// Цепочка: recovery -> logging -> routes
	s.handler = middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{healthPath})(mux),
	)

	logger.Info("Server initialized",
		"db", cfg.DBPath,
		"accounts", len(accounts),
		"last_timestamp", last)

	return s, nil
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run обслуживает запросы до отмены ctx, затем корректно завершает работу
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.cfg.Addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close освобождает ресурсы сервера
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.storage.Close()
}
