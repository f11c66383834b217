// Package session wires the client components for one map: transport,
// feature store, sync engine, query, edit and geometry editing services.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/topokeeper/internal/client/api"
	"github.com/iudanet/topokeeper/internal/client/config"
	"github.com/iudanet/topokeeper/internal/client/edit"
	"github.com/iudanet/topokeeper/internal/client/geoedit"
	"github.com/iudanet/topokeeper/internal/client/query"
	"github.com/iudanet/topokeeper/internal/client/storage/boltdb"
	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/client/sync"
	"github.com/iudanet/topokeeper/internal/crypto"
)

// Transport объединяет операции транспорта движка синхронизации и слоя правок
type Transport interface {
	sync.Transport
	edit.Transport
}

// Session связанный набор сервисов клиента
type Session struct {
	Store  *store.Store
	Engine *sync.Engine
	Query  *query.Service
	Edit   *edit.Service
	Geo    *geoedit.Engine
	dump   *boltdb.Storage
	logger *slog.Logger
	cfg    config.Config
}

// Option настройка сессии
type Option func(*options)

type options struct {
	transport Transport
	callbacks sync.Callbacks
}

// WithTransport подменяет HTTP транспорт (используется в тестах)
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithCallbacks задает callbacks уведомлений синхронизации
func WithCallbacks(cb sync.Callbacks) Option {
	return func(o *options) { o.callbacks = cb }
}

// Open собирает сессию и выполняет первую полную синхронизацию,
// чтобы зеркало было заполнено до первого чтения.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if o.transport == nil {
		transport, err := newHTTPTransport(cfg, logger)
		if err != nil {
			return nil, err
		}
		o.transport = transport
	}

	s := &Session{cfg: cfg, logger: logger, Store: store.New()}

	engineOpts := []sync.Option{sync.WithCallbacks(o.callbacks)}
	if cfg.DumpPath != "" {
		dump, err := boltdb.New(ctx, cfg.DumpPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open dump file: %w", err)
		}
		s.dump = dump
		engineOpts = append(engineOpts, sync.WithDump(dump))
	}

	s.Engine = sync.NewEngine(o.transport, s.Store, sync.Config{
		Interval: cfg.SyncInterval,
		Timeout:  cfg.SyncTimeout,
		GateWait: cfg.GateWait,
	}, logger, engineOpts...)
	s.Query = query.NewService(s.Engine, s.Store, logger)
	s.Edit = edit.NewService(o.transport, s.Engine, s.Store, logger, cfg.DeleteParallelism)
	s.Geo = geoedit.NewEngine(s.Query, s.Edit, s.Store, logger)

	if err := s.Engine.Refresh(ctx, true); err != nil {
		return nil, errors.Join(fmt.Errorf("initial sync failed: %w", err), s.closeDump())
	}
	logger.Info("Session opened",
		"map", cfg.MapID,
		"domain", cfg.Domain,
		"features", s.Store.Len(),
		"signed", cfg.Signed())

	if cfg.Sync {
		s.Engine.Start(ctx)
	}
	return s, nil
}

func newHTTPTransport(cfg config.Config, logger *slog.Logger) (*api.Client, error) {
	opts := []api.Option{api.WithTimeout(cfg.SyncTimeout)}
	if cfg.Signed() {
		signer, err := crypto.NewSigner(cfg.ID, cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to create request signer: %w", err)
		}
		opts = append(opts, api.WithSigner(signer))
	}
	return api.NewClient(cfg.BaseURL(), cfg.MapID, logger, opts...), nil
}

// Config возвращает конфигурацию сессии
func (s *Session) Config() config.Config {
	return s.cfg
}

// Dump возвращает хранилище отладочных дампов или nil, если дампы отключены
func (s *Session) Dump() *boltdb.Storage {
	return s.dump
}

// Close останавливает фоновую синхронизацию и закрывает файл дампов
func (s *Session) Close() error {
	s.Engine.Stop()
	s.logger.Debug("Session closed", "map", s.cfg.MapID)
	return s.closeDump()
}

func (s *Session) closeDump() error {
	if s.dump == nil {
		return nil
	}
	if err := s.dump.Close(); err != nil {
		return fmt.Errorf("failed to close dump file: %w", err)
	}
	return nil
}
