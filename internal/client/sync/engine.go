package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/topokeeper/internal/client/storage"
	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

//go:generate moq -out transport_mock.go . Transport

// Transport определяет единственную операцию транспорта, нужную движку синхронизации
type Transport interface {
	// FetchSince возвращает изменения карты начиная с since (мс, серверное время)
	FetchSince(ctx context.Context, since int64) (*models.Delta, error)
}

// overlap сдвиг since назад для защиты от расхождения часов и коммитов на границе
const overlap int64 = 500

// Default settings
const (
	DefaultInterval = 5 * time.Second
	DefaultTimeout  = 10 * time.Second
	DefaultGateWait = 20 * time.Second
)

// Config настройки движка синхронизации
type Config struct {
	Interval time.Duration // период опроса сервера
	Timeout  time.Duration // таймаут одного запроса дельты
	GateWait time.Duration // сколько фоновый цикл ждет завершения чужого слияния/правки
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.GateWait <= 0 {
		c.GateWait = DefaultGateWait
	}
	return c
}

// Cursor позиция синхронизации
type Cursor struct {
	LastCompletion      time.Time // локальное время последнего успешного слияния
	LastServerTimestamp int64     // серверное время последней дельты (мс)
}

// Engine владеет Feature Store и поддерживает его в актуальном состоянии
type Engine struct {
	callbacks Callbacks
	transport Transport
	dump      storage.DumpStorage
	store     *store.Store
	logger    *slog.Logger
	now       func() time.Time

	// gate единственный писатель: либо слияние дельты, либо отправка правки
	gate chan struct{}

	stopC  chan struct{}
	doneC  chan struct{}
	cursor Cursor
	cfg    Config

	mu       gosync.Mutex
	paused   atomic.Bool
	disabled atomic.Bool
	running  bool
}

// Option настраивает Engine
type Option func(*Engine)

// WithCallbacks задает callbacks уведомлений об изменениях
func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) { e.callbacks = cb }
}

// WithDump включает отладочные дампы дельт и снимков хранилища
func WithDump(dump storage.DumpStorage) Option {
	return func(e *Engine) { e.dump = dump }
}

// WithClock подменяет источник текущего времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a new sync engine over the given store
func NewEngine(transport Transport, st *store.Store, cfg Config, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		transport: transport,
		store:     st,
		cfg:       cfg.withDefaults(),
		logger:    logger,
		now:       time.Now,
		gate:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store возвращает хранилище, которым владеет движок
func (e *Engine) Store() *store.Store {
	return e.store
}

// Cursor возвращает текущую позицию синхронизации
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// FetchDelta запрашивает изменения с max(0, lastServerTimestamp-500).
// При ошибке курсор не меняется, а автоматическая синхронизация отключается.
func (e *Engine) FetchDelta(ctx context.Context) (*models.Delta, error) {
	cursor := e.Cursor()
	since := max(0, cursor.LastServerTimestamp-overlap)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	e.logger.Debug("Fetching delta", "since", since)

	delta, err := e.transport.FetchSince(ctx, since)
	if err != nil {
		e.disabled.Store(true)
		return nil, fmt.Errorf("%w: fetch since %d: %w", ErrTransport, since, err)
	}
	if delta == nil {
		e.disabled.Store(true)
		return nil, fmt.Errorf("%w: empty response for since %d", ErrTransport, since)
	}

	e.mu.Lock()
	if delta.Timestamp > e.cursor.LastServerTimestamp {
		e.cursor.LastServerTimestamp = delta.Timestamp
	}
	e.mu.Unlock()

	return delta, nil
}

// Refresh выполняет синхронное получение и слияние дельты, если с последней
// синхронизации прошло больше интервала или force = true.
// Если слияние или правка уже выполняются, возвращается сразу без ожидания.
func (e *Engine) Refresh(ctx context.Context, force bool) error {
	if !e.tryAcquire() {
		e.logger.Debug("Refresh skipped, reconcile or edit in flight")
		return nil
	}
	defer e.release()

	if !force && e.now().Sub(e.Cursor().LastCompletion) <= e.cfg.Interval {
		return nil
	}
	_, err := e.syncOnce(ctx)
	return err
}

// syncOnce получает и сливает одну дельту. Вызывающий держит gate.
func (e *Engine) syncOnce(ctx context.Context) (*Result, error) {
	delta, err := e.FetchDelta(ctx)
	if err != nil {
		return nil, err
	}

	result, err := e.Reconcile(delta)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cursor.LastCompletion = e.now()
	e.mu.Unlock()

	e.writeDump(ctx, delta)
	return result, nil
}

func (e *Engine) writeDump(ctx context.Context, delta *models.Delta) {
	if e.dump == nil {
		return
	}
	if err := e.dump.SaveDelta(ctx, delta.Timestamp, delta); err != nil {
		e.logger.Warn("Failed to dump delta", "timestamp", delta.Timestamp, "error", err)
	}
	if err := e.dump.SaveSnapshot(ctx, delta.Timestamp, e.store.Snapshot()); err != nil {
		e.logger.Warn("Failed to dump snapshot", "timestamp", delta.Timestamp, "error", err)
	}
	if err := e.dump.SaveLastSyncTimestamp(ctx, delta.Timestamp); err != nil {
		e.logger.Warn("Failed to dump sync cursor", "timestamp", delta.Timestamp, "error", err)
	}
}
