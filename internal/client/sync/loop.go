package sync

import (
	"context"
	"errors"
	"time"
)

// Start запускает фоновый цикл синхронизации в отдельной горутине.
// Цикл завершается при отмене ctx (владелец сессии закончил работу), при Stop
// и при любой ошибке итерации. Повторный Start после ошибки снова включает цикл.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.disabled.Store(false)
	e.running = true
	e.stopC = make(chan struct{})
	e.doneC = make(chan struct{})

	go e.run(ctx, e.stopC, e.doneC)
	e.logger.Info("Background sync started", "interval", e.cfg.Interval)
}

// Stop просит фоновый цикл остановиться и ждет его завершения.
// Запрос наблюдается в начале следующей итерации, текущее слияние не прерывается.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	stopC, doneC := e.stopC, e.doneC
	select {
	case <-stopC:
	default:
		close(stopC)
	}
	e.mu.Unlock()

	<-doneC
}

// Pause приостанавливает фоновый опрос до Resume
func (e *Engine) Pause() { e.paused.Store(true) }

// Resume возобновляет фоновый опрос
func (e *Engine) Resume() { e.paused.Store(false) }

// Paused сообщает, приостановлен ли фоновый опрос вручную
func (e *Engine) Paused() bool { return e.paused.Load() }

// Running сообщает, работает ли фоновый цикл
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Disabled сообщает, отключена ли автоматическая синхронизация после ошибки
func (e *Engine) Disabled() bool { return e.disabled.Load() }

// BeginEdit захватывает write gate на время отправки правки.
// Фоновое слияние не начнется, пока не будет вызван release.
// release безопасно вызывать несколько раз.
func (e *Engine) BeginEdit(ctx context.Context) (release func(), err error) {
	if err := e.acquire(ctx, 0); err != nil {
		return nil, err
	}
	released := false
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !released {
			released = true
			e.release()
		}
	}, nil
}

func (e *Engine) run(ctx context.Context, stopC, doneC chan struct{}) {
	defer func() {
		e.mu.Lock()
		if e.doneC == doneC {
			e.running = false
		}
		e.mu.Unlock()
		close(doneC)
	}()

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Background sync stopped, owner context finished")
			return
		case <-stopC:
			e.logger.Info("Background sync stopped")
			return
		case <-ticker.C:
		}

		// проверка живости в начале каждой итерации
		select {
		case <-stopC:
			e.logger.Info("Background sync stopped")
			return
		default:
		}
		if ctx.Err() != nil {
			return
		}
		if e.disabled.Load() {
			e.logger.Warn("Background sync disabled after a previous failure")
			return
		}
		if e.paused.Load() {
			continue
		}

		if err := e.iterate(ctx); err != nil {
			e.disabled.Store(true)
			e.logger.Error("Background sync failed, automatic syncing disabled", "error", err)
			return
		}
	}
}

// iterate ждет (ограниченно) завершения чужого слияния или правки и выполняет свое
func (e *Engine) iterate(ctx context.Context) error {
	if err := e.acquire(ctx, e.cfg.GateWait); err != nil {
		if errors.Is(err, ErrGateBusy) {
			e.logger.Debug("Skipping sync iteration, gate busy", "waited", e.cfg.GateWait)
			return nil
		}
		return err
	}
	defer e.release()

	// Pause мог сработать, пока ждали gate
	if e.paused.Load() {
		return nil
	}
	_, err := e.syncOnce(ctx)
	return err
}

func (e *Engine) tryAcquire() bool {
	select {
	case e.gate <- struct{}{}:
		return true
	default:
		return false
	}
}

// acquire захватывает gate; wait <= 0 означает ждать до отмены ctx
func (e *Engine) acquire(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		select {
		case e.gate <- struct{}{}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.gate <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrGateBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) release() {
	<-e.gate
}
