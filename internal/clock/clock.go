// Package clock provides the server timestamp source: wall time in
// milliseconds, kept strictly increasing like a Lamport counter so every
// write gets a distinct timestamp even within one millisecond.
package clock

import (
	"sync"
	"time"
)

// Clock монотонные часы в миллисекундах
type Clock struct {
	now     func() time.Time
	counter int64 // последний выданный timestamp
	mu      sync.Mutex
}

// New создает часы на основе системного времени
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithSource создает часы с заданным источником времени. Используется в тестах.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Tick возвращает новый timestamp: max(текущее время, последний + 1)
func (c *Clock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UnixMilli()
	if ts <= c.counter {
		ts = c.counter + 1
	}
	c.counter = ts
	return ts
}

// Now возвращает текущее время в мс, не меньше последнего выданного timestamp.
// Счетчик не сдвигается.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return max(c.now().UnixMilli(), c.counter)
}

// Observe учитывает timestamp, сохраненный ранее (например, после перезапуска),
// чтобы следующие Tick были строго больше него.
func (c *Clock) Observe(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ts > c.counter {
		c.counter = ts
	}
}

// Last возвращает последний выданный timestamp
func (c *Clock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counter
}
