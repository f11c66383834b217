package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestClock_Tick(t *testing.T) {
	c := NewWithSource(fixed(1000))

	assert.Equal(t, int64(1000), c.Tick())
	assert.Equal(t, int64(1001), c.Tick(), "same millisecond must still advance")
	assert.Equal(t, int64(1002), c.Tick())
	assert.Equal(t, int64(1002), c.Last())
}

func TestClock_FollowsWallTime(t *testing.T) {
	var now int64 = 1000
	c := NewWithSource(func() time.Time { return time.UnixMilli(now) })

	assert.Equal(t, int64(1000), c.Tick())
	now = 5000
	assert.Equal(t, int64(5000), c.Tick())

	// время пошло назад
	now = 3000
	assert.Equal(t, int64(5001), c.Tick())
	assert.Equal(t, int64(5001), c.Now())
}

func TestClock_Observe(t *testing.T) {
	c := NewWithSource(fixed(100))

	c.Observe(9000)
	assert.Equal(t, int64(9000), c.Now())
	assert.Equal(t, int64(9001), c.Tick())

	c.Observe(10)
	assert.Equal(t, int64(9001), c.Last(), "older timestamps are ignored")
}

func TestClock_Concurrent(t *testing.T) {
	c := New()
	const workers, perWorker = 8, 200

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				ts := c.Tick()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker, "every tick must be unique")
}
