package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter ограничивает частоту запросов по ключу: limit запросов за window,
// с пополнением по одному токену каждые window/limit.
type RateLimiter struct {
	logger  *slog.Logger
	clients map[string]*rateClient
	done    chan struct{}
	every   rate.Limit
	burst   int
	idle    time.Duration
	retry   time.Duration
	stop    sync.Once
	mu      sync.Mutex
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter запускает фоновую очистку неактивных ключей, остановить ее Stop
func NewRateLimiter(limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	interval := window / time.Duration(max(limit, 1))
	rl := &RateLimiter{
		logger:  logger,
		clients: make(map[string]*rateClient),
		done:    make(chan struct{}),
		every:   rate.Every(interval),
		burst:   limit,
		idle:    2 * window,
		retry:   interval,
	}
	go rl.evictLoop()
	return rl
}

// Allow расходует токен ключа key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &rateClient{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// Stop останавливает очистку. Повторный вызов безопасен
func (rl *RateLimiter) Stop() {
	rl.stop.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) evictLoop() {
	if rl.idle <= 0 {
		return
	}
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := rl.evict(now); n > 0 {
				rl.logger.Debug("Rate limiter keys evicted", "count", n)
			}
		case <-rl.done:
			return
		}
	}
}

// evict удаляет ключи, не появлявшиеся дольше idle
func (rl *RateLimiter) evict(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idle {
			delete(rl.clients, key)
			n++
		}
	}
	return n
}

func (rl *RateLimiter) keys() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// retryAfter секунды до следующего токена, не меньше одной
func (rl *RateLimiter) retryAfter() string {
	return strconv.Itoa(max(1, int(math.Ceil(rl.retry.Seconds()))))
}

// RateLimitMiddleware ограничивает запросы по аккаунту из подписи,
// неподписанные запросы считаются по IP клиента.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := AccountFromContext(r.Context())
			if !ok {
				key = "ip:" + clientIP(r)
			}

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", limiter.retryAfter())
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP адрес клиента с учетом прокси: первый адрес X-Forwarded-For,
// затем X-Real-IP, затем RemoteAddr без порта.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
