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
)

// RateLimiter ограничивает число запросов с одного клиента в фиксированном окне
type RateLimiter struct {
	buckets map[string]*bucket
	now     func() time.Time
	stopC   chan struct{}
	window  time.Duration
	rate    int
	mu      sync.Mutex
	stop    sync.Once
}

// bucket счетчик запросов клиента в текущем окне
type bucket struct {
	windowStart time.Time
	tokens      int
}

// NewRateLimiter создает rate limiter: не больше rate запросов за window.
// Фоновая очистка неактивных клиентов работает до вызова Stop.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		stopC:   make(chan struct{}),
		window:  window,
		rate:    rate,
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-rl.stopC:
			return
		}
	}
}

// Cleanup удаляет клиентов, не приходивших дольше двух окон
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает фоновую очистку, повторный вызов безопасен
func (rl *RateLimiter) Stop() {
	rl.stop.Do(func() { close(rl.stopC) })
}

// Allow списывает запрос клиента key. Если лимит исчерпан, возвращает false
// и время до начала следующего окна.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		b = &bucket{windowStart: now, tokens: rl.rate}
		rl.buckets[key] = b
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, b.windowStart.Add(rl.window).Sub(now)
}

// RateLimit отвечает 429 с заголовком Retry-After, когда клиент превысил лимит.
// Заголовки прокси учитываются только при trustProxy.
func RateLimit(limiter *RateLimiter, logger *slog.Logger, trustProxy bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r, trustProxy)

			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)

				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				writeError(w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP извлекает IP адрес клиента без порта
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Первый адрес X-Forwarded-For принадлежит реальному клиенту
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
