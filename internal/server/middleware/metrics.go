package middleware

import (
	"net/http"
	"time"

	"github.com/iudanet/jobcache/internal/metrics"
)

// Metrics считает запросы и их длительность по маршрутам
func Metrics(m *metrics.HTTPMetrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			m.Observe(r.Method, routeOf(r), wrapped.statusCode, time.Since(start))
		})
	}
}
