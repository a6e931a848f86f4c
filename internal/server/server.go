// Package server assembles the record server: routes, middleware and the HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/jobcache/internal/metrics"
	"github.com/iudanet/jobcache/internal/server/handlers"
	"github.com/iudanet/jobcache/internal/server/middleware"
	"github.com/iudanet/jobcache/internal/server/storage"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second

	// на регистрацию и вход лимит в 10 раз строже общего
	authRateDivisor = 10
	minAuthRate     = 5
)

// Storage хранилище пользователей и записей
type Storage interface {
	storage.UserStorage
	storage.RecordStorage
	Ping(ctx context.Context) error
}

// Config настройки HTTP сервера
type Config struct {
	Addr       string
	Version    string
	JWT        handlers.JWTConfig
	RateLimit  int
	RateWindow time.Duration
	TrustProxy bool
}

// Server HTTP сервер записей
type Server struct {
	logger      *slog.Logger
	httpServer  *http.Server
	limiter     *middleware.RateLimiter
	authLimiter *middleware.RateLimiter
}

// New собирает маршруты и middleware. reg получает HTTP метрики и отдается на /metrics.
func New(cfg Config, store Storage, reg *prometheus.Registry, logger *slog.Logger) *Server {
	s := &Server{
		logger:      logger,
		limiter:     middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		authLimiter: middleware.NewRateLimiter(max(cfg.RateLimit/authRateDivisor, minAuthRate), cfg.RateWindow),
	}

	authHandler := handlers.NewAuthHandler(logger, store, cfg.JWT)
	recordsHandler := handlers.NewRecordsHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, store, cfg.Version)

	authLimit := middleware.RateLimit(s.authLimiter, logger, cfg.TrustProxy)
	requireAuth := middleware.Auth(logger, cfg.JWT)

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("POST /api/v1/auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", authLimit(http.HandlerFunc(authHandler.Login)))

	// Коллекции доступны только с access token
	mux.Handle("GET /api/v1/{collection}", requireAuth(http.HandlerFunc(recordsHandler.List)))
	mux.Handle("POST /api/v1/{collection}", requireAuth(http.HandlerFunc(recordsHandler.Create)))
	mux.Handle("PATCH /api/v1/{collection}/{id}", requireAuth(http.HandlerFunc(recordsHandler.Update)))
	mux.Handle("DELETE /api/v1/{collection}/{id}", requireAuth(http.HandlerFunc(recordsHandler.Delete)))

	handler := middleware.Chain(mux,
		middleware.Logging(logger, "/api/v1/health", "/metrics"),
		middleware.Metrics(metrics.NewHTTPMetrics(reg)),
		middleware.Recovery(logger),
		middleware.RateLimit(s.limiter, logger, cfg.TrustProxy),
	)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return s
}

// Handler возвращает корневой handler со всеми middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run слушает адрес до отмены ctx, затем корректно завершает активные запросы
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()
	defer s.authLimiter.Stop()

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		errC <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errC; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}

	return nil
}

// Close останавливает фоновые задачи без запуска сервера
func (s *Server) Close() {
	s.limiter.Stop()
	s.authLimiter.Stop()
}
