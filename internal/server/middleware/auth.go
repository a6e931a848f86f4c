package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/jobcache/internal/server/handlers"
)

// Auth проверяет JWT access token и кладет ID пользователя (sub) в контекст
func Auth(logger *slog.Logger, jwtConfig handlers.JWTConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "missing Authorization header", "path", r.URL.Path)
				writeError(w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
				logger.WarnContext(ctx, "invalid Authorization header format")
				writeError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, strings.TrimSpace(tokenString))
			if err != nil {
				logger.WarnContext(ctx, "invalid access token", "error", err)
				writeError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			logger.DebugContext(ctx, "user authenticated", "user_id", claims.Subject, "username", claims.Username)

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, claims.Subject, claims.Username)))
		})
	}
}
