package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/jobcache/internal/client/api"
	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/validation"
	pkgapi "github.com/iudanet/jobcache/pkg/api"
)

// Service предоставляет функции авторизации
type Service struct {
	apiClient *api.Client
	storage   storage.AuthStorage
	now       func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(apiClient *api.Client, st storage.AuthStorage) *Service {
	return &Service{
		apiClient: apiClient,
		storage:   st,
		now:       time.Now,
	}
}

// Register регистрирует нового пользователя и возвращает его ID
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	// Валидация входных данных
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}

	return resp.UserID, nil
}

// Login выполняет аутентификацию и сохраняет сессию
func (s *Service) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("invalid password: password cannot be empty")
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	auth, err := s.sessionFromToken(username, resp)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return auth, nil
}

// sessionFromToken reads owner and expiry from the access token.
// The signature is checked by the server on every request, the client only needs the claims.
func (s *Service) sessionFromToken(username string, resp *pkgapi.TokenResponse) (*storage.AuthData, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, &claims); err != nil {
		return nil, fmt.Errorf("malformed access token: %w", err)
	}

	userID := claims.Subject
	if userID == "" {
		userID = resp.UserID
	}
	if userID == "" {
		return nil, fmt.Errorf("access token has no subject")
	}
	if resp.UserID != "" && resp.UserID != userID {
		return nil, fmt.Errorf("access token subject %q does not match user %q", userID, resp.UserID)
	}

	var expiresAt int64
	switch {
	case claims.ExpiresAt != nil:
		expiresAt = claims.ExpiresAt.Unix()
	case resp.ExpiresIn > 0:
		expiresAt = s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix()
	}

	return &storage.AuthData{
		Username:    username,
		UserID:      userID,
		AccessToken: resp.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout удаляет локальную сессию
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
