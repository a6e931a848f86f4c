package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/jobcache/internal/client/storage"
)

// Session exposes the stored login to the rest of the client.
// It implements collection.PrincipalResolver and api.TokenSource.
type Session struct {
	storage storage.AuthStorage
	now     func() time.Time
}

// NewSession создает сессию поверх хранилища авторизации
func NewSession(st storage.AuthStorage) *Session {
	return &Session{
		storage: st,
		now:     time.Now,
	}
}

// Current returns the stored session or storage.ErrAuthNotFound
func (s *Session) Current(ctx context.Context) (*storage.AuthData, error) {
	return s.storage.GetAuth(ctx)
}

// Principal returns the id of the signed-in user.
// An expired token still identifies the owner of the cached data.
func (s *Session) Principal(ctx context.Context) (string, bool, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load session: %w", err)
	}
	if auth.UserID == "" {
		return "", false, nil
	}
	return auth.UserID, true, nil
}

// AccessToken returns the stored token, or an empty string when there is
// no session or the token has expired
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if s.Expired(auth) {
		return "", nil
	}
	return auth.AccessToken, nil
}

// Expired reports whether the access token of auth is past its expiry
func (s *Session) Expired(auth *storage.AuthData) bool {
	return auth.ExpiresAt > 0 && s.now().Unix() >= auth.ExpiresAt
}
