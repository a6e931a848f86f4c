package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Unavailable is the LocalStore used when the real backend could not be opened.
// Reads behave as an empty cache and writes are dropped with a warning, so the
// client keeps working against the server without offline support.
// The session is kept in memory for the lifetime of the process.
type Unavailable struct {
	logger *slog.Logger
	cause  error
	auth   *AuthData
	mu     sync.Mutex
}

var (
	_ LocalStore  = (*Unavailable)(nil)
	_ AuthStorage = (*Unavailable)(nil)
)

// NewUnavailable creates a store that degrades every operation to "no cache"
func NewUnavailable(cause error, logger *slog.Logger) *Unavailable {
	return &Unavailable{cause: cause, logger: logger}
}

// Cause returns the error that made the real store unavailable
func (u *Unavailable) Cause() error {
	return u.cause
}

func (u *Unavailable) Init(ctx context.Context) error {
	return nil
}

func (u *Unavailable) Set(ctx context.Context, collection, id string, data json.RawMessage, version string) error {
	u.logger.Warn("Cache write skipped, storage unavailable",
		"collection", collection,
		"id", id,
		"error", u.cause)
	return nil
}

func (u *Unavailable) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	return nil, ErrRecordNotFound
}

func (u *Unavailable) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return nil, nil
}

func (u *Unavailable) Delete(ctx context.Context, collection, id string) error {
	return nil
}

func (u *Unavailable) Clear(ctx context.Context, collection string) error {
	return nil
}

func (u *Unavailable) GetLastSync(ctx context.Context, collection string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func (u *Unavailable) SetLastSync(ctx context.Context, collection string) error {
	u.logger.Warn("Sync status write skipped, storage unavailable",
		"collection", collection,
		"error", u.cause)
	return nil
}

// IsStale always reports true: without a cache every read must go to the server
func (u *Unavailable) IsStale(ctx context.Context, collection string, maxAge time.Duration) (bool, error) {
	return true, nil
}

func (u *Unavailable) Close() error {
	return nil
}

func (u *Unavailable) SaveAuth(ctx context.Context, auth *AuthData) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	copied := *auth
	u.auth = &copied
	u.logger.Warn("Session kept in memory only, storage unavailable", "error", u.cause)
	return nil
}

func (u *Unavailable) GetAuth(ctx context.Context) (*AuthData, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.auth == nil {
		return nil, ErrAuthNotFound
	}
	copied := *u.auth
	return &copied, nil
}

func (u *Unavailable) DeleteAuth(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.auth = nil
	return nil
}
