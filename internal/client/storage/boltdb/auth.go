package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/jobcache/internal/client/storage"
)

// sessionKey ключ единственной сессии клиента в auth bucket
var sessionKey = []byte("current")

var errIncompleteSession = errors.New("session must have user id and access token")

var _ storage.AuthStorage = (*Storage)(nil)

// session is the persisted form of storage.AuthData
type session struct {
	storage.AuthData
	SavedAt int64 `json:"saved_at"` // unix millis
}

func authBucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(bucketAuth)
	if bucket == nil {
		return nil, fmt.Errorf("auth bucket not found")
	}
	return bucket, nil
}

// SaveAuth replaces the stored session
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil || auth.UserID == "" || auth.AccessToken == "" {
		return errIncompleteSession
	}

	encoded, err := json.Marshal(session{AuthData: *auth, SavedAt: s.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket, err := authBucket(tx)
		if err != nil {
			return err
		}
		return bucket.Put(sessionKey, encoded)
	})
}

// GetAuth returns the stored session or storage.ErrAuthNotFound
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var stored session

	err := s.view(func(tx *bbolt.Tx) error {
		bucket, err := authBucket(tx)
		if err != nil {
			return err
		}

		raw := bucket.Get(sessionKey)
		if raw == nil {
			return storage.ErrAuthNotFound
		}
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Неполная сессия равносильна ее отсутствию
	if stored.UserID == "" || stored.AccessToken == "" {
		return nil, storage.ErrAuthNotFound
	}

	return &stored.AuthData, nil
}

// DeleteAuth removes the stored session. Returns storage.ErrAuthNotFound if there is none.
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket, err := authBucket(tx)
		if err != nil {
			return err
		}
		if bucket.Get(sessionKey) == nil {
			return storage.ErrAuthNotFound
		}
		return bucket.Delete(sessionKey)
	})
}
