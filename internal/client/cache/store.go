// Package cache provides typed access to one collection of the local store.
//
// Store never returns storage errors to the caller: a failed cache read is treated
// as a miss and a failed write is skipped. Both are logged, since the server stays
// the source of truth and the cache only speeds up reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/models"
)

// Store is a JSON-typed view of a single collection in a LocalStore
type Store[T models.Entity[T]] struct {
	local  storage.LocalStore
	logger *slog.Logger
	name   string
}

// New creates a typed store for the collection name
func New[T models.Entity[T]](local storage.LocalStore, name string, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		local:  local,
		name:   name,
		logger: logger,
	}
}

// Name returns the collection name
func (s *Store[T]) Name() string {
	return s.name
}

// Get returns the cached item; ok is false on a miss or a failed read
func (s *Store[T]) Get(ctx context.Context, id string) (item T, ok bool) {
	raw, err := s.local.Get(ctx, s.name, id)
	if err != nil {
		if !errors.Is(err, storage.ErrRecordNotFound) {
			s.warn("Cache read failed", err, "id", id)
		}
		return item, false
	}

	if err := json.Unmarshal(raw, &item); err != nil {
		s.warn("Cache record is corrupted", err, "id", id)
		var zero T
		return zero, false
	}

	return item, true
}

// All returns every cached item; records that fail to decode are skipped
func (s *Store[T]) All(ctx context.Context) []T {
	raws, err := s.local.GetAll(ctx, s.name)
	if err != nil {
		s.warn("Cache read failed", err)
		return nil
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			s.warn("Cache record is corrupted", err)
			continue
		}
		items = append(items, item)
	}

	return items
}

// Put upserts item under its id
func (s *Store[T]) Put(ctx context.Context, item T) {
	id := item.GetID()
	if id == "" {
		s.logger.Warn("Cache write skipped, item has no id", "collection", s.name)
		return
	}

	raw, err := json.Marshal(item)
	if err != nil {
		s.warn("Failed to encode cache record", err, "id", id)
		return
	}

	if err := s.local.Set(ctx, s.name, id, raw, storage.DefaultVersion); err != nil {
		s.warn("Cache write failed", err, "id", id)
	}
}

// PutAll upserts every item
func (s *Store[T]) PutAll(ctx context.Context, items []T) {
	for _, item := range items {
		s.Put(ctx, item)
	}
}

// Remove deletes the cached item
func (s *Store[T]) Remove(ctx context.Context, id string) {
	if err := s.local.Delete(ctx, s.name, id); err != nil {
		s.warn("Cache delete failed", err, "id", id)
	}
}

// Retain deletes cached items whose id is not in keep
func (s *Store[T]) Retain(ctx context.Context, keep []T) {
	ids := make(map[string]struct{}, len(keep))
	for _, item := range keep {
		ids[item.GetID()] = struct{}{}
	}

	for _, item := range s.All(ctx) {
		if _, ok := ids[item.GetID()]; !ok {
			s.Remove(ctx, item.GetID())
		}
	}
}

// Clear removes every cached item of the collection
func (s *Store[T]) Clear(ctx context.Context) {
	if err := s.local.Clear(ctx, s.name); err != nil {
		s.warn("Cache clear failed", err)
	}
}

// MarkSynced records a successful sync of the collection
func (s *Store[T]) MarkSynced(ctx context.Context) {
	if err := s.local.SetLastSync(ctx, s.name); err != nil {
		s.warn("Failed to update sync status", err)
	}
}

// LastSync returns the time of the last successful sync
func (s *Store[T]) LastSync(ctx context.Context) (time.Time, bool) {
	last, ok, err := s.local.GetLastSync(ctx, s.name)
	if err != nil {
		s.warn("Failed to read sync status", err)
		return time.Time{}, false
	}
	return last, ok
}

// IsStale reports whether the collection needs a sync.
// A failed check counts as stale.
func (s *Store[T]) IsStale(ctx context.Context, maxAge time.Duration) bool {
	stale, err := s.local.IsStale(ctx, s.name, maxAge)
	if err != nil {
		s.warn("Staleness check failed", err)
		return true
	}
	return stale
}

func (s *Store[T]) warn(msg string, err error, args ...any) {
	args = append(args, "collection", s.name, "error", err)
	s.logger.Warn(msg, args...)
}
