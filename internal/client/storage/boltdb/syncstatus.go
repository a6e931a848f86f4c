package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/jobcache/internal/client/storage"
)

// SetLastSync marks collection as synced at the current time
func (s *Storage) SetLastSync(ctx context.Context, collection string) error {
	status := storage.SyncStatus{
		StoreName: collection,
		Timestamp: s.now().UnixMilli(),
		Version:   storage.DefaultVersion,
	}

	encoded, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal sync status: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketSyncStatus)
		if err != nil {
			return fmt.Errorf("failed to create sync status bucket: %w", err)
		}
		return bucket.Put([]byte(collection), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to save last sync for %s: %w", collection, err)
	}

	return nil
}

// GetLastSync returns the last sync time of collection.
// ok is false if collection has never been synced.
func (s *Storage) GetLastSync(ctx context.Context, collection string) (time.Time, bool, error) {
	var (
		status storage.SyncStatus
		found  bool
	)

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSyncStatus)
		if bucket == nil {
			return nil
		}

		raw := bucket.Get([]byte(collection))
		if raw == nil {
			// Коллекция ещё ни разу не синхронизировалась
			return nil
		}

		if err := json.Unmarshal(raw, &status); err != nil {
			return fmt.Errorf("failed to unmarshal sync status: %w", err)
		}
		found = true

		return nil
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get last sync for %s: %w", collection, err)
	}

	if !found {
		return time.Time{}, false, nil
	}

	return time.UnixMilli(status.Timestamp), true, nil
}

// IsStale reports whether collection needs to be refetched
func (s *Storage) IsStale(ctx context.Context, collection string, maxAge time.Duration) (bool, error) {
	if maxAge <= 0 {
		maxAge = storage.DefaultMaxAge
	}

	last, ok, err := s.GetLastSync(ctx, collection)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}

	return s.now().Sub(last) > maxAge, nil
}
