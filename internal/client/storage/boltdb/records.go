package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/jobcache/internal/client/storage"
)

// Set upserts a cache record. Existing record is overwritten unconditionally.
func (s *Storage) Set(ctx context.Context, collection, id string, data json.RawMessage, version string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	if version == "" {
		version = storage.DefaultVersion
	}

	record := storage.CacheRecord{
		ID:        id,
		Data:      data,
		Timestamp: s.now().UnixMilli(),
		Version:   version,
	}

	// Сериализуем record в JSON
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal cache record: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		if err := bucket.Put([]byte(id), encoded); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	return nil
}

// Get returns the payload of a cached record
func (s *Storage) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var data json.RawMessage

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		raw := bucket.Get([]byte(id))
		if raw == nil {
			return storage.ErrRecordNotFound
		}

		var record storage.CacheRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}
		data = record.Data

		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// GetRecord returns the full cache record including write timestamp and version
func (s *Storage) GetRecord(ctx context.Context, collection, id string) (*storage.CacheRecord, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var record *storage.CacheRecord

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		raw := bucket.Get([]byte(id))
		if raw == nil {
			return storage.ErrRecordNotFound
		}

		record = &storage.CacheRecord{}
		if err := json.Unmarshal(raw, record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetAll returns payloads of all records in the collection (bucket key order)
func (s *Storage) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var items []json.RawMessage

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			// Нет bucket - возвращаем пустой массив
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var record storage.CacheRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}
			items = append(items, record.Data)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get all %s records: %w", collection, err)
	}

	return items, nil
}

// Delete removes one record. Missing record or bucket is not an error.
func (s *Storage) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	return nil
}

// Clear removes all records of the collection
func (s *Storage) Clear(ctx context.Context, collection string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	err := s.update(func(tx *bbolt.Tx) error {
		// Удаляем bucket полностью
		if err := tx.DeleteBucket([]byte(collection)); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete bucket: %w", err)
		}

		// Создаем заново пустой bucket
		if _, err := tx.CreateBucket([]byte(collection)); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		// Очищенная коллекция считается никогда не синхронизированной
		if status := tx.Bucket(bucketSyncStatus); status != nil {
			if err := status.Delete([]byte(collection)); err != nil {
				return fmt.Errorf("failed to reset sync status: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}

	return nil
}
