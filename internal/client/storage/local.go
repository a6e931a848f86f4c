package storage

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// SyncStatusCollection имя служебной коллекции со временем последней синхронизации
	SyncStatusCollection = "sync-status"

	// DefaultMaxAge срок, после которого коллекция считается устаревшей
	DefaultMaxAge = 5 * time.Minute

	// DefaultVersion версия записи, если вызывающий её не указал
	DefaultVersion = "1"
)

// CacheRecord is a single cached record of a collection.
// Timestamp is the write time in epoch milliseconds, not a business timestamp.
type CacheRecord struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Version   string          `json:"version"`
}

// SyncStatus records when a collection was last reconciled against the server.
type SyncStatus struct {
	StoreName string `json:"store_name"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

//go:generate moq -out localstore_mock.go . LocalStore

// LocalStore is the durable, namespaced key-value store behind the offline cache.
// Collections are isolated from each other; every write is a single-record upsert.
type LocalStore interface {
	// Init opens the store and provisions collections. Safe to call repeatedly.
	Init(ctx context.Context) error

	// Set upserts data under id, overwriting any existing record (last write wins)
	Set(ctx context.Context, collection, id string, data json.RawMessage, version string) error

	// Get returns the payload stored under id
	// Returns ErrRecordNotFound if record doesn't exist
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)

	// GetAll returns every payload of the collection, order unspecified
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)

	// Delete removes one record; deleting a missing record is not an error
	Delete(ctx context.Context, collection, id string) error

	// Clear removes all records of the collection and resets its sync status
	Clear(ctx context.Context, collection string) error

	// GetLastSync returns the last sync time; ok is false if the collection never synced
	GetLastSync(ctx context.Context, collection string) (last time.Time, ok bool, err error)

	// SetLastSync marks the collection as synced now
	SetLastSync(ctx context.Context, collection string) error

	// IsStale reports whether the collection never synced or synced more than maxAge ago.
	// maxAge <= 0 means DefaultMaxAge.
	IsStale(ctx context.Context, collection string, maxAge time.Duration) (bool, error)

	// Close releases the handle; later calls fail until Init is called again
	Close() error
}
