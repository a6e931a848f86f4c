package boltdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/jobcache/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketAuth       = []byte("auth")
	bucketSyncStatus = []byte(storage.SyncStatusCollection)
)

// checkCollection rejects names of the internal buckets
func checkCollection(collection string) error {
	if collection == "" || collection == string(bucketAuth) || collection == string(bucketSyncStatus) {
		return fmt.Errorf("%w: %q", storage.ErrReservedCollection, collection)
	}
	return nil
}

// openTimeout ограничивает ожидание file lock, если БД открыта другим процессом
const openTimeout = time.Second

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db          *bbolt.DB
	now         func() time.Time
	path        string
	collections []string
	mu          sync.RWMutex
}

var _ storage.LocalStore = (*Storage)(nil)

// Option configures Storage
type Option func(*Storage)

// WithClock overrides the clock used for record and sync timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// New creates a BoltDB storage for dbPath without opening it.
// collections are provisioned as buckets on Init.
func New(dbPath string, collections []string, opts ...Option) *Storage {
	s := &Storage{
		path:        dbPath,
		collections: collections,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates the storage and initializes it
func Open(ctx context.Context, dbPath string, collections []string, opts ...Option) (*Storage, error) {
	s := New(dbPath, collections, opts...)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Init opens the database file and creates buckets.
// Repeated calls reuse the open handle.
func (s *Storage) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	// Открываем BoltDB
	db, err := bbolt.Open(s.path, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("%w: failed to open boltdb: %w", storage.ErrStorageUnavailable, err)
	}

	s.db = db

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		s.db = nil
		return fmt.Errorf("%w: failed to initialize buckets: %w", storage.ErrStorageUnavailable, err)
	}

	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.path
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAuth); err != nil {
			return fmt.Errorf("failed to create auth bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(bucketSyncStatus); err != nil {
			return fmt.Errorf("failed to create sync status bucket: %w", err)
		}

		// По одному bucket на каждую коллекцию
		for _, name := range s.collections {
			if err := checkCollection(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		return nil
	})
}

// view runs fn in a read-only transaction on the open handle
func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

// update runs fn in a read-write transaction on the open handle
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(fn)
}
