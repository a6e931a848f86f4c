// Package storage defines the persistence contracts of the record server.
package storage

import (
	"context"
	"time"

	"github.com/iudanet/jobcache/internal/models"
)

//go:generate moq -out userstorage_mock.go . UserStorage
//go:generate moq -out recordstorage_mock.go . RecordStorage

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if username is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error
}

// RecordStorage stores collection records. Every call is scoped to one owner:
// records of other owners are reported as ErrRecordNotFound.
type RecordStorage interface {
	// ListRecords returns the owner's records of a collection, oldest first
	ListRecords(ctx context.Context, ownerID, collection string) ([]*models.Record, error)

	// GetRecord returns one record
	GetRecord(ctx context.Context, ownerID, collection, id string) (*models.Record, error)

	// CreateRecord inserts rec; ID and timestamps are set by the caller
	CreateRecord(ctx context.Context, rec *models.Record) error

	// PatchRecord replaces the record data with fn(current data) in one transaction
	// and returns the updated record
	PatchRecord(ctx context.Context, ownerID, collection, id string, fn func(data []byte) ([]byte, error)) (*models.Record, error)

	// DeleteRecord removes one record
	DeleteRecord(ctx context.Context, ownerID, collection, id string) error
}
