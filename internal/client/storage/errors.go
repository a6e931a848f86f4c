package storage

import "errors"

// Common client storage errors
var (
	// ErrStorageUnavailable indicates that the persistence backend cannot be opened
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageClosed indicates that storage is closed or was never initialized
	ErrStorageClosed = errors.New("storage is closed")

	// ErrRecordNotFound indicates that cached record was not found
	ErrRecordNotFound = errors.New("cache record not found")

	// ErrReservedCollection indicates a collection name that collides with an internal bucket
	ErrReservedCollection = errors.New("reserved collection name")

	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")
)
