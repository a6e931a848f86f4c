package collection

import (
	"context"

	"github.com/iudanet/jobcache/internal/models"
)

//go:generate moq -out remote_mock.go . Remote PrincipalResolver

// Remote is the authoritative data source of one collection
type Remote[T any] interface {
	// List returns every record owned by ownerID
	List(ctx context.Context, ownerID string) ([]T, error)
	// Create stores item and returns it with the server-assigned id
	Create(ctx context.Context, item T) (T, error)
	// Update applies patch to the record and returns the result
	Update(ctx context.Context, id string, patch models.Patch) (T, error)
	Delete(ctx context.Context, id string) error
}

// PrincipalResolver returns the id of the signed-in user.
// ok is false when nobody is signed in.
type PrincipalResolver interface {
	Principal(ctx context.Context) (ownerID string, ok bool, err error)
}
