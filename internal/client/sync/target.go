package sync

import (
	"context"
	"time"

	"github.com/iudanet/jobcache/internal/client/collection"
	"github.com/iudanet/jobcache/internal/models"
)

//go:generate moq -out target_mock.go . Target

// Target is one collection the sync service keeps fresh
type Target interface {
	Name() string

	// IsStale reports whether the collection should be refreshed
	IsStale(ctx context.Context) bool

	// Refresh fetches the collection; force skips the staleness check.
	// A failed remote fetch is returned as an error.
	Refresh(ctx context.Context, force bool) (Result, error)
}

// For adapts a collection to Target
func For[T models.Entity[T]](c *collection.Collection[T]) Target {
	return collectionTarget[T]{c: c}
}

type collectionTarget[T models.Entity[T]] struct {
	c *collection.Collection[T]
}

func (t collectionTarget[T]) Name() string {
	return t.c.Name()
}

func (t collectionTarget[T]) IsStale(ctx context.Context) bool {
	return t.c.IsStale(ctx)
}

func (t collectionTarget[T]) Refresh(ctx context.Context, force bool) (Result, error) {
	start := time.Now()
	state, err := t.c.FetchStrict(ctx, force)

	return Result{
		Collection: t.c.Name(),
		Items:      len(state.Items),
		Pending:    state.OptimisticUpdates,
		Duration:   time.Since(start),
		Err:        err,
	}, err
}
