// Package sync refreshes every cached collection of the client at once.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result describes the refresh of one collection
type Result struct {
	Err        error
	Collection string
	Items      int
	Pending    int // оптимистичные изменения, ещё не подтверждённые сервером
	Duration   time.Duration
}

// Service refreshes a fixed set of collections
type Service struct {
	logger  *slog.Logger
	targets []Target
}

// NewService creates a sync service for targets
func NewService(logger *slog.Logger, targets ...Target) *Service {
	return &Service{
		logger:  logger,
		targets: targets,
	}
}

// SyncAll refreshes all collections concurrently.
// One failed collection does not stop the others; failures are joined into the returned error.
func (s *Service) SyncAll(ctx context.Context, force bool) ([]Result, error) {
	s.logger.Info("Starting synchronization", "collections", len(s.targets), "force", force)

	results := make([]Result, len(s.targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range s.targets {
		g.Go(func() error {
			res, err := target.Refresh(gctx, force)
			res.Collection = target.Name()
			res.Err = err
			results[i] = res

			// Ошибки коллекций не отменяют остальные, прерывает только отмена ctx
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			s.logger.Warn("Collection sync failed", "collection", res.Collection, "error", res.Err)
			errs = append(errs, fmt.Errorf("%s: %w", res.Collection, res.Err))
			continue
		}
		s.logger.Info("Collection synced",
			"collection", res.Collection,
			"items", res.Items,
			"pending", res.Pending,
			"duration", res.Duration)
	}

	return results, errors.Join(errs...)
}

// RefreshStale refreshes only the collections whose cache has expired
func (s *Service) RefreshStale(ctx context.Context) []Result {
	var results []Result
	for _, target := range s.targets {
		if ctx.Err() != nil {
			break
		}
		if !target.IsStale(ctx) {
			continue
		}

		res, err := target.Refresh(ctx, false)
		res.Collection = target.Name()
		res.Err = err
		if err != nil {
			s.logger.Warn("Background refresh failed", "collection", res.Collection, "error", err)
		}
		results = append(results, res)
	}
	return results
}

// Run refreshes stale collections every interval until ctx is done
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshStale(ctx)
		}
	}
}
