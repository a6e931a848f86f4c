// Package collection keeps a locally cached, optimistically updated view of one
// server collection and decides when that view has to be refreshed.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/jobcache/internal/client/cache"
	"github.com/iudanet/jobcache/internal/client/coalesce"
	"github.com/iudanet/jobcache/internal/client/optimistic"
	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/metrics"
	"github.com/iudanet/jobcache/internal/models"
)

var (
	// ErrFetchFailed is reported when the remote list could not be loaded.
	// Cached data stays visible.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrMutationFailed is returned when a create, update or delete was rejected.
	// The optimistic change has been rolled back.
	ErrMutationFailed = errors.New("mutation failed")
)

// TempIDPrefix префикс временных ID записей, созданных до ответа сервера
const TempIDPrefix = "tmp-"

// Deps are the dependencies shared by all collections of one client
type Deps struct {
	Principal PrincipalResolver
	Store     storage.LocalStore
	Logger    *slog.Logger
	Metrics   *metrics.CacheMetrics

	// MaxAge is the staleness threshold; zero means storage.DefaultMaxAge
	MaxAge time.Duration
	// CoalesceDelay is the request coalescing window; zero means coalesce.DefaultDelay
	CoalesceDelay time.Duration
	// DisableOptimistic turns off the overlay; mutations then only refetch
	DisableOptimistic bool
}

// Config configures a Collection
type Config[T models.Entity[T]] struct {
	Remote Remote[T]
	// Coalescer is optional; a private one is created when nil
	Coalescer *coalesce.Group[[]T]
	Name      string
	Deps
}

// State is a snapshot of a collection
type State[T any] struct {
	Items             []T    `json:"items"`
	Err               string `json:"error,omitempty"`
	OptimisticUpdates int    `json:"optimistic_updates"`
	Loading           bool   `json:"loading"`
	Refreshing        bool   `json:"refreshing"`
	IsReconciling     bool   `json:"is_reconciling"`
}

// Collection is the cached view of one server collection
type Collection[T models.Entity[T]] struct {
	remote    Remote[T]
	principal PrincipalResolver
	cache     *cache.Store[T]
	overlay   *optimistic.Overlay[T]
	group     *coalesce.Group[[]T]
	logger    *slog.Logger
	metrics   *metrics.CacheMetrics
	newID     func() string

	name          string
	errMsg        string
	items         []T
	maxAge        time.Duration
	coalesceDelay time.Duration
	// generation номер последней выданной синхронизации
	generation uint64
	// epoch меняется при старте и фиксации каждой синхронизации
	epoch  uint64
	active int

	mu sync.RWMutex
	// syncMu упорядочивает сохранение результатов синхронизаций
	syncMu     sync.Mutex
	optimistic bool
	refreshing bool
}

// New creates a collection
func New[T models.Entity[T]](cfg Config[T]) *Collection[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("collection", cfg.Name)

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = storage.DefaultMaxAge
	}

	group := cfg.Coalescer
	if group == nil {
		group = coalesce.New[[]T](cfg.Metrics)
	}

	return &Collection[T]{
		name:          cfg.Name,
		remote:        cfg.Remote,
		principal:     cfg.Principal,
		cache:         cache.New[T](cfg.Store, cfg.Name, logger),
		overlay:       optimistic.New[T](),
		group:         group,
		logger:        logger,
		metrics:       cfg.Metrics,
		newID:         uuid.NewString,
		maxAge:        maxAge,
		coalesceDelay: cfg.CoalesceDelay,
		optimistic:    !cfg.DisableOptimistic,
	}
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) fetchKey() string {
	return "fetch-" + c.name
}

// State returns a snapshot with pending optimistic updates applied to Items
func (c *Collection[T]) State() State[T] {
	c.mu.RLock()
	state := State[T]{
		Items:      c.overlay.Merge(slices.Clone(c.items)),
		Err:        c.errMsg,
		Loading:    c.active > 0,
		Refreshing: c.refreshing,
	}
	c.mu.RUnlock()

	state.OptimisticUpdates = c.overlay.Len()
	state.IsReconciling = c.overlay.IsReconciling()
	return state
}

// Items returns the current items with pending optimistic updates applied
func (c *Collection[T]) Items() []T {
	return c.State().Items
}

// Get returns an item of the merged view by id
func (c *Collection[T]) Get(id string) (T, bool) {
	for _, item := range c.Items() {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Pending returns a snapshot of optimistic updates not yet reconciled
func (c *Collection[T]) Pending() map[string]optimistic.Update[T] {
	return c.overlay.Pending()
}

// LastSync returns the time of the last successful sync
func (c *Collection[T]) LastSync(ctx context.Context) (time.Time, bool) {
	return c.cache.LastSync(ctx)
}

// IsStale reports whether the next Fetch would go to the server
func (c *Collection[T]) IsStale(ctx context.Context) bool {
	return c.cache.IsStale(ctx, c.maxAge)
}

// Fetch refreshes the collection when forced or stale and serves the cache otherwise.
// A failed remote fetch is not returned as an error: cached data stays in Items
// and the failure is reported in State.Err. Only cancellation of ctx is returned.
func (c *Collection[T]) Fetch(ctx context.Context, force bool) (State[T], error) {
	err := c.fetch(ctx, force, false)
	if errors.Is(err, ErrFetchFailed) {
		err = nil
	}
	return c.State(), err
}

// FetchStrict is Fetch that also returns fetch failures, wrapped in ErrFetchFailed
func (c *Collection[T]) FetchStrict(ctx context.Context, force bool) (State[T], error) {
	err := c.fetch(ctx, force, false)
	return c.State(), err
}

// fetch loads the collection. direct bypasses the coalescer so the List is issued
// after the caller's own writes instead of joining one already in flight.
func (c *Collection[T]) fetch(ctx context.Context, force, direct bool) error {
	ownerID, ok, err := c.principal.Principal(ctx)
	if err != nil {
		gen := c.begin()
		defer c.finish(gen)
		return c.fail(ctx, gen, fmt.Errorf("failed to resolve principal: %w", err))
	}
	if !ok {
		// Без пользователя синхронизировать нечего
		return nil
	}

	needsSync := force || c.cache.IsStale(ctx, c.maxAge)
	if !needsSync {
		return c.readCached(ctx)
	}

	gen := c.begin()
	defer c.finish(gen)

	c.metrics.Miss(c.name)
	c.commit(ctx, gen, func() {
		c.refreshing = true
	})

	list := func(ctx context.Context) ([]T, error) {
		c.metrics.RemoteFetch(c.name)
		return c.remote.List(ctx, ownerID)
	}

	var items []T
	if direct {
		items, err = list(ctx)
	} else {
		items, err = c.group.Do(ctx, c.fetchKey(), list, c.coalesceDelay)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return c.fail(ctx, gen, err)
	}

	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	if !c.isLatest(ctx, gen) {
		c.logger.Debug("Discarding superseded fetch result")
		return ctx.Err()
	}

	if err := c.overlay.Reconcile(ctx, items, c.cache); err != nil {
		return err
	}
	// Записи, которых больше нет на сервере, не должны вернуться из кэша
	c.cache.Retain(ctx, items)
	c.cache.MarkSynced(ctx)

	c.commit(ctx, gen, func() {
		c.items = items
		c.errMsg = ""
	})

	c.logger.Debug("Collection synced", "items", len(items))
	return ctx.Err()
}

// readCached serves the collection from the Local Store. It never supersedes
// a sync in flight and is dropped if a sync starts or lands meanwhile.
func (c *Collection[T]) readCached(ctx context.Context) error {
	c.metrics.Hit(c.name)

	c.mu.Lock()
	c.active++
	epoch := c.epoch
	c.mu.Unlock()

	cached := c.cache.All(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.active--
	if ctx.Err() == nil && epoch == c.epoch && len(cached) > 0 {
		c.items = cached
	}
	return ctx.Err()
}

// fail records a fetch failure and falls back to cached data
func (c *Collection[T]) fail(ctx context.Context, gen uint64, err error) error {
	c.metrics.FetchFailed(c.name)
	c.logger.Warn("Fetch failed, serving cached data", "error", err)

	cached := c.cache.All(ctx)
	c.commit(ctx, gen, func() {
		c.errMsg = err.Error()
		if len(cached) > 0 {
			c.items = cached
		}
	})

	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, c.name, err)
}

// begin issues a new fetch generation
func (c *Collection[T]) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.epoch++
	c.active++
	return c.generation
}

// finish clears progress flags unless a newer fetch owns them
func (c *Collection[T]) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active--
	if gen == c.generation {
		c.refreshing = false
	}
}

func (c *Collection[T]) isLatest(ctx context.Context, gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return ctx.Err() == nil && gen == c.generation
}

// commit applies fn only if gen is still the latest fetch and ctx is alive
func (c *Collection[T]) commit(ctx context.Context, gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil || gen != c.generation {
		return false
	}
	fn()
	c.epoch++
	return true
}

// refetch forces a sync after a confirmed mutation; its failure does not fail the mutation
func (c *Collection[T]) refetch(ctx context.Context) {
	if err := c.fetch(ctx, true, true); err != nil {
		c.logger.Debug("Refetch after mutation did not complete", "error", err)
	}
}

// Create adds item. It is visible under a temporary id until the server answers.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	tempID := TempIDPrefix + c.newID()
	if c.optimistic {
		c.overlay.Begin(tempID, item.WithID(tempID), optimistic.UpdateCreate)
	}

	created, err := c.remote.Create(ctx, item)
	if err != nil {
		c.rollback(tempID, optimistic.UpdateCreate, err)
		return zero, fmt.Errorf("%w: create %s: %w", ErrMutationFailed, c.name, err)
	}

	if c.optimistic {
		c.overlay.Remove(tempID)
		c.overlay.Apply(created.GetID(), created, optimistic.UpdateUpdate)
	}
	c.cache.Put(ctx, created)
	c.refetch(ctx)

	return created, nil
}

// Update applies patch to the record id. The merged record is visible immediately.
func (c *Collection[T]) Update(ctx context.Context, id string, patch models.Patch) (T, error) {
	var zero T

	if c.optimistic {
		current, ok := c.current(ctx, id)
		if !ok {
			current = zero.WithID(id)
		}

		merged, err := models.ApplyPatch(current, patch)
		if err != nil {
			return zero, fmt.Errorf("%w: update %s: %w", ErrMutationFailed, c.name, err)
		}
		c.overlay.Begin(id, merged, optimistic.UpdateUpdate)
	}

	updated, err := c.remote.Update(ctx, id, patch)
	if err != nil {
		c.rollback(id, optimistic.UpdateUpdate, err)
		return zero, fmt.Errorf("%w: update %s: %w", ErrMutationFailed, c.name, err)
	}

	if c.optimistic {
		c.overlay.Remove(id)
		c.overlay.Apply(id, updated, optimistic.UpdateUpdate)
	}
	c.cache.Put(ctx, updated)
	c.refetch(ctx)

	return updated, nil
}

// Delete removes the record id. It is hidden immediately.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	var zero T

	current, ok := c.current(ctx, id)
	if !ok {
		current = zero.WithID(id)
	}

	if c.optimistic {
		c.overlay.Begin(id, current, optimistic.UpdateDelete)
	}

	if err := c.remote.Delete(ctx, id); err != nil {
		c.rollback(id, optimistic.UpdateDelete, err)
		return fmt.Errorf("%w: delete %s: %w", ErrMutationFailed, c.name, err)
	}

	if c.optimistic {
		c.overlay.Remove(id)
		c.overlay.Apply(id, current, optimistic.UpdateDelete)
	}
	// Иначе запись вернётся из кэша при следующем чтении без синхронизации
	c.cache.Remove(ctx, id)
	c.refetch(ctx)

	return nil
}

func (c *Collection[T]) rollback(id string, op optimistic.UpdateType, cause error) {
	c.metrics.Rollback(c.name, string(op))
	c.logger.Warn("Mutation rejected, rolling back",
		"id", id,
		"operation", op,
		"error", cause)

	if c.optimistic {
		c.overlay.Remove(id)
	}
}

// current returns the record as the user sees it now
func (c *Collection[T]) current(ctx context.Context, id string) (T, bool) {
	if item, ok := c.Get(id); ok {
		return item, true
	}
	return c.cache.Get(ctx, id)
}

// Reset drops all local state of the collection: pending fetch, overlay,
// items and cached records. Used on logout.
func (c *Collection[T]) Reset(ctx context.Context) {
	c.group.Clear(c.fetchKey())

	for id := range c.overlay.Pending() {
		c.overlay.Remove(id)
	}

	c.mu.Lock()
	c.generation++
	c.epoch++
	c.items = nil
	c.errMsg = ""
	c.refreshing = false
	c.mu.Unlock()

	c.cache.Clear(ctx)
}
