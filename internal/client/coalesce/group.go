// Package coalesce deduplicates concurrent requests that share a key.
package coalesce

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/jobcache/internal/metrics"
)

// DefaultDelay окно, в течение которого одинаковые запросы объединяются
const DefaultDelay = 100 * time.Millisecond

// ErrCanceled is returned to callers of a scheduled call removed by Clear
var ErrCanceled = errors.New("coalesced call canceled")

type call struct {
	cancel  context.CancelFunc
	run     func() (any, error)
	started bool
}

// Group runs at most one call per key at a time.
// The first caller schedules fn after a delay (trailing edge); every caller
// arriving before the call settles shares its value or error.
type Group[T any] struct {
	sf      singleflight.Group
	metrics *metrics.CacheMetrics
	pending map[string]*call
	mu      sync.Mutex
}

// New creates a Group. m may be nil.
func New[T any](m *metrics.CacheMetrics) *Group[T] {
	return &Group[T]{
		metrics: m,
		pending: make(map[string]*call),
	}
}

// Do returns the result of the call tracked under key, scheduling fn if none is tracked.
// delay <= 0 means DefaultDelay. Cancelling ctx detaches only this caller; the
// shared call keeps running for the others.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error), delay time.Duration) (T, error) {
	var zero T

	if delay <= 0 {
		delay = DefaultDelay
	}

	g.mu.Lock()
	if g.pending == nil {
		g.pending = make(map[string]*call)
	}
	c, ok := g.pending[key]
	if ok {
		g.metrics.Shared(key)
	} else {
		// Общий вызов не должен отменяться вместе с контекстом первого вызвавшего
		callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c = &call{cancel: cancel}
		c.run = func() (any, error) {
			return g.run(callCtx, key, c, fn, delay)
		}
		g.pending[key] = c
	}
	// Каждый вызывающий получает свой канал, singleflight раздает результат всем.
	// Пока ключ в pending, вызов singleflight для него еще не завершен.
	ch := g.sf.DoChan(key, c.run)
	g.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (g *Group[T]) run(ctx context.Context, key string, c *call, fn func(ctx context.Context) (T, error), delay time.Duration) (any, error) {
	defer func() {
		g.mu.Lock()
		if g.pending[key] == c {
			delete(g.pending, key)
			g.sf.Forget(key)
		}
		g.mu.Unlock()
		c.cancel()
	}()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ErrCanceled
	case <-timer.C:
	}

	g.mu.Lock()
	if ctx.Err() != nil {
		g.mu.Unlock()
		return nil, ErrCanceled
	}
	c.started = true
	g.mu.Unlock()

	return fn(ctx)
}

// Clear stops tracking key. A call that has not started yet is canceled and its
// callers receive ErrCanceled; a running call completes for the callers already
// waiting on it, while new callers start a fresh one.
func (g *Group[T]) Clear(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clearLocked(key)
}

// ClearAll clears every tracked key
func (g *Group[T]) ClearAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key := range g.pending {
		g.clearLocked(key)
	}
}

func (g *Group[T]) clearLocked(key string) {
	c, ok := g.pending[key]
	if !ok {
		return
	}
	if !c.started {
		c.cancel()
	}
	delete(g.pending, key)
	g.sf.Forget(key)
}

// Pending returns the number of tracked keys
func (g *Group[T]) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.pending)
}
