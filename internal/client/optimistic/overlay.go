// Package optimistic keeps locally applied mutations that the server has not confirmed yet.
package optimistic

import (
	"context"
	"sync"
	"time"

	"github.com/iudanet/jobcache/internal/models"
)

// UpdateType тип оптимистичного изменения
type UpdateType string

const (
	UpdateCreate UpdateType = "create"
	UpdateUpdate UpdateType = "update"
	UpdateDelete UpdateType = "delete"
)

// Update is one unconfirmed change of a record
type Update[T any] struct {
	Data      T          `json:"data"`
	ID        string     `json:"id"`
	Type      UpdateType `json:"type"`
	Timestamp int64      `json:"timestamp"`
	// InFlight is set while the remote mutation for this entry has not answered yet
	InFlight bool `json:"in_flight"`
}

// Persister receives server data during reconciliation
type Persister[T any] interface {
	Put(ctx context.Context, item T)
}

// Overlay is an in-memory map of pending updates keyed by record id.
// It is safe for concurrent use.
type Overlay[T models.Entity[T]] struct {
	now         func() time.Time
	updates     map[string]Update[T]
	mu          sync.RWMutex
	reconciling bool
}

// New creates an empty overlay
func New[T models.Entity[T]]() *Overlay[T] {
	return &Overlay[T]{
		updates: make(map[string]Update[T]),
		now:     time.Now,
	}
}

// Apply inserts or replaces the entry for id
func (o *Overlay[T]) Apply(id string, data T, typ UpdateType) {
	o.set(id, data, typ, false)
}

// Begin is Apply for an entry whose remote mutation is about to be sent.
// Such entries survive Reconcile until they are removed.
func (o *Overlay[T]) Begin(id string, data T, typ UpdateType) {
	o.set(id, data, typ, true)
}

func (o *Overlay[T]) set(id string, data T, typ UpdateType, inFlight bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.updates[id] = Update[T]{
		ID:        id,
		Data:      data,
		Type:      typ,
		Timestamp: o.now().UnixMilli(),
		InFlight:  inFlight,
	}
}

// Remove deletes the entry for id; used both for confirmation and rollback
func (o *Overlay[T]) Remove(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.updates, id)
}

// Get returns the entry for id
func (o *Overlay[T]) Get(id string) (Update[T], bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	u, ok := o.updates[id]
	return u, ok
}

// Merge applies pending entries on top of cached: create and update entries
// upsert their data under their id, delete entries hide the id.
// The order of the result is not specified.
func (o *Overlay[T]) Merge(cached []T) []T {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(o.updates) == 0 {
		return cached
	}

	byID := make(map[string]T, len(cached)+len(o.updates))
	order := make([]string, 0, len(cached)+len(o.updates))
	for _, item := range cached {
		id := item.GetID()
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = item
	}

	for id, u := range o.updates {
		switch u.Type {
		case UpdateCreate, UpdateUpdate:
			if _, seen := byID[id]; !seen {
				order = append(order, id)
			}
			byID[id] = u.Data.WithID(id)
		case UpdateDelete:
			delete(byID, id)
		}
	}

	merged := make([]T, 0, len(byID))
	for _, id := range order {
		if item, ok := byID[id]; ok {
			merged = append(merged, item)
		}
	}

	return merged
}

// Reconcile persists the server data and drops every entry that is not in flight.
// The context is checked between writes; on cancellation the overlay is left unchanged.
func (o *Overlay[T]) Reconcile(ctx context.Context, server []T, store Persister[T]) error {
	o.mu.Lock()
	o.reconciling = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.reconciling = false
		o.mu.Unlock()
	}()

	for _, item := range server {
		if err := ctx.Err(); err != nil {
			return err
		}
		store.Put(ctx, item)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for id, u := range o.updates {
		if !u.InFlight {
			delete(o.updates, id)
		}
	}

	return nil
}

// IsReconciling reports whether Reconcile is running
func (o *Overlay[T]) IsReconciling() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.reconciling
}

// Pending returns a snapshot of all entries
func (o *Overlay[T]) Pending() map[string]Update[T] {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snapshot := make(map[string]Update[T], len(o.updates))
	for id, u := range o.updates {
		snapshot[id] = u
	}
	return snapshot
}

// Len returns the number of entries
func (o *Overlay[T]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return len(o.updates)
}
