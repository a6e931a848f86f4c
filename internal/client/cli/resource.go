package cli

import (
	"context"
	"time"

	"github.com/iudanet/jobcache/internal/client/collection"
	"github.com/iudanet/jobcache/internal/client/sync"
	"github.com/iudanet/jobcache/internal/models"
	"github.com/iudanet/jobcache/internal/validation"
)

// pendingMark помечает записи с неподтверждёнными изменениями
const pendingMark = "*"

// view is a collection snapshot prepared for printing
type view struct {
	Items   []any
	Rows    [][]string
	Err     string
	Pending int
}

// resource is a collection with its entity type erased
type resource interface {
	name() string
	columns() []string
	fetch(ctx context.Context, force bool) (view, error)
	get(id string) (any, bool)
	create(ctx context.Context, args []string) (string, error)
	update(ctx context.Context, id string, args []string) error
	remove(ctx context.Context, id string) error
	pending() int
	lastSync(ctx context.Context) (time.Time, bool)
	isStale(ctx context.Context) bool
	reset(ctx context.Context)
	target() sync.Target
}

type collectionResource[T models.Entity[T]] struct {
	c    *collection.Collection[T]
	cols []string
	row  func(T) []string
}

func newResource[T models.Entity[T]](c *collection.Collection[T], cols []string, row func(T) []string) resource {
	return &collectionResource[T]{c: c, cols: cols, row: row}
}

func (r *collectionResource[T]) name() string {
	return r.c.Name()
}

func (r *collectionResource[T]) columns() []string {
	return r.cols
}

func (r *collectionResource[T]) fetch(ctx context.Context, force bool) (view, error) {
	state, err := r.c.Fetch(ctx, force)
	if err != nil {
		return view{}, err
	}

	pending := r.c.Pending()
	v := view{
		Items:   make([]any, 0, len(state.Items)),
		Rows:    make([][]string, 0, len(state.Items)),
		Err:     state.Err,
		Pending: state.OptimisticUpdates,
	}
	for _, item := range state.Items {
		row := r.row(item)
		if _, ok := pending[item.GetID()]; ok && len(row) > 0 {
			row[0] += pendingMark
		}
		v.Items = append(v.Items, item)
		v.Rows = append(v.Rows, row)
	}

	return v, nil
}

func (r *collectionResource[T]) get(id string) (any, bool) {
	return r.c.Get(id)
}

func (r *collectionResource[T]) create(ctx context.Context, args []string) (string, error) {
	fields, err := parseFields[T](args)
	if err != nil {
		return "", err
	}
	if err := validation.ValidatePatch(fields); err != nil {
		return "", err
	}

	var zero T
	item, err := models.ApplyPatch(zero, fields)
	if err != nil {
		return "", err
	}

	created, err := r.c.Create(ctx, item)
	if err != nil {
		return "", err
	}
	return created.GetID(), nil
}

func (r *collectionResource[T]) update(ctx context.Context, id string, args []string) error {
	patch, err := parseFields[T](args)
	if err != nil {
		return err
	}
	if err := validation.ValidatePatch(patch); err != nil {
		return err
	}

	_, err = r.c.Update(ctx, id, patch)
	return err
}

func (r *collectionResource[T]) remove(ctx context.Context, id string) error {
	return r.c.Delete(ctx, id)
}

func (r *collectionResource[T]) pending() int {
	return len(r.c.Pending())
}

func (r *collectionResource[T]) lastSync(ctx context.Context) (time.Time, bool) {
	return r.c.LastSync(ctx)
}

func (r *collectionResource[T]) isStale(ctx context.Context) bool {
	return r.c.IsStale(ctx)
}

func (r *collectionResource[T]) reset(ctx context.Context) {
	r.c.Reset(ctx)
}

func (r *collectionResource[T]) target() sync.Target {
	return sync.For(r.c)
}
