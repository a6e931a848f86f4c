package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/jobcache/internal/models"
	"github.com/iudanet/jobcache/pkg/api"
)

// Resource is the REST endpoint of one record collection
type Resource[T any] struct {
	client     *Client
	collection string
}

// NewResource creates a typed endpoint for collection
func NewResource[T any](client *Client, collection string) *Resource[T] {
	return &Resource[T]{client: client, collection: collection}
}

func (r *Resource[T]) path() string {
	return "/api/v1/" + url.PathEscape(r.collection)
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path() + "/" + url.PathEscape(id)
}

// List получает все записи коллекции владельца
func (r *Resource[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	query := url.Values{}
	query.Set("owner", ownerID)

	var resp api.ListResponse[T]
	if err := r.client.doRequest(ctx, http.MethodGet, r.path()+"?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s failed: %w", r.collection, err)
	}
	return resp.Items, nil
}

// Create создает запись, ID назначает сервер
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	if err := r.client.doRequest(ctx, http.MethodPost, r.path(), item, &created); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s failed: %w", r.collection, err)
	}
	return created, nil
}

// Update частично обновляет запись
func (r *Resource[T]) Update(ctx context.Context, id string, patch models.Patch) (T, error) {
	var updated T
	if err := r.client.doRequest(ctx, http.MethodPatch, r.itemPath(id), patch, &updated); err != nil {
		var zero T
		return zero, fmt.Errorf("update %s/%s failed: %w", r.collection, id, err)
	}
	return updated, nil
}

// Delete удаляет запись
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.client.doRequest(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete %s/%s failed: %w", r.collection, id, err)
	}
	return nil
}
