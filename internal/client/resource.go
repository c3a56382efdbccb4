package client

import (
	"context"
	"fmt"
	"net/http"
)

const keyUpcomingPayments = "dashboard/upcoming-payments"

// Resource is the client side of one /api/{name} collection.
type Resource[E any, I any, P any] struct {
	c    *Client
	name string
	// also lists extra cache keys cleared by every mutation.
	also []string
}

func newResource[E any, I any, P any](c *Client, name string, also ...string) *Resource[E, I, P] {
	return &Resource[E, I, P]{c: c, name: name, also: also}
}

// Name returns the collection path segment, e.g. "car-services".
func (r *Resource[E, I, P]) Name() string {
	return r.name
}

// List returns the collection, from the cache when possible.
func (r *Resource[E, I, P]) List(ctx context.Context) ([]E, error) {
	var items []E
	if err := r.c.cached(ctx, r.name, r.path(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one item directly from the server.
func (r *Resource[E, I, P]) Get(ctx context.Context, id int64) (E, error) {
	var item E
	err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, &item)
	return item, err
}

// Create posts in and invalidates the collection.
func (r *Resource[E, I, P]) Create(ctx context.Context, in I) (E, error) {
	var item E
	if err := r.c.do(ctx, http.MethodPost, r.path(), in, &item); err != nil {
		return item, err
	}
	r.invalidate()
	return item, nil
}

// Update sends a partial update and invalidates the collection.
func (r *Resource[E, I, P]) Update(ctx context.Context, id int64, p P) (E, error) {
	var item E
	if err := r.c.do(ctx, http.MethodPatch, r.itemPath(id), p, &item); err != nil {
		return item, err
	}
	r.invalidate()
	return item, nil
}

// Delete removes an item and invalidates the collection.
func (r *Resource[E, I, P]) Delete(ctx context.Context, id int64) error {
	if err := r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *Resource[E, I, P]) invalidate() {
	r.c.cache.Invalidate(append([]string{r.name}, r.also...)...)
}

func (r *Resource[E, I, P]) path() string {
	return "/api/" + r.name
}

func (r *Resource[E, I, P]) itemPath(id int64) string {
	return fmt.Sprintf("/api/%s/%d", r.name, id)
}
