// Package service holds the household business logic: CRUD resources,
// the upcoming-payments feed, the shared note, calendar sync and the
// background scheduler. Persistence is delegated to repository interfaces.
package service

import (
	"context"
	"fmt"
)

// Repository defines the persistence operations shared by every entity.
type Repository[E any, I any, P any] interface {
	// List returns every row in display order.
	List(ctx context.Context) ([]E, error)
	// Get returns the row with the given id, or nil when it does not exist.
	Get(ctx context.Context, id int64) (*E, error)
	// Create stores a row and returns it with its id and creation time.
	Create(ctx context.Context, in I) (E, error)
	// Update merges p into the row, or returns nil when it does not exist.
	Update(ctx context.Context, id int64, p P) (*E, error)
	// Delete removes the row. Missing rows are not an error.
	Delete(ctx context.Context, id int64) error
}

// Input is an insert shape that can validate itself and fill defaults.
type Input[I any] interface {
	Validate() error
	WithDefaults() I
}

// Patch is a partial update that can validate the fields it carries.
type Patch interface {
	Validate() error
}

// Resource implements CRUD for one entity on top of a Repository.
type Resource[E any, I Input[I], P Patch] struct {
	name string
	repo Repository[E, I, P]
}

// NewResource constructs a Resource. name is used in error messages.
func NewResource[E any, I Input[I], P Patch](name string, repo Repository[E, I, P]) *Resource[E, I, P] {
	return &Resource[E, I, P]{name: name, repo: repo}
}

// Name returns the resource name, e.g. "task".
func (s *Resource[E, I, P]) Name() string {
	return s.name
}

// List returns every row.
func (s *Resource[E, I, P]) List(ctx context.Context) ([]E, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.name, err)
	}
	return items, nil
}

// Get returns one row, or nil.
func (s *Resource[E, I, P]) Get(ctx context.Context, id int64) (*E, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.name, err)
	}
	return item, nil
}

// Create validates in, applies its defaults and stores it. Validation
// failures are returned as *models.ValidationError.
func (s *Resource[E, I, P]) Create(ctx context.Context, in I) (E, error) {
	var zero E
	if err := in.Validate(); err != nil {
		return zero, err
	}
	item, err := s.repo.Create(ctx, in.WithDefaults())
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", s.name, err)
	}
	return item, nil
}

// Update validates p and merges it into the row. It returns nil when the
// row does not exist.
func (s *Resource[E, I, P]) Update(ctx context.Context, id int64, p P) (*E, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	item, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.name, err)
	}
	return item, nil
}

// Delete removes the row if it exists.
func (s *Resource[E, I, P]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.name, err)
	}
	return nil
}
