// Package store provides the catalog data sources the loader fetches from.
package store

import (
	"context"
	"sync"

	"ivalid/domain"
)

// InMemorySource is a thread-safe in-memory domain.DataSource
type InMemorySource struct {
	mu         sync.RWMutex
	products   []domain.Product
	index      map[string]int
	categories []domain.Category
	failWith   error
}

// NewInMemorySource constructs an empty InMemorySource
func NewInMemorySource() *InMemorySource {
	return &InMemorySource{
		index: make(map[string]int),
	}
}

// NewFixtureSource returns a source seeded with the fixture catalog.
func NewFixtureSource() *InMemorySource {
	s := NewInMemorySource()
	for _, p := range FixtureProducts() {
		s.index[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	s.categories = FixtureCategories()
	return s
}

// compile-time assertion that InMemorySource implements domain.DataSource
var _ domain.DataSource = (*InMemorySource)(nil)

func (s *InMemorySource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]domain.Product(nil), s.products...), nil
}

func (s *InMemorySource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]domain.Category(nil), s.categories...), nil
}

func (s *InMemorySource) Get(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	return s.products[i], nil
}

// Import adds the valid products and reports every rejected one.
func (s *InMemorySource) Import(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accepted, err := prepareImport(products, func(id string) bool {
		_, ok := s.index[id]
		return ok
	})
	for _, p := range accepted {
		s.index[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	return err
}

// SetCategories replaces the category list served by FetchCategories.
func (s *InMemorySource) SetCategories(ctx context.Context, categories []domain.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepareCategories(categories); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]domain.Category(nil), categories...)
	return nil
}

// FailWith makes every later fetch return err; nil restores normal behavior.
func (s *InMemorySource) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}
