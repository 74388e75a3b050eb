package products

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"merchant/models"
	"merchant/screen"
)

// CategoryLister is satisfied by categories.Controller.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Screen is the products tab: a category filter over the product list.
type Screen struct {
	products   *Controller
	categories CategoryLister
	scope      *screen.Scope

	mu       sync.RWMutex
	cats     []models.Category
	items    []models.Product
	selected int64
}

func NewScreen(parent context.Context, products *Controller, categories CategoryLister) *Screen {
	return &Screen{products: products, categories: categories, scope: screen.NewScope(parent)}
}

// Load fetches categories and products concurrently. Each result is applied
// as soon as it arrives, so either may land first, and a failure of one does
// not cancel the other. The first error is returned after both finish.
func (s *Screen) Load() error {
	var g errgroup.Group
	ctx := s.scope.Context()
	s.mu.RLock()
	selected := s.selected
	s.mu.RUnlock()

	g.Go(func() error {
		cats, err := s.categories.List(ctx)
		if err != nil {
			return err
		}
		s.scope.Commit(func() {
			s.mu.Lock()
			s.cats = cats
			s.mu.Unlock()
		})
		return nil
	})
	g.Go(func() error {
		items, err := s.products.List(ctx, selected)
		if err != nil {
			return err
		}
		s.applyItems(selected, items)
		return nil
	})
	return g.Wait()
}

// Select switches the category filter and reloads the products.
func (s *Screen) Select(categoryID int64) error {
	s.mu.Lock()
	s.selected = categoryID
	s.mu.Unlock()

	items, err := s.products.List(s.scope.Context(), categoryID)
	if err != nil {
		s.applyItems(categoryID, []models.Product{})
		return err
	}
	s.applyItems(categoryID, items)
	return nil
}

// applyItems drops a list fetched for a filter the merchant has since left.
func (s *Screen) applyItems(forCategory int64, items []models.Product) {
	s.scope.Commit(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.selected == forCategory {
			s.items = items
		}
	})
}

// Delete removes a product and drops it from the list.
func (s *Screen) Delete(id int64) error {
	if err := s.products.Delete(s.scope.Context(), id); err != nil {
		return err
	}
	s.scope.Commit(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		kept := s.items[:0:0]
		for _, p := range s.items {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.items = kept
	})
	return nil
}

// Categories returns the filter options, "All" first.
func (s *Screen) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.cats)+1)
	out = append(out, models.Category{ID: AllCategories, Name: "All"})
	return append(out, s.cats...)
}

func (s *Screen) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Screen) Close() {
	s.scope.Close()
}
