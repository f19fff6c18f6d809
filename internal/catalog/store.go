package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Store holds the loaded catalog. The catalog is only ever replaced as a
// whole; individual products are never edited in place.
type Store struct {
	mu       sync.RWMutex
	products []Product
	index    map[string]int
	loaded   bool
}

func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

// Replace swaps in a new catalog. Products with a duplicate ID are dropped
// (the first one wins) and negative prices are discarded; each correction is
// returned as a warning.
func (s *Store) Replace(products []Product) []string {
	var warnings []string

	clean := make([]Product, 0, len(products))
	index := make(map[string]int, len(products))
	for _, p := range products {
		if _, dup := index[p.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate product id %q dropped", p.ID))
			continue
		}
		if p.Price != nil && *p.Price < 0 {
			warnings = append(warnings, fmt.Sprintf("product %q has negative price, treated as absent", p.ID))
			p.Price = nil
		} else if p.Price != nil {
			p.Price = PriceOf(*p.Price)
		}
		index[p.ID] = len(clean)
		clean = append(clean, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = clean
	s.index = index
	s.loaded = true
	return warnings
}

// Products returns the current catalog in load order. The returned slice is
// shared and must be treated as read-only.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
