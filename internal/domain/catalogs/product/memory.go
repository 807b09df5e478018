package product

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository for tests and demos.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Product
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a repository holding products.
func NewMemoryRepository(products ...*Product) *MemoryRepository {
	r := &MemoryRepository{items: make(map[string]*Product, len(products))}
	for _, p := range products {
		cp := *p
		r.items[p.Code] = &cp
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]*Product, error) {
	return r.list(false), nil
}

func (r *MemoryRepository) ListAvailable(_ context.Context) ([]*Product, error) {
	return r.list(true), nil
}

func (r *MemoryRepository) Upsert(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if existing, ok := r.items[p.Code]; ok {
		cp.ID = existing.ID
	}
	r.items[p.Code] = &cp
	return nil
}

func (r *MemoryRepository) list(availableOnly bool) []*Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Product, 0, len(r.items))
	for _, p := range r.items {
		if availableOnly && !p.Available {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}
