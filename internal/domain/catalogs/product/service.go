package product

import (
	"context"
	"fmt"

	"ortoflow/internal/core/tx"
	"ortoflow/internal/domain/orderparse"
	"ortoflow/pkg/logger"
)

// Service provides catalog reads for order parsing and the API.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new product service. A nil txm saves without a
// transaction.
func NewService(repo Repository, txm tx.Manager) *Service {
	if txm == nil {
		txm = tx.None
	}
	return &Service{repo: repo, txm: txm}
}

// ListAvailable returns products currently on sale.
func (s *Service) ListAvailable(ctx context.Context) ([]*Product, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	return items, nil
}

// Snapshot returns the available catalog as matching entries. The slice is
// owned by the caller and stays fixed for one parse.
func (s *Service) Snapshot(ctx context.Context) ([]orderparse.CatalogEntry, error) {
	items, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]orderparse.CatalogEntry, 0, len(items))
	for _, p := range items {
		entries = append(entries, p.ToEntry())
	}
	logger.Debug(ctx, "catalog snapshot", "entries", len(entries))
	return entries, nil
}

// Save validates and upserts products in one transaction: either all are
// saved or none.
func (s *Service) Save(ctx context.Context, products ...*Product) error {
	for _, p := range products {
		if err := p.Validate(ctx); err != nil {
			return err
		}
	}
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, p := range products {
			if err := s.repo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("save product %s: %w", p.Code, err)
			}
		}
		logger.Info(ctx, "products saved", "count", len(products))
		return nil
	})
}
