package product

import "context"

// Repository defines the interface for Product persistence.
// Listings are ordered by sort order, then name.
type Repository interface {
	// List returns every product.
	List(ctx context.Context) ([]*Product, error)

	// ListAvailable returns products currently on sale.
	ListAvailable(ctx context.Context) ([]*Product, error)

	// Upsert inserts or updates a product by code.
	Upsert(ctx context.Context, p *Product) error
}
