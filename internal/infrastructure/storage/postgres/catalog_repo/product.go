package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
		),
	}
}

// List returns every product in catalog order.
func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	return r.selectMany(ctx, r.listQuery(false))
}

// ListAvailable returns products on sale in catalog order.
func (r *ProductRepo) ListAvailable(ctx context.Context) ([]*product.Product, error) {
	return r.selectMany(ctx, r.listQuery(true))
}

// Upsert inserts or updates a product by code; the id of an existing row is kept.
func (r *ProductRepo) Upsert(ctx context.Context, p *product.Product) error {
	q, err := r.upsertQuery(p, "code", "id")
	if err != nil {
		return err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", productTable, err)
	}
	return nil
}

func (r *ProductRepo) listQuery(availableOnly bool) squirrel.SelectBuilder {
	q := r.baseSelect()
	if availableOnly {
		q = q.Where(squirrel.Eq{"available": true})
	}
	return q.OrderBy("sort_order ASC", "name ASC")
}
