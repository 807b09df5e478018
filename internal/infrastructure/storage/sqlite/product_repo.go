package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

const productSchema = `
CREATE TABLE IF NOT EXISTS cat_products (
	id         TEXT    PRIMARY KEY,
	code       TEXT    NOT NULL UNIQUE,
	name       TEXT    NOT NULL,
	unit       TEXT    NOT NULL,
	category   TEXT    NOT NULL DEFAULT 'other',
	available  INTEGER NOT NULL DEFAULT 1,
	sort_order INTEGER NOT NULL DEFAULT 0
)`

// ProductRepo implements product.Repository on SQLite.
// Columns come from the db tags of product.Product; the id is stored as TEXT
// through uuid's Scanner/Valuer.
type ProductRepo struct {
	db         *sql.DB
	selectCols []string
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a repository over db. The schema must exist (see Open).
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{
		db:         db,
		selectCols: postgres.ExtractDBColumns[product.Product](),
	}
}

// Builder returns a statement builder with SQLite placeholders.
func (r *ProductRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
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
	query, args, err := r.upsertQuery(p).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", productTable, err)
	}
	return nil
}

func (r *ProductRepo) listQuery(availableOnly bool) squirrel.SelectBuilder {
	q := r.Builder().Select(r.selectCols...).From(productTable)
	if availableOnly {
		q = q.Where(squirrel.Eq{"available": true})
	}
	return q.OrderBy("sort_order ASC", "name ASC")
}

func (r *ProductRepo) upsertQuery(p *product.Product) squirrel.InsertBuilder {
	updates := make([]string, 0, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "code" {
			continue
		}
		updates = append(updates, col+" = excluded."+col)
	}
	return r.Builder().
		Insert(productTable).
		SetMap(postgres.StructToMap(p)).
		Suffix("ON CONFLICT (code) DO UPDATE SET " + strings.Join(updates, ", "))
}

func (r *ProductRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*product.Product, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var items []*product.Product
	if err := sqlscan.Select(ctx, r.db, &items, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", productTable, err)
	}
	return items, nil
}
