// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ortoflow/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides query plumbing shared by catalog repositories.
// Statements run on the transaction in ctx when there is one.
type BaseCatalogRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](txm *postgres.TxManager, tableName string, selectCols []string) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:        txm,
		tableName:  tableName,
		selectCols: selectCols,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// baseSelect creates a SELECT builder over all mapped columns.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.selectCols...).From(r.tableName)
}

// selectMany runs q and scans every row.
func (r *BaseCatalogRepo[T]) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.tableName, err)
	}
	return items, nil
}

// upsertQuery builds INSERT ... ON CONFLICT (conflictCol) DO UPDATE from the
// entity's "db" tags. Columns in keep are never overwritten.
func (r *BaseCatalogRepo[T]) upsertQuery(entity T, conflictCol string, keep ...string) (squirrel.InsertBuilder, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return squirrel.InsertBuilder{}, fmt.Errorf("no db tags found in entity")
	}

	cols := make([]string, 0, len(r.selectCols))
	vals := make([]any, 0, len(r.selectCols))
	for _, col := range r.selectCols {
		if v, ok := data[col]; ok {
			cols = append(cols, col)
			vals = append(vals, v)
		}
	}

	skip := map[string]bool{conflictCol: true}
	for _, k := range keep {
		skip[k] = true
	}
	suffix := "ON CONFLICT (" + conflictCol + ") DO UPDATE SET "
	first := true
	for _, col := range cols {
		if skip[col] {
			continue
		}
		if !first {
			suffix += ", "
		}
		suffix += col + " = EXCLUDED." + col
		first = false
	}

	return r.Builder().
		Insert(r.tableName).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix), nil
}
