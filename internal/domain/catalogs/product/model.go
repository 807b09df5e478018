// Package product provides the product catalog: what the wholesaler sells and
// what incoming orders are resolved against.
package product

import (
	"context"
	"strings"

	"ortoflow/internal/core/apperror"
	"ortoflow/internal/core/id"
	"ortoflow/internal/domain/orderparse"
)

// Category groups products for unit defaults and listing.
type Category string

const (
	CategoryFruit      Category = "fruit"      // Frutta
	CategoryVegetables Category = "vegetables" // Verdura
	CategoryHerbs      Category = "herbs"      // Erbe aromatiche
	CategoryLeafy      Category = "leafy"      // Insalate
	CategoryBerries    Category = "berries"    // Frutti di bosco
	CategoryOther      Category = "other"
)

// DefaultUnit is the unit a product of this category is usually sold in.
func (c Category) DefaultUnit() orderparse.Unit {
	switch c {
	case CategoryHerbs:
		return orderparse.UnitBunch
	case CategoryBerries:
		return orderparse.UnitPack
	case CategoryLeafy:
		return orderparse.UnitPiece
	default:
		return orderparse.UnitKilogram
	}
}

func (c Category) valid() bool {
	switch c {
	case CategoryFruit, CategoryVegetables, CategoryHerbs, CategoryLeafy, CategoryBerries, CategoryOther:
		return true
	}
	return false
}

// Product is a catalog entry.
type Product struct {
	ID        id.ID           `db:"id" json:"id"`
	Code      string          `db:"code" json:"code"`
	Name      string          `db:"name" json:"name"`
	Unit      orderparse.Unit `db:"unit" json:"unit"`
	Category  Category        `db:"category" json:"category"`
	Available bool            `db:"available" json:"available"`

	// SortOrder fixes the catalog order, which decides matching ties.
	SortOrder int `db:"sort_order" json:"sortOrder"`
}

// NewProduct creates an available product sold in its category's default unit.
func NewProduct(code, name string, category Category) *Product {
	return &Product{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		Unit:      category.DefaultUnit(),
		Category:  category,
		Available: true,
	}
}

// Validate checks required fields and enumerations.
func (p *Product) Validate(_ context.Context) error {
	if strings.TrimSpace(p.Code) == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !p.Unit.Valid() {
		return apperror.NewValidation("invalid unit").
			WithDetail("field", "unit").
			WithDetail("value", string(p.Unit))
	}
	if !p.Category.valid() {
		return apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}
	return nil
}

// ToEntry converts the product to the shape order parsing resolves against.
func (p *Product) ToEntry() orderparse.CatalogEntry {
	return orderparse.CatalogEntry{
		ID:        p.ID.String(),
		Name:      p.Name,
		Unit:      p.Unit,
		Available: p.Available,
	}
}
