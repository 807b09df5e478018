package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/internal/infrastructure/storage/postgres"
)

func TestProductRepo_ListQuery(t *testing.T) {
	repo := NewProductRepo(nil)

	tests := []struct {
		name          string
		availableOnly bool
		wantSQL       string
		wantArgs      []any
	}{
		{
			name:    "all",
			wantSQL: "SELECT id, code, name, unit, category, available, sort_order FROM cat_products ORDER BY sort_order ASC, name ASC",
		},
		{
			name:          "available",
			availableOnly: true,
			wantSQL:       "SELECT id, code, name, unit, category, available, sort_order FROM cat_products WHERE available = $1 ORDER BY sort_order ASC, name ASC",
			wantArgs:      []any{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.availableOnly).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, len(tt.wantArgs), len(args))
			for i := range tt.wantArgs {
				assert.Equal(t, tt.wantArgs[i], args[i])
			}
		})
	}
}

func TestProductRepo_UpsertQuery(t *testing.T) {
	repo := NewProductRepo(nil)
	p := product.NewProduct("ORT-001", "Pomodori San Marzano", product.CategoryVegetables)
	p.SortOrder = 10

	q, err := repo.upsertQuery(p, "code", "id")
	require.NoError(t, err)
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO cat_products (id,code,name,unit,category,available,sort_order) VALUES ($1,$2,$3,$4,$5,$6,$7) "+
			"ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, unit = EXCLUDED.unit, category = EXCLUDED.category, "+
			"available = EXCLUDED.available, sort_order = EXCLUDED.sort_order",
		sql)
	require.Len(t, args, 7)
	assert.Equal(t, p.ID, args[0])
	assert.Equal(t, "ORT-001", args[1])
	assert.Equal(t, 10, args[6])
}

func TestProductColumnsMatchSchema(t *testing.T) {
	for _, col := range postgres.ExtractDBColumns[product.Product]() {
		assert.Contains(t, postgres.ProductSchema, col)
	}
}
