package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ortoflow/internal/domain/catalogs/product"
)

func TestDemoCatalog(t *testing.T) {
	products := demoCatalog()
	require.NotEmpty(t, products)

	codes := make(map[string]bool, len(products))
	prev := 0
	for _, p := range products {
		require.NoError(t, p.Validate(context.Background()), p.Code)
		assert.False(t, codes[p.Code], "duplicate code %s", p.Code)
		codes[p.Code] = true
		assert.Greater(t, p.SortOrder, prev)
		prev = p.SortOrder
	}
}

func TestDemoCatalog_Saves(t *testing.T) {
	repo := product.NewMemoryRepository()
	svc := product.NewService(repo, nil)
	require.NoError(t, svc.Save(context.Background(), demoCatalog()...))

	entries, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, len(demoCatalog()))
	assert.Equal(t, "Pomodoro tondo", entries[0].Name)
}
