package orderparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"pomodoro", "pomodoro", 1},
		{"pomodoor", "pomodoro", 0.75},
		{"mele goldn", "mele golden", 10.0 / 11.0},
		{"meleh", "mele golden", 4.0 / 11.0},
		{"xyzqqq", "pomodoro", 0},
		// runes, not bytes
		{"più", "piu", 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatch_ExactPrecedence(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: "p1", Name: "Pomodoro Cuore di Bue", Unit: UnitKilogram},
		{ID: "p2", Name: "Pomodoro", Unit: UnitKilogram},
	}

	got, ok := Match("  POMODORO ", catalog)
	require.True(t, ok)
	assert.Equal(t, "p2", got.ID)
}

func TestMatch_SubstringFallback(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: "p1", Name: "Pomodori San Marzano"},
		{ID: "p2", Name: "Mele Golden"},
	}

	got, ok := Match("mele", catalog)
	require.True(t, ok)
	assert.Equal(t, "p2", got.ID)

	// catalog name contained in the free text
	got, ok = Match("mele golden del trentino", catalog)
	require.True(t, ok)
	assert.Equal(t, "p2", got.ID)
}

func TestMatch_SubstringFirstInCatalogOrder(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: "a", Name: "Insalata Iceberg"},
		{ID: "b", Name: "Insalata Romana"},
	}

	got, ok := Match("insalata", catalog)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestMatch_Similarity(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: "p1", Name: "Pomodoro"},
		{ID: "p2", Name: "Mele Golden"},
	}

	got, ok := Match("pomodoor", catalog)
	require.True(t, ok)
	assert.Equal(t, "p1", got.ID)

	got, ok = Match("mele goldn", catalog)
	require.True(t, ok)
	assert.Equal(t, "p2", got.ID)
}

func TestMatch_ThresholdIsExclusive(t *testing.T) {
	// distance 2 over 5 runes: exactly 0.6
	catalog := []CatalogEntry{{ID: "p1", Name: "abcxy"}}
	require.InDelta(t, 0.6, Similarity("abcde", "abcxy"), 1e-9)

	_, ok := Match("abcde", catalog)
	assert.False(t, ok)
}

func TestMatch_SimilarityTieKeepsFirst(t *testing.T) {
	forward := []CatalogEntry{{ID: "e", Name: "Carote"}, {ID: "a", Name: "Carota"}}
	reverse := []CatalogEntry{{ID: "a", Name: "Carota"}, {ID: "e", Name: "Carote"}}

	got, ok := Match("carotx", forward)
	require.True(t, ok)
	assert.Equal(t, "e", got.ID)

	got, ok = Match("carotx", reverse)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestMatch_Unmatched(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: "p1", Name: "Pomodoro"},
		{ID: "p2", Name: "Mele Golden"},
	}

	_, ok := Match("xyzqqq", catalog)
	assert.False(t, ok)

	_, ok = Match("   ", catalog)
	assert.False(t, ok, "blank names never match")

	_, ok = Match("pomodoro", nil)
	assert.False(t, ok)
}
