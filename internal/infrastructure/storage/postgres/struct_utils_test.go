package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type Stamped struct {
	ID      string `db:"id"`
	Version int    `db:"version"`
}

type sampleRow struct {
	Stamped
	Code    string `db:"code"`
	Name    string `db:"name"`
	Skipped string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "version", "code", "name"}, ExtractDBColumns[sampleRow]())
	assert.Equal(t, []string{"id", "version", "code", "name"}, ExtractDBColumns[*sampleRow]())
	assert.Empty(t, ExtractDBColumns[int]())
}

func TestStructToMap(t *testing.T) {
	row := &sampleRow{
		Stamped: Stamped{ID: "a1", Version: 3},
		Code:    "P001",
		Name:    "Mele Golden",
		Skipped: "x",
		NoTag:   "y",
	}

	assert.Equal(t, map[string]any{
		"id":      "a1",
		"version": 3,
		"code":    "P001",
		"name":    "Mele Golden",
	}, StructToMap(row))

	assert.Nil(t, StructToMap((*sampleRow)(nil)))
	assert.Nil(t, StructToMap(42))
}
