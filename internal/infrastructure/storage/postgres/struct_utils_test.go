package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type timestamps struct {
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type sample struct {
	timestamps
	ID     string `db:"id"`
	Name   string `db:"name"`
	Hidden string `db:"-"`
	NoTag  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sample]()
	assert.ElementsMatch(t, []string{"created_at", "updated_at", "id", "name"}, cols)
}

func TestStructToMap(t *testing.T) {
	s := sample{
		timestamps: timestamps{CreatedAt: "c", UpdatedAt: "u"},
		ID:         "1",
		Name:       "Chilanzar",
		Hidden:     "secret",
		NoTag:      "skip",
	}

	m := StructToMap(&s)
	assert.Equal(t, map[string]any{
		"created_at": "c",
		"updated_at": "u",
		"id":         "1",
		"name":       "Chilanzar",
	}, m)
}

func TestStructToMapNilEmbeddedPointer(t *testing.T) {
	type wrapper struct {
		*timestamps
		ID string `db:"id"`
	}
	m := StructToMap(wrapper{ID: "1"})
	assert.Equal(t, map[string]any{"id": "1"}, m)
}

func TestStructToMapNonStruct(t *testing.T) {
	assert.Nil(t, StructToMap("not a struct"))
}
