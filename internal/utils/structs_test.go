package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID      int64   `db:"id"`
	City    string  `db:"city"`
	Notes   *string `db:"notes"`
	Skipped string  `db:"-"`
	Plain   string
	hidden  string  `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "city", "notes"}, StructTagValues(row{}))
	assert.Equal(t, []string{"id", "city", "notes"}, StructTagValues(&row{}))
}

func TestStructToMapOmitsColumns(t *testing.T) {
	r := &row{ID: 4, City: "Springfield", hidden: "x"}

	m := StructToMap(r, "id")

	assert.Equal(t, map[string]any{"city": "Springfield", "notes": (*string)(nil)}, m)
}

func TestStructTagValuesRejectsNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructTagValues(42) })
}

func TestErrorWrapOrNil(t *testing.T) {
	assert.NoError(t, ErrorWrapOrNil(nil, "ignored"))

	base := errors.New("boom")
	assert.Same(t, base, ErrorWrapOrNil(base, ""))
	assert.EqualError(t, ErrorWrapOrNil(base, "failed to count"), "failed to count: boom")
	assert.ErrorIs(t, ErrorWrapOrNil(base, "failed to count"), base)
}
