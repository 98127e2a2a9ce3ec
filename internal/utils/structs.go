package utils

import (
	"fmt"
	"reflect"
	"slices"
)

// ColumnTag is the struct tag holding a field's column name.
const ColumnTag = "db"

// eachColumn calls fn for every exported field of a struct, or pointer to
// one, that carries a column tag.
func eachColumn(input any, fn func(column string, value reflect.Value)) {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("expected a struct or a pointer to one, got %T", input))
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		column := field.Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, v.Field(i))
	}
}

// StructTagValues lists the column names of a row type in field order.
func StructTagValues(input any) []string {
	var columns []string
	eachColumn(input, func(column string, _ reflect.Value) {
		columns = append(columns, column)
	})
	return columns
}

// StructToMap maps column names to field values, leaving out the omitted
// columns.
func StructToMap(input any, omit ...string) map[string]any {
	result := make(map[string]any)
	eachColumn(input, func(column string, value reflect.Value) {
		if slices.Contains(omit, column) {
			return
		}
		result[column] = value.Interface()
	})
	return result
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
