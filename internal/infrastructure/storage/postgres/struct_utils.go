package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns returns the column names from T's "db" tags, in field
// order, descending into embedded structs.
//
//	columns := ExtractDBColumns[product.Product]()
//	// ["id", "code", "name", "unit", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	fields := dbFields(reflect.TypeOf(zero))
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols
}

// StructToMap converts a struct (or pointer to one) to column → value using
// "db" tags. Fields without a tag or tagged "-" are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	fields := dbFields(rv.Type())
	res := make(map[string]any, len(fields))
	for _, f := range fields {
		res[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return res
}

type dbField struct {
	column string
	index  []int
}

var fieldCache sync.Map // reflect.Type -> []dbField

func dbFields(t reflect.Type) []dbField {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]dbField)
	}

	var fields []dbField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			for _, inner := range dbFields(sf.Type) {
				fields = append(fields, dbField{
					column: inner.column,
					index:  append([]int{i}, inner.index...),
				})
			}
			continue
		}
		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		fields = append(fields, dbField{column: tag, index: []int{i}})
	}

	fieldCache.Store(t, fields)
	return fields
}
