package executor

import (
	"database/sql"
	"reflect"
	"strings"
)

// ScanRows maps a row set into a slice of T by matching result columns to
// struct fields: a db tag first, then the verbatim field name, then a
// case-insensitive match. Unmapped columns are discarded. Rows is closed
// before returning.
func ScanRows[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []T
	for rows.Next() {
		var result T
		rv := reflect.ValueOf(&result).Elem()
		targets := make([]any, len(columns))
		for i, col := range columns {
			if field := fieldFor(rv, col); field.IsValid() && field.CanAddr() {
				targets[i] = field.Addr().Interface()
			} else {
				targets[i] = new(sql.RawBytes)
			}
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// ScanFirst maps the first row into a T. ok is false for an empty set.
func ScanFirst[T any](rows *sql.Rows) (T, bool, error) {
	var zero T
	all, err := ScanRows[T](rows)
	if err != nil || len(all) == 0 {
		return zero, false, err
	}
	return all[0], true, nil
}

func fieldFor(rv reflect.Value, column string) reflect.Value {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag, ok := field.Tag.Lookup("db"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == column {
				return rv.Field(i)
			}
			if name != "" {
				continue
			}
		}
		if field.Name == column {
			return rv.Field(i)
		}
	}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.IsExported() && strings.EqualFold(field.Name, column) {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}
