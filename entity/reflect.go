package entity

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
)

var valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()

// Reflector introspects struct values with the reflect package. Exported
// fields map to columns in declaration order; a `db` tag overrides the
// column name, `db:"-"` skips the field, and unexported fields are
// ignored. Types implementing driver.Valuer (decimal.Decimal, sql.Null*)
// stay scalar columns rather than being descended into. Anonymous
// embedded structs are flattened in place.
type Reflector struct{}

// Describe implements Provider. It panics on a nil value (programmer
// error) and returns an error for non-struct values.
func (Reflector) Describe(v any) (Descriptor, error) {
	if v == nil {
		panic("entity: nil value")
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			panic("entity: nil pointer value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Descriptor{}, fmt.Errorf("entity: %T is not a struct", v)
	}
	return Descriptor{
		Name:    rv.Type().Name(),
		Columns: structColumns(rv),
	}, nil
}

func structColumns(rv reflect.Value) []Column {
	rt := rv.Type()
	columns := make([]Column, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := columnName(field)
		if skip {
			continue
		}
		value := rv.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct &&
			!value.Type().Implements(valuerType) {
			columns = append(columns, structColumns(value)...)
			continue
		}
		columns = append(columns, Column{Name: name, Value: columnValue(value)})
	}
	return columns
}

// columnName resolves a field's column name from its db tag, falling back
// to the verbatim field name.
func columnName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("db")
	if !ok {
		return field.Name, false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		return field.Name, false
	}
	return name, false
}

// columnValue unwraps a field into the value bound to its parameter. Nil
// pointers stay nil so the column still binds (as NULL); the column list
// never becomes sparse, which keeps column/placeholder parity across
// entities of the same type.
func columnValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
