// Package entity turns typed values into the ordered (name, value) column
// lists the typed factories consume. The capability is pluggable: the
// reflection provider covers ordinary structs, the registry covers types
// that register a mapping function by hand. Neither the command model nor
// sqlgen depends on this package.
package entity

// Column is one data-carrying member of an entity, in declaration order.
type Column struct {
	Name  string
	Value any
}

// Descriptor is the introspected shape of one entity value.
type Descriptor struct {
	// Name is the entity's type name before any naming strategy runs.
	Name    string
	Columns []Column
}

// Provider yields the ordered columns of a typed value. Implementations
// must be deterministic: the same value always yields the same column
// order.
type Provider interface {
	Describe(v any) (Descriptor, error)
}

// ColumnNames extracts the names from a column list, preserving order.
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// ColumnValues extracts the values from a column list, preserving order.
func ColumnValues(columns []Column) []any {
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = c.Value
	}
	return values
}
