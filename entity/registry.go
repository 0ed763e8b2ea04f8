package entity

import (
	"fmt"
	"reflect"
)

// Registry is a manual introspection provider: callers register a mapping
// function per type instead of relying on reflection. Registration
// happens at setup time; Describe calls may then run concurrently.
type Registry struct {
	mappers map[reflect.Type]func(any) Descriptor
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{mappers: make(map[reflect.Type]func(any) Descriptor)}
}

// Register binds a mapping function for T under the given entity name.
// Registering the same type twice replaces the earlier mapping.
func Register[T any](r *Registry, name string, mapper func(T) []Column) {
	var zero T
	t := reflect.TypeOf(zero)
	r.mappers[t] = func(v any) Descriptor {
		return Descriptor{Name: name, Columns: mapper(v.(T))}
	}
}

// Describe implements Provider. Unregistered types fail; the registry
// never falls back to reflection silently.
func (r *Registry) Describe(v any) (Descriptor, error) {
	if v == nil {
		panic("entity: nil value")
	}
	mapper, ok := r.mappers[reflect.TypeOf(v)]
	if !ok {
		return Descriptor{}, fmt.Errorf("entity: no mapping registered for %T", v)
	}
	return mapper(v), nil
}
