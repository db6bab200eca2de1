package locator

import "reflect"

// Type identifies a service registration. Registrations are keyed by the
// service's Go type, obtained via TypeFor.
type Type = reflect.Type

// TypeFor returns the registration key for T.
//
// Register services under the type callers will ask for: an interface type
// when consumers depend on the interface, the concrete pointer type otherwise.
func TypeFor[T any]() Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Table maps type identifiers to registered service instances.
//
// It is intentionally:
//   - flat: one instance per type identifier
//   - hierarchy-unaware: fallback lives in Node, not here
//   - last-write-wins: re-registering a type silently replaces the old entry
//
// A Table is owned exclusively by its Node and is never shared.
type Table struct {
	entries map[Type]any
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[Type]any)}
}

// Register stores instance under typ, overwriting any prior entry for that
// type. There are no error conditions.
func (t *Table) Register(typ Type, instance any) {
	t.entries[typ] = instance
}

// TryGet returns the instance registered under typ, if any. Pure lookup: no
// side effects, no fallback.
func (t *Table) TryGet(typ Type) (any, bool) {
	v, ok := t.entries[typ]
	return v, ok
}

// Len returns the number of registrations held.
func (t *Table) Len() int { return len(t.entries) }

// Types returns the registered type identifiers in unspecified order.
func (t *Table) Types() []Type {
	out := make([]Type, 0, len(t.entries))
	for typ := range t.entries {
		out = append(out, typ)
	}
	return out
}
