package options

import "iter"

// Table is an insertion-ordered mapping from names to values.
// The zero value is an empty table ready to use.
type Table[V comparable] struct {
	names  []string
	values map[string]V
}

// Set stores v under name. It returns the previous value and whether the
// name was already present with a different value.
func (t *Table[V]) Set(name string, v V) (prev V, replaced bool) {
	if t.values == nil {
		t.values = make(map[string]V)
	}

	old, ok := t.values[name]
	if !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = v

	return old, ok && old != v
}

// Get returns the value stored under name.
func (t *Table[V]) Get(name string) (V, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Len returns the number of entries.
func (t *Table[V]) Len() int { return len(t.names) }

// Names returns the entry names in insertion order.
func (t *Table[V]) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// All iterates entries in insertion order.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, name := range t.names {
			if !yield(name, t.values[name]) {
				return
			}
		}
	}
}

// Clear removes every entry.
func (t *Table[V]) Clear() {
	t.names = nil
	t.values = nil
}

// clone returns an independent copy of the table.
func (t Table[V]) clone() Table[V] {
	if len(t.names) == 0 {
		return Table[V]{}
	}

	out := Table[V]{
		names:  make([]string, len(t.names)),
		values: make(map[string]V, len(t.values)),
	}
	copy(out.names, t.names)
	for k, v := range t.values {
		out.values[k] = v
	}

	return out
}
