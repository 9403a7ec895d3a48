package shader

import (
	"maps"
	"slices"
)

// Registry accumulates shader sets across generator runs. Sets keep the
// order in which they were first created.
type Registry struct {
	order []string
	sets  map[string]map[string]*Material
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]map[string]*Material)}
}

// Merge adds materials to the named set, creating it if needed. Materials
// with names already present replace the old ones.
func (r *Registry) Merge(set string, mats map[string]*Material) {
	dst, ok := r.sets[set]
	if !ok {
		dst = make(map[string]*Material, len(mats))
		r.sets[set] = dst
		r.order = append(r.order, set)
	}
	for name, m := range mats {
		m.SetName = set
		dst[name] = m
	}
}

// Sets returns the set names in creation order.
func (r *Registry) Sets() []string {
	return slices.Clone(r.order)
}

// Has reports whether the set exists.
func (r *Registry) Has(set string) bool {
	_, ok := r.sets[set]
	return ok
}

// Names returns the material names of a set, sorted.
func (r *Registry) Names(set string) []string {
	return slices.Sorted(maps.Keys(r.sets[set]))
}

// Material returns one material of a set.
func (r *Registry) Material(set, name string) (*Material, bool) {
	m, ok := r.sets[set][name]
	return m, ok
}

// Len returns the number of materials in a set.
func (r *Registry) Len(set string) int {
	return len(r.sets[set])
}

// Clear forgets every set.
func (r *Registry) Clear() {
	r.order = nil
	r.sets = make(map[string]map[string]*Material)
}
