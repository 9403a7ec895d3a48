package shader

import (
	"maps"
	"slices"

	"github.com/Faultbox/sloth/internal/options"
)

// Slot is a texture map type.
type Slot int

// Map slots, in matching order.
const (
	Diffuse Slot = iota
	Normal
	Height
	Specular
	Addition
	Preview
)

// Slots lists every slot in matching order.
var Slots = []Slot{Diffuse, Normal, Height, Specular, Addition, Preview}

var slotNames = [...]string{
	Diffuse:  "diffuse",
	Normal:   "normal",
	Height:   "height",
	Specular: "specular",
	Addition: "addition",
	Preview:  "preview",
}

// String returns the slot name.
func (s Slot) String() string {
	if s < 0 || int(s) >= len(slotNames) {
		return "unknown"
	}
	return slotNames[s]
}

// MapRef names a texture map file.
type MapRef struct {
	Name string // Basename without extension
	Ext  string // Extension including the dot
}

// Meta is what the generator learned about a material's maps.
type Meta struct {
	DiffuseAlpha      bool         // Diffuse map has an alpha channel
	AdditionGrayscale bool         // Addition map is grayscale
	LightIntensity    *int         // Surface light intensity of a light variant
	LightColor        *options.RGB // Light color of a tinted light variant
}

// Material is one shader to be emitted.
type Material struct {
	Name     string          // Shader name, unique within its set
	SetName  string          // Owning set
	RelPath  string          // parent/dir path used in map references
	AbsPath  string          // Source directory
	Maps     map[Slot]MapRef // Resolved maps; absent slots have no map
	Options  options.Options // Effective options
	Meta     Meta            // Map metadata
	Keywords Keywords        // Renderer keywords
}

// Map returns the map in slot s.
func (m *Material) Map(s Slot) (MapRef, bool) {
	ref, ok := m.Maps[s]
	return ref, ok
}

// Clone returns a deep copy of the material.
func (m *Material) Clone() *Material {
	out := *m
	out.Maps = maps.Clone(m.Maps)
	out.Options = m.Options.Clone()
	out.Keywords = m.Keywords.clone()
	if m.Meta.LightIntensity != nil {
		v := *m.Meta.LightIntensity
		out.Meta.LightIntensity = &v
	}
	if m.Meta.LightColor != nil {
		c := *m.Meta.LightColor
		out.Meta.LightColor = &c
	}
	return &out
}

// Keyword is a renderer keyword value: either a single string or a set of
// strings emitted one per line.
type Keyword struct {
	value   string
	members map[string]struct{}
}

// IsSet reports whether the keyword holds a set of values.
func (k Keyword) IsSet() bool { return k.members != nil }

// Values returns the single value, or the set members sorted.
func (k Keyword) Values() []string {
	if k.members == nil {
		return []string{k.value}
	}
	return slices.Sorted(maps.Keys(k.members))
}

// Has reports whether v is the value or a member of the keyword.
func (k Keyword) Has(v string) bool {
	if k.members == nil {
		return k.value == v
	}
	_, ok := k.members[v]
	return ok
}

// Keywords maps keyword names to values.
type Keywords map[string]Keyword

// Set stores a single-valued keyword.
func (k Keywords) Set(name, value string) {
	k[name] = Keyword{value: value}
}

// Add adds member to a set-valued keyword. A single value stored under the
// same name is replaced by the set.
func (k Keywords) Add(name, member string) {
	kw := k[name]
	if kw.members == nil {
		kw = Keyword{members: make(map[string]struct{})}
	}
	kw.members[member] = struct{}{}
	k[name] = kw
}

// Names returns the keyword names sorted.
func (k Keywords) Names() []string {
	return slices.Sorted(maps.Keys(k))
}

func (k Keywords) clone() Keywords {
	if k == nil {
		return nil
	}
	out := make(Keywords, len(k))
	for name, kw := range k {
		if kw.members != nil {
			kw = Keyword{members: maps.Clone(kw.members)}
		}
		out[name] = kw
	}
	return out
}
