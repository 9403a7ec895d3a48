package shader

import (
	"maps"
	"slices"
	"strings"

	"github.com/Faultbox/sloth/internal/options"
)

// Suffixes maps each slot to the filename suffix its maps carry.
type Suffixes map[Slot]string

// DefaultSuffixes returns the stock suffixes _d, _n, _h, _s, _a and _p.
func DefaultSuffixes() Suffixes {
	return Suffixes{
		Diffuse:  "_d",
		Normal:   "_n",
		Height:   "_h",
		Specular: "_s",
		Addition: "_a",
		Preview:  "_p",
	}
}

// Index groups a flat directory listing by map slot.
type Index struct {
	suffixes Suffixes
	bySlot   map[Slot]map[string]struct{} // slot -> basenames without extension
	ext      map[string]string            // basename -> extension
	options  map[string]struct{}          // basenames of per-material option files
}

// NewIndex partitions files into option files and image files and records
// every image under each slot whose suffix its basename ends with.
func NewIndex(files []string, suffixes Suffixes) *Index {
	ix := &Index{
		suffixes: suffixes,
		bySlot:   make(map[Slot]map[string]struct{}, len(Slots)),
		ext:      make(map[string]string),
		options:  make(map[string]struct{}),
	}
	for _, s := range Slots {
		ix.bySlot[s] = make(map[string]struct{})
	}

	for _, file := range files {
		base, ext := splitExt(file)
		if ext == options.Ext {
			ix.options[base] = struct{}{}
			continue
		}

		for _, s := range Slots {
			if strings.HasSuffix(base, suffixes[s]) {
				ix.ext[base] = ext
				ix.bySlot[s][base] = struct{}{}
			}
		}
	}

	return ix
}

// Maps returns the basenames recorded under slot s, sorted.
func (ix *Index) Maps(s Slot) []string {
	return slices.Sorted(maps.Keys(ix.bySlot[s]))
}

// Ext returns the extension of an indexed image basename.
func (ix *Index) Ext(base string) string { return ix.ext[base] }

// IsOptionFile reports whether base has a per-material option file.
func (ix *Index) IsOptionFile(base string) bool {
	_, ok := ix.options[base]
	return ok
}

// Ambiguous returns image basenames recorded under more than one slot,
// with the slots they occupy.
func (ix *Index) Ambiguous() map[string][]Slot {
	out := make(map[string][]Slot)
	for base := range ix.ext {
		var slots []Slot
		for _, s := range Slots {
			if _, ok := ix.bySlot[s][base]; ok {
				slots = append(slots, s)
			}
		}
		if len(slots) > 1 {
			out[base] = slots
		}
	}
	return out
}

// MaterialName strips the diffuse suffix once from the right.
func (ix *Index) MaterialName(diffuse string) string {
	return strings.TrimSuffix(diffuse, ix.suffixes[Diffuse])
}

// Find looks up the map of slot s belonging to material name. Candidates
// are name itself and then ever shorter prefixes of it, down to the empty
// string, each with the slot suffix appended; the first hit wins.
func (ix *Index) Find(s Slot, name string) (string, bool) {
	set := ix.bySlot[s]
	suffix := ix.suffixes[s]

	for n := len(name); n >= 0; n-- {
		candidate := name[:n] + suffix
		if _, ok := set[candidate]; ok {
			return candidate, true
		}
	}

	return "", false
}

// splitExt splits a filename into basename and extension. Leading dots do
// not start an extension.
func splitExt(file string) (string, string) {
	i := strings.LastIndexByte(file, '.')
	if i <= 0 || strings.Trim(file[:i], ".") == "" {
		return file, ""
	}
	return file[:i], file[i:]
}
