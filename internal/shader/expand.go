package shader

import (
	"maps"
	"slices"
)

// OffSuffix names the non-emitting variant of a light material.
const OffSuffix = "_off"

// ExpandLights replaces every material carrying an addition map by its light
// variants: one per light color and custom intensity for grayscale addition
// maps, one per predefined intensity otherwise, plus a variant without the
// addition map. Other materials pass through. The input map is not modified.
func ExpandLights(mats map[string]*Material) map[string]*Material {
	out := make(map[string]*Material, len(mats))
	for name, m := range mats {
		if _, ok := m.Map(Addition); !ok {
			out[name] = m
		}
	}

	// Variants are inserted after pass-through materials and overwrite them on name clashes.
	for _, name := range slices.Sorted(maps.Keys(mats)) {
		m := mats[name]
		if _, ok := m.Map(Addition); !ok {
			continue
		}
		for _, v := range lightVariants(name, m) {
			out[v.Name] = v
		}
	}

	return out
}

func lightVariants(name string, m *Material) []*Material {
	var variants []*Material

	if m.Meta.AdditionGrayscale {
		for colorName, c := range m.Options.LightColors.All() {
			for intensityName, intensity := range m.Options.CustomLights.All() {
				v := m.Clone()
				v.Name = name + "_" + colorName + "_" + intensityName
				v.Meta.LightIntensity = &intensity
				v.Meta.LightColor = &c
				variants = append(variants, v)
			}
		}
	} else {
		for intensityName, intensity := range m.Options.PredefLights.All() {
			v := m.Clone()
			v.Name = name + "_" + intensityName
			v.Meta.LightIntensity = &intensity
			variants = append(variants, v)
		}
	}

	off := m.Clone()
	off.Name = name + OffSuffix
	delete(off.Maps, Addition)
	variants = append(variants, off)

	return variants
}
