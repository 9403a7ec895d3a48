package shader

import (
	"maps"
	"reflect"
	"slices"
	"testing"

	"github.com/Faultbox/sloth/internal/options"
)

func newLightMaterial(t *testing.T, name string, grayscale bool, opt options.Options) *Material {
	t.Helper()

	m := newTestMaterial(name, false, opt)
	m.Maps[Addition] = MapRef{Name: name + "_a", Ext: ".tga"}
	m.Meta.AdditionGrayscale = grayscale
	return m
}

func TestExpandLights_Grayscale(t *testing.T) {
	opt := options.Defaults()
	if err := opt.AddLightColor("white", "ffffff", nil); err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{1000, 2000} {
		if err := opt.AddLightIntensity(options.CustomLight, n, nil); err != nil {
			t.Fatal(err)
		}
	}

	out := ExpandLights(map[string]*Material{"lamp": newLightMaterial(t, "lamp", true, opt)})

	want := []string{"lamp_off", "lamp_white_1000", "lamp_white_2000"}
	if got := slices.Sorted(maps.Keys(out)); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	v := out["lamp_white_2000"]
	if v.Meta.LightIntensity == nil || *v.Meta.LightIntensity != 2000 {
		t.Errorf("expected intensity 2000, got %v", v.Meta.LightIntensity)
	}
	if v.Meta.LightColor == nil || *v.Meta.LightColor != (options.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("expected white light, got %v", v.Meta.LightColor)
	}
	if _, ok := v.Map(Addition); !ok {
		t.Error("expected light variant to keep the addition map")
	}

	off := out["lamp_off"]
	if _, ok := off.Map(Addition); ok {
		t.Error("expected off variant without addition map")
	}
	if off.Meta.LightIntensity != nil {
		t.Errorf("expected off variant without intensity, got %d", *off.Meta.LightIntensity)
	}
}

func TestExpandLights_Colored(t *testing.T) {
	opt := options.Defaults()
	if err := opt.AddLightColor("white", "ffffff", nil); err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 200} {
		if err := opt.AddLightIntensity(options.PredefLight, n, nil); err != nil {
			t.Fatal(err)
		}
	}

	out := ExpandLights(map[string]*Material{"sign": newLightMaterial(t, "sign", false, opt)})

	want := []string{"sign_200", "sign_norad", "sign_off"}
	if got := slices.Sorted(maps.Keys(out)); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if c := out["sign_200"].Meta.LightColor; c != nil {
		t.Errorf("expected no light color for a colored addition map, got %v", c)
	}
	if n := out["sign_norad"].Meta.LightIntensity; n == nil || *n != 0 {
		t.Errorf("expected norad intensity 0, got %v", n)
	}
}

func TestExpandLights_EmptyTables(t *testing.T) {
	out := ExpandLights(map[string]*Material{"lamp": newLightMaterial(t, "lamp", true, options.Defaults())})

	if got := slices.Sorted(maps.Keys(out)); !reflect.DeepEqual(got, []string{"lamp_off"}) {
		t.Errorf("expected only lamp_off, got %v", got)
	}
}

func TestExpandLights_PassThrough(t *testing.T) {
	wall := newTestMaterial("wall", false, options.Defaults())
	lamp := newLightMaterial(t, "lamp", true, options.Defaults())
	in := map[string]*Material{"wall": wall, "lamp": lamp}

	out := ExpandLights(in)

	if out["wall"] != wall {
		t.Error("expected material without addition map to pass through unchanged")
	}
	if _, ok := out["lamp"]; ok {
		t.Error("expected the light source material to be replaced by its variants")
	}
	if len(in) != 2 || in["lamp"] != lamp {
		t.Error("expected input map to be left untouched")
	}
	if _, ok := lamp.Map(Addition); !ok {
		t.Error("expected source material to keep its addition map")
	}
}
