package options

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestApplyFileReplaceAndAppend(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tex/options.sloth", `
[light]
colors = red:ff0000 green:00ff00
add_colors = blue:0000ff
predef_lights = 0 200
custom_lights = 1000
add_custom_lights = 20000
color_blend_exp = 0.5
`)

	o := Defaults()
	_ = o.AddLightColor("white", "ffffff", nil)
	_ = o.AddLightIntensity(PredefLight, 50, nil)

	if err := ApplyFile(fsys, "/tex/options.sloth", &o, nil); err != nil {
		t.Fatalf("ApplyFile failed: %v", err)
	}

	if got := o.LightColors.Names(); len(got) != 3 || got[0] != "red" || got[1] != "green" || got[2] != "blue" {
		t.Errorf("expected colors [red green blue], got %v", got)
	}
	if got := o.PredefLights.Names(); len(got) != 2 || got[0] != "norad" || got[1] != "200" {
		t.Errorf("expected predef lights [norad 200], got %v", got)
	}
	if got := o.CustomLights.Names(); len(got) != 2 || got[0] != "1000" || got[1] != "20k" {
		t.Errorf("expected custom lights [1000 20k], got %v", got)
	}
	if o.RadToAddExponent != 0.5 {
		t.Errorf("expected exponent 0.5, got %f", o.RadToAddExponent)
	}
}

func TestApplyFileSkipsMalformedEntries(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tex/options.sloth", `
[light]
add_colors = red:ff0000 broken a:b:c pink:FF00FF blue:0000ff
add_custom_lights = 100 abc -5 300
color_blend_exp = fast
`)

	log, logs := observedLogger()
	o := Defaults()
	if err := ApplyFile(fsys, "/tex/options.sloth", &o, log); err != nil {
		t.Fatalf("ApplyFile failed: %v", err)
	}

	want := map[string]int{
		"skipping malformed color entry":     2, // broken, a:b:c
		"skipping light color":               1, // pink:FF00FF
		"skipping malformed light intensity": 1, // abc
		"skipping light intensity":           1, // -5
		"ignoring color_blend_exp":           1,
	}
	for msg, n := range want {
		if got := logs.FilterMessage(msg).Len(); got != n {
			t.Errorf("expected %d %q warnings, got %d", n, msg, got)
		}
	}
	if logs.Len() != 6 {
		t.Errorf("expected 6 warnings in total, got %d", logs.Len())
	}
	for _, entry := range logs.All() {
		if entry.ContextMap()["file"] != "/tex/options.sloth" {
			t.Errorf("warning %q lacks the file field", entry.Message)
		}
	}

	if got := o.LightColors.Names(); len(got) != 2 || got[0] != "red" || got[1] != "blue" {
		t.Errorf("expected colors [red blue], got %v", got)
	}
	if got := o.CustomLights.Names(); len(got) != 2 || got[0] != "100" || got[1] != "300" {
		t.Errorf("expected custom lights [100 300], got %v", got)
	}
	if o.RadToAddExponent != 1.0 {
		t.Errorf("expected exponent to stay 1.0, got %f", o.RadToAddExponent)
	}
}

func TestApplyFileMissing(t *testing.T) {
	o := Defaults()
	err := ApplyFile(afero.NewMemMapFs(), "/nope/options.sloth", &o, nil)
	if !errors.Is(err, ErrOptionFile) {
		t.Fatalf("expected ErrOptionFile, got %v", err)
	}
}

func TestApplyFileParseErrorSkipsWholeFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tex/options.sloth", "[light]\ncolors = red:ff0000\n[broken\n")

	o := Defaults()
	_ = o.AddLightColor("white", "ffffff", nil)

	if err := ApplyFile(fsys, "/tex/options.sloth", &o, nil); !errors.Is(err, ErrOptionFile) {
		t.Fatalf("expected ErrOptionFile, got %v", err)
	}
	if got := o.LightColors.Names(); len(got) != 1 || got[0] != "white" {
		t.Errorf("expected options untouched, got colors %v", got)
	}
}

func TestApplyFileWithoutLightSection(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tex/options.sloth", "[other]\nkey = value\n")

	o := Defaults()
	if err := ApplyFile(fsys, "/tex/options.sloth", &o, nil); err != nil {
		t.Fatalf("ApplyFile failed: %v", err)
	}
	if o.LightColors.Len() != 0 {
		t.Error("expected no colors")
	}
}

func TestApplyFileLegacyEncoding(t *testing.T) {
	fsys := afero.NewMemMapFs()
	// BOM, Windows-1252 comment and CRLF line endings
	writeFile(t, fsys, "/tex/options.sloth", "\xef\xbb\xbf; d\xe9cor lights\r\n[light]\r\ncolors = amber:ffbf00\r\n")

	o := Defaults()
	if err := ApplyFile(fsys, "/tex/options.sloth", &o, nil); err != nil {
		t.Fatalf("ApplyFile failed: %v", err)
	}
	if c, ok := o.LightColors.Get("amber"); !ok || c != (RGB{R: 0xff, G: 0xbf}) {
		t.Errorf("expected amber ffbf00, got %v (%v)", c, ok)
	}
}

func TestApplyFileDefaultSectionFallback(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tex/options.sloth", `
[DEFAULT]
colors = red:ff0000
custom_lights = 500

[light]
custom_lights = 1000
`)

	o := Defaults()
	if err := ApplyFile(fsys, "/tex/options.sloth", &o, nil); err != nil {
		t.Fatalf("ApplyFile failed: %v", err)
	}

	if got := o.LightColors.Names(); len(got) != 1 || got[0] != "red" {
		t.Errorf("expected colors [red] from the default section, got %v", got)
	}
	if got := o.CustomLights.Names(); len(got) != 1 || got[0] != "1000" {
		t.Errorf("expected the light section to win with [1000], got %v", got)
	}
}

func TestApplyFileDefaultSectionAlone(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/tex/options.sloth", "[DEFAULT]\ncolors = red:ff0000\n")

	o := Defaults()
	if err := ApplyFile(fsys, "/tex/options.sloth", &o, nil); err != nil {
		t.Fatalf("ApplyFile failed: %v", err)
	}
	if o.LightColors.Len() != 0 {
		t.Errorf("expected no colors without a light section, got %v", o.LightColors.Names())
	}
}
