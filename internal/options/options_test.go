package options

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observedLogger returns a logger recording warnings and above.
func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestDefaults(t *testing.T) {
	o := Defaults()

	if o.LightColors.Len() != 0 || o.CustomLights.Len() != 0 || o.PredefLights.Len() != 0 {
		t.Error("expected empty light tables by default")
	}
	if o.GuessKeywords {
		t.Error("expected keyword guessing to be off by default")
	}
	if o.RadToAddExponent != 1.0 {
		t.Errorf("expected exponent 1.0, got %f", o.RadToAddExponent)
	}
	if o.HeightNormalsModifier != 1.0 {
		t.Errorf("expected height normals modifier 1.0, got %f", o.HeightNormalsModifier)
	}
	if o.AlphaTest.Kind != AlphaTestNone {
		t.Errorf("expected no alpha test, got %s", o.AlphaTest)
	}
	if !o.AlphaShadows {
		t.Error("expected alpha shadows to be on by default")
	}
}

func TestParseColorRoundTrip(t *testing.T) {
	for _, v := range []int{0x000000, 0xffffff, 0xff0000, 0x00ff00, 0x0000ff, 0x123456, 0xa0b1c2, 0x0f0f0f} {
		hex := fmt.Sprintf("%06x", v)
		c, err := ParseColor(hex)
		if err != nil {
			t.Fatalf("ParseColor(%q) failed: %v", hex, err)
		}
		want := RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
		if c != want {
			t.Errorf("ParseColor(%q): expected %+v, got %+v", hex, want, c)
		}
		if c.Hex() != hex {
			t.Errorf("expected Hex() %q, got %q", hex, c.Hex())
		}
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, s := range []string{"", "fff", "FF0000", "ff00001", "gg0000", "#ff000"} {
		if _, err := ParseColor(s); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q): expected ErrInvalidColor, got %v", s, err)
		}
	}
}

func TestAddLightColorOverwrite(t *testing.T) {
	o := Defaults()
	if err := o.AddLightColor("red", "ff0000", nil); err != nil {
		t.Fatalf("AddLightColor failed: %v", err)
	}
	if err := o.AddLightColor("red", "ee0000", nil); err != nil {
		t.Fatalf("AddLightColor failed: %v", err)
	}
	if err := o.AddLightColor("blue", "zz", nil); err == nil {
		t.Error("expected error for invalid color")
	}

	if o.LightColors.Len() != 1 {
		t.Fatalf("expected 1 color, got %d", o.LightColors.Len())
	}
	if c, _ := o.LightColors.Get("red"); c != (RGB{R: 0xee}) {
		t.Errorf("expected later color to win, got %+v", c)
	}
}

func TestAddLightColorWarnsOnlyOnChange(t *testing.T) {
	log, logs := observedLogger()
	o := Defaults()

	for _, hex := range []string{"ff0000", "ff0000", "ee0000"} {
		if err := o.AddLightColor("red", hex, log); err != nil {
			t.Fatalf("AddLightColor(%q) failed: %v", hex, err)
		}
	}

	warnings := logs.FilterMessage("overwriting light color").All()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 overwrite warning, got %d", len(warnings))
	}
	fields := warnings[0].ContextMap()
	if fields["old"] != "ff0000" || fields["new"] != "ee0000" {
		t.Errorf("unexpected warning fields %v", fields)
	}
}

func TestIntensityName(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "norad"},
		{1, "1"},
		{250, "250"},
		{9999, "9999"},
		{10000, "10k"},
		{12500, "12k"},
		{123456, "123k"},
	}
	for _, tt := range tests {
		if got := IntensityName(tt.in); got != tt.want {
			t.Errorf("IntensityName(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestAddLightIntensity(t *testing.T) {
	o := Defaults()

	if err := o.AddLightIntensity(CustomLight, -5, nil); !errors.Is(err, ErrNegativeIntensity) {
		t.Errorf("expected ErrNegativeIntensity, got %v", err)
	}
	if o.CustomLights.Len() != 0 {
		t.Error("negative intensity must not mutate the table")
	}

	for _, n := range []int{12000, 12500, 0} {
		if err := o.AddLightIntensity(CustomLight, n, nil); err != nil {
			t.Fatalf("AddLightIntensity(%d) failed: %v", n, err)
		}
	}
	if err := o.AddLightIntensity(PredefLight, 200, nil); err != nil {
		t.Fatalf("AddLightIntensity failed: %v", err)
	}

	if got := o.CustomLights.Names(); len(got) != 2 || got[0] != "12k" || got[1] != "norad" {
		t.Errorf("unexpected custom light names %v", got)
	}
	if v, _ := o.CustomLights.Get("12k"); v != 12500 {
		t.Errorf("expected colliding name to hold 12500, got %d", v)
	}
	if v, ok := o.PredefLights.Get("200"); !ok || v != 200 {
		t.Errorf("expected predef light 200, got %d (%v)", v, ok)
	}
}

func TestAddLightIntensityWarnsOnlyOnChange(t *testing.T) {
	log, logs := observedLogger()
	o := Defaults()

	// 12000 and 12500 share the name 12k; repeating 12500 changes nothing
	for _, n := range []int{12000, 12000, 12500, 12500} {
		if err := o.AddLightIntensity(CustomLight, n, log); err != nil {
			t.Fatalf("AddLightIntensity(%d) failed: %v", n, err)
		}
	}

	if n := logs.FilterMessage("overwriting light intensity").Len(); n != 1 {
		t.Errorf("expected 1 overwrite warning, got %d", n)
	}
	if logs.Len() != 1 {
		t.Errorf("expected no other warnings, got %v", logs.All())
	}
}

func TestCloneIsDeep(t *testing.T) {
	base := Defaults()
	_ = base.AddLightColor("red", "ff0000", nil)
	_ = base.AddLightIntensity(CustomLight, 1000, nil)

	cp := base.Clone()
	_ = cp.AddLightColor("blue", "0000ff", nil)
	cp.CustomLights.Clear()

	if base.LightColors.Len() != 1 {
		t.Errorf("clone mutation leaked into base colors: %v", base.LightColors.Names())
	}
	if base.CustomLights.Len() != 1 {
		t.Errorf("clone mutation leaked into base lights: %v", base.CustomLights.Names())
	}
}

func TestParseAlphaTest(t *testing.T) {
	tests := []struct {
		in      string
		kind    AlphaTestKind
		wantErr bool
	}{
		{"", AlphaTestNone, false},
		{"none", AlphaTestNone, false},
		{"GT0", AlphaTestFunc, false},
		{"GE128", AlphaTestFunc, false},
		{"LT128", AlphaTestFunc, false},
		{"0.5", AlphaTestFraction, false},
		{"1", AlphaTestFraction, false},
		{"1.5", AlphaTestNone, true},
		{"-0.1", AlphaTestNone, true},
		{"GT1", AlphaTestNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlphaTest(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAlphaTest) {
					t.Fatalf("expected ErrInvalidAlphaTest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tt.kind {
				t.Errorf("expected kind %d, got %d", tt.kind, got.Kind)
			}
		})
	}
}
