// Package options holds the tunable shader generation options and the
// cascade that layers them: built-in defaults, per-directory option files
// and per-material option files.
package options

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// RGB is a light color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as six lowercase hex digits.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// AlphaTestKind tells which variant an AlphaTest holds.
type AlphaTestKind int

const (
	// AlphaTestNone blends the diffuse map smoothly.
	AlphaTestNone AlphaTestKind = iota
	// AlphaTestFraction emits an alphaTest keyword with a threshold.
	AlphaTestFraction
	// AlphaTestFunc emits an alphaFunc keyword.
	AlphaTestFunc
)

// Known alpha functions.
const (
	AlphaGT0   = "GT0"
	AlphaGE128 = "GE128"
	AlphaLT128 = "LT128"
)

// AlphaTest selects how transparent diffuse maps are rendered.
type AlphaTest struct {
	Kind     AlphaTestKind
	Fraction float64 // valid for AlphaTestFraction
	Func     string  // valid for AlphaTestFunc
}

// NoAlphaTest returns the smooth blending alpha policy.
func NoAlphaTest() AlphaTest { return AlphaTest{} }

// AlphaTestAt returns an alphaTest policy with the given threshold.
func AlphaTestAt(f float64) (AlphaTest, error) {
	if f < 0 || f > 1 {
		return AlphaTest{}, fmt.Errorf("%w: %v is outside [0,1]", ErrInvalidAlphaTest, f)
	}
	return AlphaTest{Kind: AlphaTestFraction, Fraction: f}, nil
}

// AlphaFunc returns an alphaFunc policy for one of GT0, GE128 or LT128.
func AlphaFunc(fn string) (AlphaTest, error) {
	switch fn {
	case AlphaGT0, AlphaGE128, AlphaLT128:
		return AlphaTest{Kind: AlphaTestFunc, Func: fn}, nil
	default:
		return AlphaTest{}, fmt.Errorf("%w: unknown function %q", ErrInvalidAlphaTest, fn)
	}
}

// ParseAlphaTest parses "none" (or empty), an alpha function name or a fraction.
func ParseAlphaTest(s string) (AlphaTest, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return NoAlphaTest(), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return AlphaTestAt(f)
	}

	return AlphaFunc(s)
}

// String returns the textual form accepted by ParseAlphaTest.
func (a AlphaTest) String() string {
	switch a.Kind {
	case AlphaTestFraction:
		return strconv.FormatFloat(a.Fraction, 'g', -1, 64)
	case AlphaTestFunc:
		return a.Func
	default:
		return "none"
	}
}

// LightKind selects one of the two intensity tables.
type LightKind int

const (
	// CustomLight intensities apply to grayscale addition maps, crossed with light colors.
	CustomLight LightKind = iota
	// PredefLight intensities apply to colored addition maps.
	PredefLight
)

// Options is one layer of shader generation options. Layers are composed by
// cloning the previous one and applying overrides to the copy.
type Options struct {
	LightColors           Table[RGB] // color name -> color
	CustomLights          Table[int] // intensity name -> intensity, grayscale addition maps
	PredefLights          Table[int] // intensity name -> intensity, colored addition maps
	GuessKeywords         bool       // guess surfaceparms from the material name
	RadToAddExponent      float64    // exponent turning light colors into addition blend factors
	HeightNormalsModifier float64    // strength of normals generated from height maps
	AlphaTest             AlphaTest  // alpha test or smooth blending for transparent diffuse maps
	AlphaShadows          bool       // add the alphashadows surfaceparm to transparent shaders
}

// Defaults returns the built-in option layer.
func Defaults() Options {
	return Options{
		RadToAddExponent:      1.0,
		HeightNormalsModifier: 1.0,
		AlphaShadows:          true,
	}
}

// Clone returns a deep copy of the options.
func (o Options) Clone() Options {
	out := o
	out.LightColors = o.LightColors.clone()
	out.CustomLights = o.CustomLights.clone()
	out.PredefLights = o.PredefLights.clone()
	return out
}

// Lights returns the intensity table of the given kind.
func (o *Options) Lights(kind LightKind) *Table[int] {
	if kind == PredefLight {
		return &o.PredefLights
	}
	return &o.CustomLights
}

var colorRE = regexp.MustCompile(`^[0-9a-f]{6}$`)

// ParseColor decodes six lowercase hex digits into a color.
func ParseColor(hex string) (RGB, error) {
	if !colorRE.MatchString(hex) {
		return RGB{}, fmt.Errorf("%w: %q, format is [0-9a-f]{6}", ErrInvalidColor, hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, hex, err)
	}

	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// AddLightColor registers a named light color. Replacing an existing color
// with a different value is logged as a warning.
func (o *Options) AddLightColor(name, hex string, log *zap.Logger) error {
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}

	if prev, replaced := o.LightColors.Set(name, c); replaced {
		orNop(log).Warn("overwriting light color",
			zap.String("name", name), zap.String("old", prev.Hex()), zap.String("new", hex))
	}

	return nil
}

// IntensityName derives the table key of a light intensity.
func IntensityName(intensity int) string {
	switch {
	case intensity == 0:
		return "norad"
	case intensity >= 10000:
		return strconv.Itoa(intensity/1000) + "k"
	default:
		return strconv.Itoa(intensity)
	}
}

// AddLightIntensity registers an intensity under its derived name.
// Negative intensities are rejected without touching the table.
func (o *Options) AddLightIntensity(kind LightKind, intensity int, log *zap.Logger) error {
	if intensity < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIntensity, intensity)
	}

	name := IntensityName(intensity)
	if prev, replaced := o.Lights(kind).Set(name, intensity); replaced {
		orNop(log).Warn("overwriting light intensity",
			zap.String("name", name), zap.Int("old", prev), zap.Int("new", intensity))
	}

	return nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
