package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Only flags the user actually set are
// applied, so file values survive unless overridden.
type Flags struct {
	ConfigPath string

	Guess         bool
	HeightNormals float64
	Suffixes      SuffixConfig

	Colors        []string
	CustomLights  []int
	PredefLights  []int
	ColorBlendExp float64

	GT0            bool
	GE128          bool
	LT128          bool
	AlphaTest      string
	NoAlphaShadows bool

	Root   string
	Strip  string
	Header string
	Out    string

	LogLevel string
	LogFile  string
}

// Alpha test flags; at most one may be given.
var AlphaFlags = []string{"gt0", "ge128", "lt128", "alpha-test"}

// Set naming flags; at most one may be given.
var SetNameFlags = []string{"root", "strip"}

// Register adds the flags to fs, showing defaults from Default.
func (f *Flags) Register(fs *pflag.FlagSet) {
	def := Default()

	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")

	fs.BoolVarP(&f.Guess, "guess", "g", def.Keywords.Guess, "Guess surfaceparm keywords from shader names")
	fs.Float64Var(&f.HeightNormals, "height-normals", def.Normals.HeightModifier,
		"Modifier for normals generated from height maps, 0 disables them")

	fs.StringVarP(&f.Suffixes.Diffuse, "diffuse", "d", def.Suffixes.Diffuse, "Suffix of diffuse maps")
	fs.StringVarP(&f.Suffixes.Normal, "normal", "n", def.Suffixes.Normal, "Suffix of normal maps")
	fs.StringVarP(&f.Suffixes.Height, "height", "z", def.Suffixes.Height, "Suffix of height maps")
	fs.StringVarP(&f.Suffixes.Specular, "specular", "s", def.Suffixes.Specular, "Suffix of specular maps")
	fs.StringVarP(&f.Suffixes.Addition, "addition", "a", def.Suffixes.Addition, "Suffix of addition (glow) maps")
	fs.StringVarP(&f.Suffixes.Preview, "preview", "p", def.Suffixes.Preview, "Suffix of editor preview images")

	fs.StringSliceVarP(&f.Colors, "colors", "c", def.Lights.Colors,
		"Light colors as NAME:RRGGBB for grayscale addition maps, comma-separated or repeated")
	fs.IntSliceVarP(&f.CustomLights, "custom-lights", "l", def.Lights.Custom,
		"Light intensities for grayscale addition maps, comma-separated or repeated")
	fs.IntSliceVarP(&f.PredefLights, "predef-lights", "i", def.Lights.Predef,
		"Light intensities for colored addition maps, comma-separated or repeated")
	fs.Float64Var(&f.ColorBlendExp, "color-blend-exp", def.Lights.ColorBlendExp,
		"Exponent applied to light colors when blending addition maps")

	fs.BoolVar(&f.GT0, "gt0", false, "Use alphaFunc GT0 for transparent diffuse maps")
	fs.BoolVar(&f.GE128, "ge128", false, "Use alphaFunc GE128 for transparent diffuse maps")
	fs.BoolVar(&f.LT128, "lt128", false, "Use alphaFunc LT128 for transparent diffuse maps")
	fs.StringVar(&f.AlphaTest, "alpha-test", "", "Use alphaTest with this threshold for transparent diffuse maps")
	fs.BoolVar(&f.NoAlphaShadows, "no-alpha-shadows", false, "Do not add alphashadows to transparent shaders")

	fs.StringVarP(&f.Root, "root", "r", def.Output.Root, "Put every directory into this shader set")
	fs.StringVarP(&f.Strip, "strip", "x", def.Output.Strip, "Remove this suffix from derived set names")
	fs.StringVarP(&f.Header, "header", "t", def.Output.Header, "Prepend the lines of this file as comments")
	fs.StringVarP(&f.Out, "out", "o", def.Output.Out, "Write shaders to this file instead of stdout")

	fs.StringVar(&f.LogLevel, "log-level", def.Logging.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", def.Logging.LogFile, "Also write logs to this file")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags, fs *pflag.FlagSet) {
	changed := fs.Changed

	if changed("guess") {
		cfg.Keywords.Guess = f.Guess
	}
	if changed("height-normals") {
		cfg.Normals.HeightModifier = f.HeightNormals
	}

	suffixes := []struct {
		name string
		dst  *string
		src  string
	}{
		{"diffuse", &cfg.Suffixes.Diffuse, f.Suffixes.Diffuse},
		{"normal", &cfg.Suffixes.Normal, f.Suffixes.Normal},
		{"height", &cfg.Suffixes.Height, f.Suffixes.Height},
		{"specular", &cfg.Suffixes.Specular, f.Suffixes.Specular},
		{"addition", &cfg.Suffixes.Addition, f.Suffixes.Addition},
		{"preview", &cfg.Suffixes.Preview, f.Suffixes.Preview},
	}
	for _, s := range suffixes {
		if changed(s.name) {
			*s.dst = s.src
		}
	}

	if changed("colors") {
		cfg.Lights.Colors = f.Colors
	}
	if changed("custom-lights") {
		cfg.Lights.Custom = f.CustomLights
	}
	if changed("predef-lights") {
		cfg.Lights.Predef = f.PredefLights
	}
	if changed("color-blend-exp") {
		cfg.Lights.ColorBlendExp = f.ColorBlendExp
	}

	switch {
	case f.GT0:
		cfg.Alpha.Test = "GT0"
	case f.GE128:
		cfg.Alpha.Test = "GE128"
	case f.LT128:
		cfg.Alpha.Test = "LT128"
	case changed("alpha-test"):
		cfg.Alpha.Test = f.AlphaTest
	}
	if f.NoAlphaShadows {
		cfg.Alpha.Shadows = false
	}

	if changed("root") {
		cfg.Output.Root = f.Root
	}
	if changed("strip") {
		cfg.Output.Strip = f.Strip
	}
	if changed("header") {
		cfg.Output.Header = f.Header
	}
	if changed("out") {
		cfg.Output.Out = f.Out
	}

	if changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if changed("log-file") {
		cfg.Logging.LogFile = f.LogFile
	}
}
