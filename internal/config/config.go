// Package config handles sloth configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/sloth/internal/options"
	"github.com/Faultbox/sloth/internal/shader"
)

// Config holds all generator settings.
type Config struct {
	Suffixes SuffixConfig   `yaml:"suffixes"`
	Lights   LightsConfig   `yaml:"lights"`
	Alpha    AlphaConfig    `yaml:"alpha"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Normals  NormalsConfig  `yaml:"normals"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SuffixConfig holds the filename suffix of each map type.
type SuffixConfig struct {
	Diffuse  string `yaml:"diffuse"`
	Normal   string `yaml:"normal"`
	Height   string `yaml:"height"`
	Specular string `yaml:"specular"`
	Addition string `yaml:"addition"`
	Preview  string `yaml:"preview"`
}

// LightsConfig holds the built-in light tables.
type LightsConfig struct {
	Colors        []string `yaml:"colors"` // NAME:RRGGBB
	Custom        []int    `yaml:"custom"` // intensities for grayscale addition maps
	Predef        []int    `yaml:"predef"` // intensities for colored addition maps
	ColorBlendExp float64  `yaml:"color_blend_exp"`
}

// AlphaConfig holds transparency settings.
type AlphaConfig struct {
	Test    string `yaml:"test"` // none, GT0, GE128, LT128 or a threshold in [0,1]
	Shadows bool   `yaml:"shadows"`
}

// KeywordsConfig holds keyword inference settings.
type KeywordsConfig struct {
	Guess bool `yaml:"guess"`
}

// NormalsConfig holds normal map settings.
type NormalsConfig struct {
	HeightModifier float64 `yaml:"height_modifier"`
}

// OutputConfig holds set naming and output settings.
type OutputConfig struct {
	Root   string `yaml:"root"`   // explicit set name for every directory
	Strip  string `yaml:"strip"`  // suffix removed from derived set names, unused with Root
	Header string `yaml:"header"` // file whose lines are prepended as comments
	Out    string `yaml:"out"`    // output file, stdout when empty
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Suffixes: SuffixConfig{
			Diffuse:  "_d",
			Normal:   "_n",
			Height:   "_h",
			Specular: "_s",
			Addition: "_a",
			Preview:  "_p",
		},
		Lights: LightsConfig{
			Colors:        []string{"white:ffffff"},
			Custom:        []int{1000, 2000, 4000},
			Predef:        []int{0, 200},
			ColorBlendExp: 1.0,
		},
		Alpha: AlphaConfig{
			Test:    "none",
			Shadows: true,
		},
		Normals: NormalsConfig{
			HeightModifier: 1.0,
		},
		Output: OutputConfig{
			Strip: "_src",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs error

	if _, err := options.ParseAlphaTest(c.Alpha.Test); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("alpha.test: %w", err))
	}
	for _, entry := range c.Lights.Colors {
		if _, _, err := splitColor(entry); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("lights.colors: %w", err))
		}
	}
	for _, n := range append(append([]int(nil), c.Lights.Custom...), c.Lights.Predef...) {
		if n < 0 {
			errs = multierr.Append(errs, fmt.Errorf("lights: %w: %d", options.ErrNegativeIntensity, n))
		}
	}
	return errs
}

// Options converts the config into the built-in option layer. Unusable
// entries are logged and skipped.
func (c *Config) Options(log *zap.Logger) options.Options {
	if log == nil {
		log = zap.NewNop()
	}

	o := options.Defaults()
	o.GuessKeywords = c.Keywords.Guess
	o.RadToAddExponent = c.Lights.ColorBlendExp
	o.HeightNormalsModifier = c.Normals.HeightModifier
	o.AlphaShadows = c.Alpha.Shadows

	if at, err := options.ParseAlphaTest(c.Alpha.Test); err != nil {
		log.Warn("ignoring alpha test", zap.String("value", c.Alpha.Test), zap.Error(err))
	} else {
		o.AlphaTest = at
	}

	for _, entry := range c.Lights.Colors {
		name, hex, err := splitColor(entry)
		if err == nil {
			err = o.AddLightColor(name, hex, log)
		}
		if err != nil {
			log.Warn("skipping light color", zap.String("entry", entry), zap.Error(err))
		}
	}

	lights := []struct {
		kind   options.LightKind
		values []int
	}{
		{options.CustomLight, c.Lights.Custom},
		{options.PredefLight, c.Lights.Predef},
	}
	for _, l := range lights {
		for _, n := range l.values {
			if err := o.AddLightIntensity(l.kind, n, log); err != nil {
				log.Warn("skipping light intensity", zap.Error(err))
			}
		}
	}

	return o
}

// ShaderSuffixes returns the map suffixes for the generator.
func (c *Config) ShaderSuffixes() shader.Suffixes {
	return shader.Suffixes{
		shader.Diffuse:  c.Suffixes.Diffuse,
		shader.Normal:   c.Suffixes.Normal,
		shader.Height:   c.Suffixes.Height,
		shader.Specular: c.Suffixes.Specular,
		shader.Addition: c.Suffixes.Addition,
		shader.Preview:  c.Suffixes.Preview,
	}
}

// splitColor splits a NAME:RRGGBB entry.
func splitColor(entry string) (string, string, error) {
	name, hex, ok := strings.Cut(entry, ":")
	if !ok || name == "" || strings.Contains(hex, ":") {
		return "", "", fmt.Errorf("%w: %q is not NAME:RRGGBB", options.ErrInvalidColor, entry)
	}
	if _, err := options.ParseColor(hex); err != nil {
		return "", "", err
	}
	return name, hex, nil
}
