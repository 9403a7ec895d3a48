package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"

	"github.com/Faultbox/sloth/internal/encoding"
)

// Ext is the extension of option files.
const Ext = ".sloth"

// DirectoryFile is the name of the option file shared by a whole directory.
const DirectoryFile = "options" + Ext

// lightSection is the only recognized option file section.
const lightSection = "light"

// ApplyFile parses the option file at path and applies it on top of o.
// A missing, unreadable or malformed file leaves o untouched and returns an
// error wrapping ErrOptionFile. Malformed entries inside a well-formed file are
// skipped one by one and logged.
func ApplyFile(fsys afero.Fs, path string, o *Options, log *zap.Logger) error {
	log = orNop(log)

	data, err := encoding.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrOptionFile, path, err)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:            true,
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
	}, data)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrOptionFile, path, err)
	}

	log.Debug("applying option file", zap.String("path", path))

	sec, err := f.GetSection(lightSection)
	if err != nil {
		return nil
	}

	keys := sectionKeys{sec: sec, defaults: f.Section(ini.DefaultSection)}
	applyLight(keys, o, log.With(zap.String("file", path)))
	return nil
}

// sectionKeys looks keys up in a section, falling back to [DEFAULT] for keys
// the section does not set.
type sectionKeys struct {
	sec      *ini.Section
	defaults *ini.Section
}

func (k sectionKeys) get(name string) (string, bool) {
	if k.sec.HasKey(name) {
		return k.sec.Key(name).String(), true
	}
	if k.defaults != nil && k.defaults.HasKey(name) {
		return k.defaults.Key(name).String(), true
	}
	return "", false
}

// applyLight applies the [light] section. Replace keys clear their table
// before adding; add_ keys extend it.
func applyLight(keys sectionKeys, o *Options, log *zap.Logger) {
	if v, ok := keys.get("colors"); ok {
		o.LightColors.Clear()
		addColors(v, o, log)
	}
	if v, ok := keys.get("add_colors"); ok {
		addColors(v, o, log)
	}

	lights := []struct {
		key     string
		kind    LightKind
		replace bool
	}{
		{"predef_lights", PredefLight, true},
		{"add_predef_lights", PredefLight, false},
		{"custom_lights", CustomLight, true},
		{"add_custom_lights", CustomLight, false},
	}
	for _, l := range lights {
		v, ok := keys.get(l.key)
		if !ok {
			continue
		}
		if l.replace {
			o.Lights(l.kind).Clear()
		}
		addIntensities(v, l.kind, o, log)
	}

	if v, ok := keys.get("color_blend_exp"); ok {
		raw := strings.TrimSpace(v)
		exp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn("ignoring color_blend_exp", zap.String("value", raw), zap.Error(err))
			return
		}
		o.RadToAddExponent = exp
	}
}

func addColors(value string, o *Options, log *zap.Logger) {
	for _, tok := range strings.Fields(value) {
		parts := strings.Split(tok, ":")
		if len(parts) != 2 {
			log.Warn("skipping malformed color entry", zap.String("entry", tok))
			continue
		}
		if err := o.AddLightColor(parts[0], parts[1], log); err != nil {
			log.Warn("skipping light color", zap.String("name", parts[0]), zap.Error(err))
		}
	}
}

func addIntensities(value string, kind LightKind, o *Options, log *zap.Logger) {
	for _, tok := range strings.Fields(value) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			log.Warn("skipping malformed light intensity", zap.String("entry", tok))
			continue
		}
		if err := o.AddLightIntensity(kind, n, log); err != nil {
			log.Warn("skipping light intensity", zap.Error(err))
		}
	}
}
