package shader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// FormatOptions selects what is rendered.
type FormatOptions struct {
	// Header is emitted first, each line turned into a // comment.
	Header string
	// Sets restricts output to these sets, in this order. Empty renders every set.
	Sets []string
	// Material renders only the material of this name from each set.
	Material string
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{}
	}
	return *o
}

// keywordColumn is the column values are aligned to after a keyword.
const keywordColumn = 20

// Encode writes shader text for the registry to w. Unknown set or material
// names are reported in the returned error after everything else has been
// written; write failures abort immediately.
func Encode(w io.Writer, r *Registry, opt *FormatOptions) error {
	fopt := opt.normalize()
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw}

	lookupErr := wr.writeRegistry(r, fopt)
	if wr.err != nil {
		return wr.err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	return lookupErr
}

// EncodeFile writes shader text for the registry to a file on fsys,
// creating its directory. Lookup failures are returned after the file has
// been written.
func EncodeFile(fsys afero.Fs, path string, r *Registry, opt *FormatOptions) error {
	b, lookupErr := Format(r, opt)
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, b, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return lookupErr
}

// Format renders the registry to bytes. The bytes are complete even when
// the error reports unknown names.
func Format(r *Registry, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(&buf, r, opt)

	return buf.Bytes(), err
}

// writer writes shader text, keeping the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) writef(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// writeRegistry writes the header and the selected sets and returns lookup failures.
func (w *writer) writeRegistry(r *Registry, opt FormatOptions) error {
	w.writeHeader(opt.Header)

	explicit := len(opt.Sets) > 0
	sets := opt.Sets
	if !explicit {
		sets = r.Sets()
	}

	var errs error
	found := false
	for _, set := range sets {
		if !r.Has(set) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrUnknownSet, set))
			continue
		}

		if opt.Material != "" {
			m, ok := r.Material(set, opt.Material)
			if !ok {
				if explicit {
					errs = multierr.Append(errs, fmt.Errorf("%w: %s/%s", ErrUnknownMaterial, set, opt.Material))
				}
				continue
			}
			found = true
			w.writeMaterial(set, opt.Material, m)
			continue
		}

		w.writeBanner(set)
		for _, name := range r.Names(set) {
			m, _ := r.Material(set, name)
			w.writeMaterial(set, name, m)
		}
	}

	if opt.Material != "" && !explicit && !found {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrUnknownMaterial, opt.Material))
	}

	return errs
}

// writeHeader writes the header lines as comments.
func (w *writer) writeHeader(header string) {
	if header == "" {
		return
	}

	header = strings.ReplaceAll(header, "\r\n", "\n")
	for _, line := range strings.Split(strings.TrimSuffix(header, "\n"), "\n") {
		if !strings.HasPrefix(line, "//") {
			w.writeString("// ")
		}
		w.writeString(line)
		w.writeString("\n")
	}
}

// writeBanner writes the boxed comment introducing a set.
func (w *writer) writeBanner(set string) {
	rule := strings.Repeat("-", utf8.RuneCountInString(set))
	w.writef("\n// %s\n// %s\n// %s\n", rule, set, rule)
}

// writeMaterial writes one shader block.
func (w *writer) writeMaterial(set, name string, m *Material) {
	path := m.RelPath + "/"

	w.writef("\n%s/%s\n{\n", set, name)

	// Preview image
	if ref, ok := m.Map(Preview); ok {
		w.writef("\tqer_editorImage     %s%s\n\n", path, ref.Name)
	} else if ref, ok := m.Map(Diffuse); ok {
		w.writef("\tqer_editorImage     %s%s\n\n", path, ref.Name)
	}

	// Keywords
	if len(m.Keywords) > 0 {
		for _, key := range m.Keywords.Names() {
			pad := strings.Repeat(" ", max(1, keywordColumn-len(key)))
			for _, v := range m.Keywords[key].Values() {
				w.writef("\t%s%s%s\n", key, pad, v)
			}
		}
		w.writeString("\n")
	}

	w.writeSurfaceLight(path, m)

	// Diffuse map
	if ref, ok := m.Map(Diffuse); ok {
		if m.Meta.DiffuseAlpha && !alphaTested(m) {
			w.writef("\t{\n\t\tmap   %s%s\n\t\tblend blend\n\t}\n", path, ref.Name)
		} else {
			w.writef("\tdiffuseMap          %s%s\n", path, ref.Name)
		}
	}

	w.writeNormalMap(path, m)

	// Specular map
	if ref, ok := m.Map(Specular); ok {
		w.writef("\tspecularMap         %s%s\n", path, ref.Name)
	}

	// Addition map
	if ref, ok := m.Map(Addition); ok {
		w.writef("\t{\n\t\tmap   %s%s\n\t\tblend add\n", path, ref.Name)
		if c := m.Meta.LightColor; c != nil {
			exp := m.Options.RadToAddExponent
			w.writef("\t\tred   %.2f\n", math.Pow(channel(c.R), exp))
			w.writef("\t\tgreen %.2f\n", math.Pow(channel(c.G), exp))
			w.writef("\t\tblue  %.2f\n", math.Pow(channel(c.B), exp))
		}
		w.writeString("\t}\n")
	}

	w.writeString("}\n")
}

// writeSurfaceLight writes the light emitted by a light variant.
func (w *writer) writeSurfaceLight(path string, m *Material) {
	if m.Meta.LightIntensity == nil || *m.Meta.LightIntensity <= 0 {
		return
	}

	w.writef("\tq3map_surfacelight  %d\n", *m.Meta.LightIntensity)

	if c := m.Meta.LightColor; c != nil {
		w.writef("\tq3map_lightRGB      %.2f %.2f %.2f\n\n", channel(c.R), channel(c.G), channel(c.B))
	} else if ref, ok := m.Map(Addition); ok {
		w.writef("\tq3map_lightImage    %s%s\n\n", path, ref.Name)
	} else if ref, ok := m.Map(Diffuse); ok {
		w.writef("\tq3map_lightImage    %s%s\n\n", path, ref.Name)
	} else {
		w.writeString("\tq3map_lightRGB      1.00 1.00 1.00\n\n")
	}
}

// writeNormalMap writes the normal map, generating or combining normals
// from the height map when its modifier is positive.
func (w *writer) writeNormalMap(path string, m *Material) {
	mod := m.Options.HeightNormalsModifier
	normal, hasNormal := m.Map(Normal)
	height, hasHeight := m.Map(Height)
	useHeight := hasHeight && mod > 0

	switch {
	case hasNormal && useHeight:
		w.writef("\tnormalMap           addnormals ( %s%s, heightmap ( %s%s, %.2f ) )\n",
			path, normal.Name, path, height.Name, mod)
	case hasNormal:
		w.writef("\tnormalMap           %s%s\n", path, normal.Name)
	case useHeight:
		w.writef("\tnormalMap           heightmap ( %s%s, %.2f )\n", path, height.Name, mod)
	}
}

// channel converts an 8-bit color channel to [0,1].
func channel(v uint8) float64 {
	return float64(v) / 0xff
}
