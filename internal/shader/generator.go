package shader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Faultbox/sloth/internal/options"
	"github.com/Faultbox/sloth/internal/texture"
)

// Prober reports metadata of an image file.
type Prober interface {
	Probe(path string) (texture.Info, error)
}

// Generator turns texture directories into shader sets.
type Generator struct {
	Fs       afero.Fs        // Filesystem holding the texture directories
	Prober   Prober          // Image metadata source
	Suffixes Suffixes        // Map filename suffixes
	Defaults options.Options // Built-in option layer shared by every directory
	Registry *Registry       // Accumulated shader sets
	Log      *zap.Logger     // Diagnostics
}

// NewGenerator creates a generator reading from fsys with the stock
// suffixes. A nil logger discards diagnostics.
func NewGenerator(fsys afero.Fs, defaults options.Options, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		Fs:       fsys,
		Prober:   texture.NewFileProber(fsys),
		Suffixes: DefaultSuffixes(),
		Defaults: defaults,
		Registry: NewRegistry(),
		Log:      log,
	}
}

// SetName derives a set name from a source directory: the directory name
// prefixed by its parent's name, with strip removed from the end.
func SetName(dir, strip string) string {
	abs := filepath.Clean(dir)
	rel := filepath.Base(filepath.Dir(abs)) + "/" + filepath.Base(abs)
	if strip != "" {
		rel = strings.TrimSuffix(rel, strip)
	}
	return rel
}

// GenerateSet adds a shader for every diffuse map in dir to the registry.
// An empty setName derives the set from the directory (see SetName).
// It returns the name of the set the shaders went to.
func (g *Generator) GenerateSet(dir, setName, strip string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	entries, err := afero.ReadDir(g.Fs, abs)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", abs, err)
	}

	var files []string
	hasDirOptions := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, e.Name())
		if e.Name() == options.DirectoryFile {
			hasDirOptions = true
		}
	}

	relPath := SetName(abs, "")
	if setName == "" {
		setName = SetName(abs, strip)
	}
	log := g.Log.With(zap.String("set", setName))

	dirOpts := g.Defaults.Clone()
	if hasDirOptions {
		path := filepath.Join(abs, options.DirectoryFile)
		log.Info("parsing per-folder options file", zap.String("path", path))
		if err := options.ApplyFile(g.Fs, path, &dirOpts, log); err != nil {
			log.Warn("ignoring options file", zap.Error(err))
		}
	}

	ix := NewIndex(files, g.Suffixes)
	for base, slots := range ix.Ambiguous() {
		log.Warn("map matches several suffixes", zap.String("map", base), zap.Stringers("slots", slots))
	}

	mats := make(map[string]*Material)
	for _, diffuse := range ix.Maps(Diffuse) {
		m, err := g.newMaterial(ix, abs, relPath, diffuse, dirOpts, log)
		if err != nil {
			log.Error("skipping material", zap.String("diffuse", diffuse), zap.Error(err))
			continue
		}
		if _, dup := mats[m.Name]; dup {
			log.Debug("diffuse maps share a material name", zap.String("material", m.Name))
		}
		mats[m.Name] = m
	}

	variants := len(mats)
	expanded := ExpandLights(mats)
	g.Registry.Merge(setName, expanded)

	log.Info("added shaders", zap.Int("shaders", len(expanded)), zap.Int("texture_variants", variants))
	return setName, nil
}

// newMaterial resolves the maps of one diffuse map, cascades its options,
// probes its maps and infers its keywords.
func (g *Generator) newMaterial(ix *Index, abs, relPath, diffuse string, dirOpts options.Options, log *zap.Logger) (*Material, error) {
	m := &Material{
		Name:    ix.MaterialName(diffuse),
		RelPath: relPath,
		AbsPath: abs,
		Maps:    map[Slot]MapRef{Diffuse: {Name: diffuse, Ext: ix.Ext(diffuse)}},
		Options: dirOpts.Clone(),
	}

	for _, s := range Slots {
		hit, ok := ix.Find(s, m.Name)
		if !ok {
			delete(m.Maps, s)
			continue
		}
		if ix.IsOptionFile(hit) {
			path := filepath.Join(abs, hit+options.Ext)
			log.Info("parsing per-shader options file", zap.String("path", path))
			if err := options.ApplyFile(g.Fs, path, &m.Options, log); err != nil {
				log.Warn("ignoring options file", zap.Error(err))
			}
			continue
		}
		m.Maps[s] = MapRef{Name: hit, Ext: ix.Ext(hit)}
	}

	if err := g.analyzeMaps(m); err != nil {
		return nil, err
	}
	InferKeywords(m)

	return m, nil
}

// analyzeMaps fills the metadata that depends on map contents.
func (g *Generator) analyzeMaps(m *Material) error {
	diffuse := m.Maps[Diffuse]
	info, err := g.Prober.Probe(filepath.Join(m.AbsPath, diffuse.Name+diffuse.Ext))
	if err != nil {
		return err
	}
	m.Meta.DiffuseAlpha = info.HasAlpha

	if add, ok := m.Map(Addition); ok {
		info, err := g.Prober.Probe(filepath.Join(m.AbsPath, add.Name+add.Ext))
		if err != nil {
			return err
		}
		m.Meta.AdditionGrayscale = info.Grayscale
	}

	return nil
}
