package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/sloth/internal/config"
	"github.com/Faultbox/sloth/internal/encoding"
	"github.com/Faultbox/sloth/internal/logger"
	"github.com/Faultbox/sloth/internal/shader"
)

// Version is the release version (set via -ldflags).
var Version = "dev"

// App wires the command line to the generator.
type App struct {
	Fs     afero.Fs
	Stdout io.Writer

	flags  config.Flags
	sets   []string
	shader string
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "sloth [flags] PATH...",
		Short: "Generate shader definitions from texture directories",
		Long: `sloth scans texture directories and writes Quake 3 / XreaL shader
definitions for every diffuse map it finds.

Maps belonging to one material share a name and differ by suffix:
  wall_d.tga  diffuse       wall_n.tga  normal       wall_h.tga  height
  wall_s.tga  specular      wall_a.tga  addition     wall_p.tga  preview

Light settings may be overridden per directory with options.sloth and per
material with <diffuse>.sloth, both holding a [light] section.

List flags (--colors, --custom-lights, --predef-lights) take comma-separated
values or may be repeated. A space starts the next directory argument.`,
		Example: `  sloth textures/base/walls_src > scripts/walls.shader
  sloth -c red:ff0000,blue:0000ff -l 1000,5000 textures/base/lights
  sloth -g -r custom/lights -o lights.shader textures/a textures/b
  sloth --ge128 --no-alpha-shadows textures/nature/trees`,
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, args)
		},
	}

	a.flags.Register(root.PersistentFlags())
	root.MarkFlagsMutuallyExclusive(config.AlphaFlags...)
	root.MarkFlagsMutuallyExclusive(config.SetNameFlags...)

	root.Flags().StringSliceVar(&a.sets, "set", nil, "Only write these shader sets")
	root.Flags().StringVar(&a.shader, "shader", "", "Only write the shader of this name")

	root.AddCommand(a.configCommand())

	return root
}

// setup loads the configuration and starts logging.
func (a *App) setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(&a.flags, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func (a *App) generate(cmd *cobra.Command, dirs []string) error {
	cfg, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Named("sloth")

	g := shader.NewGenerator(a.Fs, cfg.Options(log), logger.Named("shader"))
	g.Suffixes = cfg.ShaderSuffixes()

	var errs error
	for _, dir := range dirs {
		set, err := g.GenerateSet(dir, cfg.Output.Root, cfg.Output.Strip)
		if err != nil {
			log.Error("skipping directory", zap.String("path", dir), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		log.Debug("generated set", zap.String("path", dir), zap.String("set", set))
	}

	opt := &shader.FormatOptions{Sets: a.sets, Material: a.shader}
	if cfg.Output.Header != "" {
		header, err := encoding.ReadFile(a.Fs, cfg.Output.Header)
		if err != nil {
			return fmt.Errorf("reading header: %w", err)
		}
		opt.Header = string(header)
	}

	if err := a.write(cfg.Output.Out, g.Registry, opt); err != nil {
		if !errors.Is(err, shader.ErrUnknownSet) && !errors.Is(err, shader.ErrUnknownMaterial) {
			return fmt.Errorf("writing shaders: %w", err)
		}
		for _, e := range multierr.Errors(err) {
			log.Error("nothing to write", zap.Error(e))
		}
		errs = multierr.Append(errs, err)
	}

	return errs
}

// write renders the registry to path, or to stdout when path is empty.
func (a *App) write(path string, r *shader.Registry, opt *shader.FormatOptions) error {
	if path == "" {
		return shader.Encode(a.Stdout, r, opt)
	}

	return shader.EncodeFile(a.Fs, path, r, opt)
}
