package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sloth/internal/config"
)

// configCommand creates the `sloth config` command tree.
func (a *App) configCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sloth configuration",
		Long: `Manage sloth configuration.

Configuration is read from, in order:
  - the file given with --config
  - ./` + config.FileName + `
  - ` + config.ConfigDir() + `/config.yaml

Command-line flags override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(&a.flags, cmd.Flags())
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = a.Stdout.Write(data)
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(&a.flags, cmd.Flags())
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
				err = cfg.SaveTo(path)
			} else {
				path, err = cfg.Save()
			}
			if err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Fprintf(a.Stdout, "Wrote %s\n", path)
			return nil
		},
	})

	return cfgCmd
}
