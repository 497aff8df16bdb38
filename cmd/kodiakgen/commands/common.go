// Package commands implements the kodiakgen CLI subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/errors"
)

// ConfigPath is set by the root --config flag. Empty means the layered
// lookup (system, user, project, env).
var ConfigPath string

// loadConfig returns the effective configuration for cmd: the layered config
// (or --config file) with the --registry and --output flags applied on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if ConfigPath != "" {
		cfg, err = config.LoadFromFile(ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	// Copy so flag overrides never leak into the cached config
	effective := *cfg
	if f := cmd.Flags().Lookup("registry"); f != nil && f.Changed {
		effective.Registry.Source = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		effective.Output.Dir = f.Value.String()
	}

	if err := effective.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid configuration"),
			"run kodiakgen config where to see which file sets it")
	}
	return &effective, nil
}

// addSourceFlags registers the flags shared by every command that renders.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("registry", "r", "", "Registry path or URL (overrides registry.source)")
	cmd.Flags().StringP("output", "o", "", "Output directory (overrides output.dir)")
}
