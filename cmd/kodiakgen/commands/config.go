package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/display"
	"github.com/teranos/kodiakgen/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kodiakgen configuration",
	Long: `Display and manage kodiakgen configuration.

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/kodiak/kodiak.toml)
3. User config (~/.kodiak/kodiak.toml)
4. Project config (nearest kodiak.toml, searching up directories)
5. Environment variables (KODIAK_* prefix, e.g. KODIAK_OUTPUT_DIR)
6. Command line flags (--registry, --output)

Examples:
  kodiakgen config init                 # Write ./kodiak.toml with defaults
  kodiakgen config show                 # Show effective configuration (YAML)
  kodiakgen config validate             # Check ./kodiak.toml
  kodiakgen config where                # Show where each value comes from`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective kodiakgen configuration from all sources",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file",
	Long: `Strictly decode a configuration file, report keys kodiakgen does not
know and validate the values. Defaults to --config, then the nearest
kodiak.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runConfigWhere,
}

var (
	configFormat   string
	configInitPath string
	configForce    bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format: yaml, json, toml")
	configInitCmd.Flags().StringVar(&configInitPath, "path", config.FileName, "File to write")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file (keeps .back1-.back3)")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteFile(configInitPath, config.Defaults(), configForce); err != nil {
		return err
	}
	pterm.Success.Printf("Wrote %s\n", configInitPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := display.ParseFormat(configFormat, display.FormatTOML, display.FormatJSON, display.FormatYAML)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// TOML goes through MarshalTOML so the output is a ready kodiak.toml
	if format == display.FormatTOML {
		data, err := config.MarshalTOML(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return display.Write(cmd.OutOrStdout(), format, cfg, "kodiakgen configuration")
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := ConfigPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = config.FindProjectConfig()
	}
	if path == "" {
		return errors.WithHint(
			errors.NewNotFoundError("no %s found in this directory or its parents", config.FileName),
			"run kodiakgen config init")
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	unknown, err := config.CheckFile(path)
	for _, key := range unknown {
		pterm.Warning.Printf("Unknown key %s in %s\n", key, path)
	}
	if err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration is valid (%s)\n", path)
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	settings, err := config.Introspect()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [SYSTEM]   %s\n", config.SystemConfigPath)
	fmt.Fprintln(out, "  3. [USER]     ~/.kodiak/kodiak.toml")
	fmt.Fprintf(out, "  4. [PROJECT]  ./%s (searches up directories)\n", config.FileName)
	fmt.Fprintln(out, "  5. [ENV]      KODIAK_* environment variables")
	fmt.Fprintln(out)

	type fileGroup struct {
		source   config.ConfigSource
		path     string
		settings []config.SettingInfo
	}
	groups := make(map[string]*fileGroup)
	for _, setting := range settings {
		// Env vars and defaults group by source, files by path
		key := string(setting.Source)
		path := ""
		if setting.Source != config.SourceDefault && setting.Source != config.SourceEnvironment {
			key, path = setting.SourcePath, setting.SourcePath
		}
		group, ok := groups[key]
		if !ok {
			group = &fileGroup{source: setting.Source, path: path}
			groups[key] = group
		}
		group.settings = append(group.settings, setting)
	}

	sourceOrder := []config.ConfigSource{
		config.SourceDefault,
		config.SourceSystem,
		config.SourceUser,
		config.SourceProject,
		config.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var ordered []*fileGroup
		for _, group := range groups {
			if group.source == source {
				ordered = append(ordered, group)
			}
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].path < ordered[j].path })

		for _, group := range ordered {
			switch {
			case group.path != "":
				fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(group.settings), group.path)
			case source == config.SourceEnvironment:
				fmt.Fprintf(out, "\n%s: %d settings from environment variables\n", source, len(group.settings))
			default:
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(group.settings))
			}
			for _, setting := range group.settings {
				value := fmt.Sprintf("%v", setting.Value)
				if len(value) > 50 {
					value = value[:47] + "..."
				}
				if source == config.SourceEnvironment {
					fmt.Fprintf(out, "  %s = %s (%s)\n", setting.Key, value, setting.SourcePath)
					continue
				}
				fmt.Fprintf(out, "  %s = %s\n", setting.Key, value)
			}
		}
	}
	return nil
}
