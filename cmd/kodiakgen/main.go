package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/cmd/kodiakgen/commands"
	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kodiakgen",
	Short: "kodiakgen - Vulkan loader generator",
	Long: `kodiakgen - Generate a dynamic Vulkan loader from the Khronos registry.

It reads vk.xml, groups every command under the preprocessor guard that
makes it available, decides whether each command is loaded globally, per
instance or per device, and patches the result into LoaderVK.h and
LoaderVK.cpp between // KODIAK_GEN_<BLOCK> sentinel lines.

Available commands:
  generate - Write the loader files
  check    - Fail if the loader files are out of date
  watch    - Regenerate on registry or template changes
  groups   - Print the reduced command groups
  config   - Manage kodiakgen configuration
  version  - Show build information

Examples:
  kodiakgen config init            # Write ./kodiak.toml
  kodiakgen generate -r ./vk.xml   # Generate from a local registry
  kodiakgen check                  # CI: verify generated files`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		// Logging settings come straight from viper so a broken config
		// file still leaves `config validate` a working logger
		v := config.GetViper()
		if theme := v.GetString("log.theme"); theme != "" {
			logger.SetTheme(theme)
		}
		if err := logger.Initialize(v.GetBool("log.json"), verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debugw("Configuration sources", "sources", config.Describe())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigPath, "config", "c", "", "Use this config file instead of the layered lookup")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.GroupsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
