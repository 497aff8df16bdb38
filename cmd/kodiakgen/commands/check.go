package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/logger"
)

// CheckCmd verifies the generated files are current
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the generated loader is up to date",
	Long: `Render the loader in memory and compare it with the files on disk.
Nothing is written. Exits non-zero and prints a line diff when a file is
missing or stale, which makes it suitable for CI.`,
	RunE: runCheck,
}

func init() {
	addSourceFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	rendering, err := Render(ctx, cfg, logger.LoggerFromContext(ctx))
	if err != nil {
		return err
	}

	stale, err := StaleFiles(ctx, cfg, rendering)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		pterm.Success.Println("Generated files are up to date")
		return nil
	}

	for _, s := range stale {
		pterm.Warning.Printf("%s is out of date\n", s.Path)
		if s.Diff != "" {
			pterm.Println(s.Diff)
		}
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%d file(s) differ", len(stale)),
		"run kodiakgen generate")
}
