package commands

import (
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/logger"
)

// GenerateCmd renders and writes the loader files
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Vulkan loader from the registry",
	Long: `Read vk.xml, reduce its commands to guarded groups, classify every
command into the root, instance or device tier and patch the generated
blocks into the loader header and source.

Existing output files are patched in place; missing ones start from the
templates (output.template_dir, or the built-in ones).

Examples:
  kodiakgen generate                               # Use kodiak.toml
  kodiakgen generate -r ~/Vulkan-Docs/xml/vk.xml   # Local registry
  kodiakgen generate -o src/Generated              # Different output dir`,
	RunE: runGenerate,
}

func init() {
	addSourceFlags(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := logger.WithRunID(cmd.Context(), uuid.New().String())
	log := logger.LoggerFromContext(ctx)
	start := time.Now()

	rendering, err := Render(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := Persist(ctx, cfg, rendering, log); err != nil {
		return err
	}

	for _, file := range rendering.Files {
		if file.Changed() {
			pterm.Success.Printf("Generated %s (%d blocks)\n", file.Path, len(file.Patched))
		} else {
			pterm.Info.Printf("Unchanged %s\n", file.Path)
		}
	}
	pterm.Printf("  %s %d groups, %d merged, %d lines in %s\n",
		pterm.Gray("→"),
		len(rendering.Result.Groups),
		rendering.Result.Merged,
		rendering.Result.Blocks.Lines(),
		time.Since(start).Round(time.Millisecond))
	return nil
}
