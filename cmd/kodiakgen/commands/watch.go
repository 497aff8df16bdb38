package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/logger"
	"github.com/teranos/kodiakgen/registry"
)

// WatchCmd regenerates on input changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the registry or templates change",
	Long: `Generate once, then watch the local registry file and the template
directory and regenerate after every change.

Changes are debounced by watch.debounce_ms and regenerations are spaced at
least watch.min_interval_ms apart. Remote registries are fetched once and
not watched. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	addSourceFlags(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.ComponentLogger("watch")
	opts, err := watchOptions(ctx, cfg)
	if err != nil {
		return err
	}
	w, err := NewWatcher(opts, func(ctx context.Context) error {
		return regenerate(ctx, cfg)
	}, log)
	if err != nil {
		return err
	}

	pterm.Info.Printf("Watching for changes (debounce %s)\n", cfg.Debounce())
	return w.Run(ctx)
}

func watchOptions(ctx context.Context, cfg *config.Config) (WatcherOptions, error) {
	opts := WatcherOptions{
		Ignore: []string{
			filepath.Join(cfg.Output.Dir, cfg.Output.Header),
			filepath.Join(cfg.Output.Dir, cfg.Output.Source),
		},
		Debounce:    cfg.Debounce(),
		MinInterval: cfg.MinInterval(),
	}
	if cfg.Registry.Source != "" && registry.IsLocal(cfg.Registry.Source) {
		// Local sources resolve without copying, so Path is the file itself
		src, err := registry.Fetch(ctx, cfg.Registry.Source, nil)
		if err != nil {
			return opts, err
		}
		src.Close()
		opts.Files = append(opts.Files, src.Path)
	}
	if cfg.Output.TemplateDir != "" {
		opts.Dirs = append(opts.Dirs, cfg.Output.TemplateDir)
	}
	return opts, nil
}

func regenerate(ctx context.Context, cfg *config.Config) error {
	ctx = logger.WithRunID(ctx, uuid.New().String())
	log := logger.LoggerFromContext(ctx)

	rendering, err := Render(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := Persist(ctx, cfg, rendering, log); err != nil {
		return err
	}
	for _, file := range rendering.Files {
		if file.Changed() {
			pterm.Success.Printf("Regenerated %s\n", file.Path)
		}
	}
	return nil
}
