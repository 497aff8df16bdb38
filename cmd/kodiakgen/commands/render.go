package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/loadergen"
	"github.com/teranos/kodiakgen/logger"
	"github.com/teranos/kodiakgen/patch"
	"github.com/teranos/kodiakgen/registry"
	"github.com/teranos/kodiakgen/templates"
)

const checkTempPrefix = ".kodiakgen-check-"

// RenderedFile is one output file rendered in memory.
type RenderedFile struct {
	Path    string
	Content []byte
	// OnDisk is the current file content, nil when the file does not exist.
	OnDisk  []byte
	Patched []loadergen.BlockName
}

// Changed reports whether writing the file would modify the disk.
func (f RenderedFile) Changed() bool {
	return f.OnDisk == nil || !bytes.Equal(f.OnDisk, f.Content)
}

// Rendering is a full generation run held in memory.
type Rendering struct {
	Result *loadergen.Result
	Files  []RenderedFile
}

// Render loads the registry, runs the generator and patches both output
// files in memory. Nothing is written.
func Render(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Rendering, error) {
	result, err := generate(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	outputs := []struct{ name, template string }{
		{cfg.Output.Header, templates.Header},
		{cfg.Output.Source, templates.Source},
	}
	rendering := &Rendering{Result: result}
	for _, out := range outputs {
		file, err := renderFile(cfg, filepath.Join(cfg.Output.Dir, out.name), out.template, result.Blocks)
		if err != nil {
			return nil, err
		}
		log.Debugw("Rendered file",
			logger.FieldFile, file.Path,
			logger.FieldCount, len(file.Patched),
		)
		rendering.Files = append(rendering.Files, file)
	}
	return rendering, nil
}

func generate(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*loadergen.Result, error) {
	opts, err := cfg.DecodeOptions()
	if err != nil {
		return nil, err
	}
	reg, err := registry.Load(ctx, cfg.Registry.Source, opts, log)
	if err != nil {
		return nil, err
	}
	return loadergen.Generate(reg, cfg.ClassifierOptions(), log)
}

// renderFile patches the existing output file when there is one, otherwise
// the template.
func renderFile(cfg *config.Config, path, template string, blocks loadergen.Blocks) (RenderedFile, error) {
	file := RenderedFile{Path: path}

	base, err := os.ReadFile(path)
	switch {
	case err == nil:
		file.OnDisk = base
	case os.IsNotExist(err):
		base, err = templates.Read(cfg.Output.TemplateDir, template)
		if err != nil {
			return file, err
		}
	default:
		return file, errors.Wrapf(err, "failed to read %s", path)
	}

	patched, err := patch.ApplyBytes(base, blocks)
	if err != nil {
		return file, errors.Wrapf(err, "failed to patch %s", path)
	}
	if len(patched.Patched) == 0 {
		return file, errors.WithHint(
			errors.Newf("%s contains no %s sentinel lines", path, patch.SentinelPrefix),
			"delete the file to regenerate it from the template")
	}
	file.Content = patched.Content
	file.Patched = patched.Patched
	return file, nil
}

// Persist writes every rendered file and runs the configured formatter on
// it. All files are staged and formatted before any of them replaces its
// target, so a failure leaves the previous outputs as they were.
func Persist(ctx context.Context, cfg *config.Config, rendering *Rendering, log *zap.SugaredLogger) error {
	if err := os.MkdirAll(cfg.Output.Dir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", cfg.Output.Dir)
	}

	staged := make([]*patch.Staged, 0, len(rendering.Files))
	defer func() {
		for _, s := range staged {
			s.Discard()
		}
	}()
	for _, file := range rendering.Files {
		s, err := patch.Stage(file.Path, file.Content, config.DefaultFilePermissions)
		if err != nil {
			return err
		}
		staged = append(staged, s)
		if err := patch.Format(ctx, cfg.Output.FormatCommand, s.Temp); err != nil {
			return errors.Wrapf(err, "failed to format %s", file.Path)
		}
	}

	for i, s := range staged {
		if err := s.Commit(); err != nil {
			return err
		}
		log.Infow("Wrote generated file",
			logger.FieldFile, s.Path,
			logger.FieldLines, bytes.Count(rendering.Files[i].Content, []byte("\n")),
		)
	}
	return nil
}

// Formatted returns file's content as it would look on disk after the
// configured formatter ran. Without a formatter it is the rendered content.
func Formatted(ctx context.Context, cfg *config.Config, file RenderedFile) ([]byte, error) {
	if cfg.Output.FormatCommand == "" {
		return file.Content, nil
	}

	// Format next to the real file so project style files apply
	dir := filepath.Dir(file.Path)
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, checkTempPrefix+"*"+filepath.Ext(file.Path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(file.Content); err != nil {
		tmp.Close()
		return nil, errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err := patch.Format(ctx, cfg.Output.FormatCommand, tmp.Name()); err != nil {
		return nil, err
	}
	return os.ReadFile(tmp.Name())
}
