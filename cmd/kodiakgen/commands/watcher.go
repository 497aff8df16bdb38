package commands

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/logger"
)

// RegenerateFunc runs one generation. Errors are logged and watching goes on.
type RegenerateFunc func(ctx context.Context) error

// Watcher regenerates when watched inputs change. Regenerations run on the
// watch loop goroutine, so they never overlap.
type Watcher struct {
	watcher    *fsnotify.Watcher
	files      map[string]bool // watched individually (parent dir is watched)
	dirs       map[string]bool // every entry counts
	ignore     map[string]bool // our own outputs
	debounce   time.Duration
	limiter    *rate.Limiter
	regenerate RegenerateFunc
	log        *zap.SugaredLogger
}

// WatcherOptions configures NewWatcher.
type WatcherOptions struct {
	Files       []string
	Dirs        []string
	Ignore      []string
	Debounce    time.Duration
	MinInterval time.Duration
}

// NewWatcher creates a watcher over opts.Files and opts.Dirs.
func NewWatcher(opts WatcherOptions, regenerate RegenerateFunc, log *zap.SugaredLogger) (*Watcher, error) {
	if len(opts.Files) == 0 && len(opts.Dirs) == 0 {
		return nil, errors.WithHint(
			errors.New("nothing to watch"),
			"watch needs a local registry.source or an output.template_dir")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	w := &Watcher{
		watcher:    fw,
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		ignore:     make(map[string]bool),
		debounce:   opts.Debounce,
		limiter:    rate.NewLimiter(limit, 1),
		regenerate: regenerate,
		log:        log,
	}

	added := make(map[string]bool)
	add := func(dir string) error {
		if added[dir] {
			return nil
		}
		added[dir] = true
		if err := fw.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		return nil
	}

	// Editors replace files by rename, so files are watched through their directory
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true
		if err := add(filepath.Dir(abs)); err != nil {
			fw.Close()
			return nil, err
		}
	}
	for _, d := range opts.Dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", d)
		}
		w.dirs[abs] = true
		if err := add(abs); err != nil {
			fw.Close()
			return nil, err
		}
	}
	for _, f := range opts.Ignore {
		if abs, err := filepath.Abs(f); err == nil {
			w.ignore[abs] = true
		}
	}
	return w, nil
}

// relevant reports whether an event should schedule a regeneration.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if w.ignore[path] || isTempFile(path) {
		return false
	}
	return w.files[path] || w.dirs[filepath.Dir(path)]
}

// isTempFile matches the atomic-write and check temporaries next to outputs.
func isTempFile(path string) bool {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasPrefix(base, checkTempPrefix) ||
		strings.HasSuffix(base, ".tmp") ||
		strings.Contains(base, ".tmp.") ||
		strings.HasSuffix(base, ".swp")
}

// Run watches until ctx is done. The first regeneration happens immediately.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.fire(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())

			// Debounce rapid changes into one regeneration
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timer, timerC = nil, nil
			w.fire(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) fire(ctx context.Context) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	if err := w.regenerate(ctx); err != nil {
		w.log.Errorw("Regeneration failed", logger.FieldError, err)
	}
}
