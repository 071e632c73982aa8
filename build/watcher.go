package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rebuilds the catalog whenever RDF files in the input
// directory change. Events are debounced so a burst of writes (a dump
// being copied in) triggers a single rebuild.
type Watcher struct {
	driver   *Driver
	inputDir string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher around an existing driver.
func NewWatcher(d *Driver, debounce time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		driver:   d,
		inputDir: d.cfg.Build.InputDir,
		debounce: debounce,
		logger:   logger,
	}
}

// Run performs an initial build and then blocks, rebuilding after each
// settled batch of changes, until the context is done. An initial
// empty input directory is not fatal here: files may appear later.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.driver.Build(ctx); err != nil {
		if !errors.Is(err, ErrNoInputFiles) {
			return err
		}
		w.logger.Warn("initial build found no input files, watching for arrivals",
			slog.String("input_dir", w.inputDir))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.inputDir); err != nil {
		return err
	}
	w.logger.Info("watching input directory", slog.String("input_dir", w.inputDir))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(fw, ev.Name)
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("input change", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := w.driver.Build(ctx); err != nil {
				if errors.Is(err, ErrNoInputFiles) || errors.Is(err, ErrNoArtifacts) {
					w.logger.Warn("rebuild produced nothing", slog.String("error", err.Error()))
					continue
				}
				return err
			}
		}
	}
}

// relevant reports whether the event concerns a supported RDF file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	return w.driver.registry.ForFile(ev.Name) != nil
}

// addRecursive watches dir and all its subdirectories.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}
