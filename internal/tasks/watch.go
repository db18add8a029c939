package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/shared"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last filesystem
// event before regenerating. Editors tend to fire several events per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher regenerates playlists whenever the library configuration file changes.
type Watcher struct {
	configPath string
	engine     *GenerateEngine
	logger     *log.Logger
	debounce   time.Duration
}

// NewWatcher creates a Watcher for the library configuration at configPath.
func NewWatcher(configPath string, engine *GenerateEngine, logger *log.Logger, debounce time.Duration) *Watcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		configPath: configPath,
		engine:     engine,
		logger:     logger,
		debounce:   debounce,
	}
}

// Watch generates once immediately, then blocks regenerating on every change
// to the configuration file until ctx is cancelled.
//
// The parent directory is watched rather than the file itself because most
// editors replace the file on save, which would drop a direct watch.
func (w *Watcher) Watch(ctx context.Context, progress chan<- ProgressUpdate) error {
	if err := w.regenerate(ctx, progress); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.configPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("watching library configuration", "path", w.configPath)

	base := filepath.Base(w.configPath)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("configuration changed", "event", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			if err := w.regenerate(ctx, progress); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// A broken reload keeps the last generated playlists; keep watching.
				w.logger.Error("regeneration failed", "error", err)
			}
		}
	}
}

// regenerate reloads the library and runs the engine once.
func (w *Watcher) regenerate(ctx context.Context, progress chan<- ProgressUpdate) error {
	lib, err := library.Load(w.configPath)
	if err != nil {
		return err
	}

	_, err = w.engine.Run(ctx, progress, lib)
	return err
}
