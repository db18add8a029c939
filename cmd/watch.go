package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/m3ugen/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Watch regenerates playlists whenever the library configuration file
// changes, until interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	genLogger := r.generationLogger(cmd)

	path, err := r.resolveConfigPath(cmd)
	if err != nil {
		genLogger.Error("no config file specified, set CONFIG_FILE env or pass as argument")
		return err
	}

	engine := r.buildEngine(cmd, genLogger)
	if closer := engine.closer; closer != nil {
		defer closer()
	}

	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("Watching %s, press Ctrl+C to stop\n", path)

	watcher := tasks.NewWatcher(path, engine.GenerateEngine, genLogger, cmd.Duration("debounce"))
	if err := watcher.Watch(watchCtx, nil); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	r.writePlain("Watch stopped\n")
	return nil
}
