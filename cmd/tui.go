package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive section picker. Generation logs go to the
// logfile only; the terminal belongs to the UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	genLogger := r.generationLogger(cmd)

	path, err := r.resolveConfigPath(cmd)
	if err != nil {
		genLogger.Error("no config file specified, set CONFIG_FILE env or pass as argument")
		return err
	}

	lib, err := library.Load(path)
	if err != nil {
		genLogger.Error("failed to load library configuration", "path", path, "error", err)
		return err
	}

	engine := r.buildEngine(cmd, genLogger)
	if closer := engine.closer; closer != nil {
		defer closer()
	}

	model := ui.NewModel(ctx, lib, engine.GenerateEngine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
