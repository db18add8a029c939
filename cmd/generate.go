package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ugen/internal/formatter"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/playlist"
	"github.com/desertthunder/m3ugen/internal/shared"
	"github.com/desertthunder/m3ugen/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate writes one playlist file per valid section of the library
// configuration. Startup errors (no config path, missing or unparsable
// config) are returned and fatal; per-section failures are logged and the
// command still succeeds.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
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

	result, err := engine.Run(ctx, nil, lib)
	if err != nil {
		return fmt.Errorf("generation interrupted: %w", err)
	}

	r.writePlain("Wrote %d playlists (%d skipped, %d failed) from %d sections in %s\n",
		result.Written, result.Skipped, result.Failed, result.Sections(), result.Duration.Round(time.Millisecond))

	if dir := cmd.String("report"); dir != "" {
		if path, err := r.writeReport(dir, cmd.String("format"), result); err != nil {
			r.logger.Warn("failed to write report", "error", err)
		} else {
			r.writePlain("Report written to %s\n", path)
		}
	}

	return nil
}

// boundEngine couples a GenerateEngine with the cleanup for its history database.
type boundEngine struct {
	*tasks.GenerateEngine
	closer func()
}

// buildEngine assembles the generator and engine for one run, attaching the
// history repository unless disabled. History problems are warnings only.
func (r *Runner) buildEngine(cmd *cli.Command, genLogger *log.Logger) boundEngine {
	gen := playlist.NewGenerator(r.extensions(cmd), genLogger)
	engine := tasks.NewGenerateEngine(gen, genLogger)

	if cmd.Bool("no-history") {
		return boundEngine{GenerateEngine: engine}
	}

	db, runs, err := r.openHistory()
	if err != nil {
		genLogger.Warn("history database unavailable, continuing without it", "error", err)
		return boundEngine{GenerateEngine: engine}
	}
	if runs == nil {
		return boundEngine{GenerateEngine: engine}
	}

	engine.WithHistory(runs)
	return boundEngine{GenerateEngine: engine, closer: func() { db.Close() }}
}

// writeReport exports the run's section reports in the requested format.
func (r *Runner) writeReport(dir, format string, result *tasks.GenerateResult) (string, error) {
	var (
		data []byte
		err  error
		ext  string
	)

	switch format {
	case "csv":
		data, err = formatter.ExportReportToCSV(result.Reports)
		ext = "csv"
	case "txt":
		data, err = formatter.ExportReportToText(result.ConfigPath, result.Reports)
		ext = "txt"
	case "md", "markdown", "":
		data, err = formatter.ExportReportToMarkdown(result.ConfigPath, result.Reports)
		ext = "md"
	default:
		return "", fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("m3ugen_report_%d.%s", time.Now().Unix(), ext)
	return formatter.WriteExport(dir, filename, data)
}
