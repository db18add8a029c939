package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/m3ugen/internal/formatter"
	"github.com/desertthunder/m3ugen/internal/models"
	"github.com/desertthunder/m3ugen/internal/shared"
	"github.com/urfave/cli/v3"
)

// runInfo is the machine-readable form of one recorded run.
type runInfo struct {
	ID              string `json:"id"`
	Sequence        int    `json:"sequence"`
	ConfigPath      string `json:"config_path"`
	SectionsTotal   int    `json:"sections_total"`
	SectionsWritten int    `json:"sections_written"`
	SectionsSkipped int    `json:"sections_skipped"`
	SectionsFailed  int    `json:"sections_failed"`
	EntriesTotal    int    `json:"entries_total"`
	DurationMS      int64  `json:"duration_ms"`
	CreatedAt       string `json:"created_at"`
}

func newRunInfo(run *models.Run) runInfo {
	return runInfo{
		ID:              run.ID(),
		Sequence:        run.Sequence(),
		ConfigPath:      run.ConfigPath(),
		SectionsTotal:   run.SectionsTotal(),
		SectionsWritten: run.SectionsWritten(),
		SectionsSkipped: run.SectionsSkipped(),
		SectionsFailed:  run.SectionsFailed(),
		EntriesTotal:    run.EntriesTotal(),
		DurationMS:      run.Duration().Milliseconds(),
		CreatedAt:       run.CreatedAt().Format(time.RFC3339),
	}
}

// listRuns loads recent runs from the history database, newest first.
func (r *Runner) listRuns(limit int) ([]*models.Run, func(), error) {
	db, runs, err := r.openHistory()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if runs == nil {
		return nil, nil, fmt.Errorf("%w: history is disabled in m3ugen.toml", shared.ErrInvalidConfig)
	}

	criteria := map[string]any{}
	if limit > 0 {
		criteria["limit"] = limit
	}

	records, err := runs.List(criteria)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return records, func() { db.Close() }, nil
}

// History lists recorded generation runs.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	records, closer, err := r.listRuns(cmd.Int("limit"))
	if err != nil {
		return err
	}
	defer closer()

	if cmd.Bool("json") {
		infos := make([]runInfo, 0, len(records))
		for _, run := range records {
			infos = append(infos, newRunInfo(run))
		}
		return r.writeJSON(infos, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Generation History")
	if len(records) == 0 {
		r.writePlain("No recorded runs.\n")
		return nil
	}

	for _, run := range records {
		r.writePlain("#%d %s\n", run.Sequence(), run.CreatedAt().Format(time.RFC3339))
		r.writePlain("    config:  %s\n", run.ConfigPath())
		r.writePlain("    written: %d/%d sections (%d skipped, %d failed)\n",
			run.SectionsWritten(), run.SectionsTotal(), run.SectionsSkipped(), run.SectionsFailed())
		r.writePlain("    entries: %d in %s\n", run.EntriesTotal(), run.Duration().Round(time.Millisecond))
	}

	return nil
}

// HistoryExport writes recorded runs to a csv or markdown file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	records, closer, err := r.listRuns(cmd.Int("limit"))
	if err != nil {
		return err
	}
	defer closer()

	var (
		data []byte
		ext  string
	)

	format := cmd.String("format")
	switch format {
	case "csv", "":
		data, err = formatter.ExportRunsToCSV(records)
		ext = "csv"
	case "md", "markdown":
		data, err = formatter.ExportRunsToMarkdown(records)
		ext = "md"
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("m3ugen_history_%d.%s", time.Now().Unix(), ext)
	path, err := formatter.WriteExport(cmd.String("output"), filename, data)
	if err != nil {
		return err
	}

	r.writePlain("Exported %d runs to %s\n", len(records), path)
	return nil
}
