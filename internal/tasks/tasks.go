package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/models"
	"github.com/desertthunder/m3ugen/internal/playlist"
	"github.com/desertthunder/m3ugen/internal/repositories"
	"github.com/desertthunder/m3ugen/internal/shared"
)

// GenerateResult contains all data from one generation run.
type GenerateResult struct {
	ConfigPath   string                   // Library configuration the run was generated from
	Reports      []playlist.SectionReport // Per-section outcomes in configuration order
	Written      int                      // Sections whose playlist was fully written
	Skipped      int                      // Sections skipped for missing values
	Failed       int                      // Sections abandoned on I/O errors
	TotalEntries int                      // Playlist lines written across all sections
	Duration     time.Duration            // Wall-clock run time
	RunID        string                   // History record ID, empty when history is disabled
}

// Sections returns the total number of sections processed.
func (r *GenerateResult) Sections() int { return len(r.Reports) }

// Engine defines the playlist generation run.
type Engine interface {
	// Run generates every section's playlist in configuration order, sending
	// progress updates as it goes. Only context cancellation is returned as
	// an error; section failures are carried in the result.
	Run(ctx context.Context, progress chan<- ProgressUpdate, lib *library.Library) (*GenerateResult, error)
}

// GenerateEngine implements [Engine] on top of a [playlist.Generator], with
// optional run-history recording.
type GenerateEngine struct {
	gen    *playlist.Generator
	runs   *repositories.RunRepository
	logger *log.Logger
}

// NewGenerateEngine creates a GenerateEngine with the provided generator and logger.
func NewGenerateEngine(gen *playlist.Generator, logger *log.Logger) *GenerateEngine {
	if gen == nil {
		gen = playlist.NewGenerator(nil, logger)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &GenerateEngine{gen: gen, logger: logger}
}

// WithHistory attaches a run repository so completed runs are recorded.
func (e *GenerateEngine) WithHistory(runs *repositories.RunRepository) *GenerateEngine {
	e.runs = runs
	return e
}

// Generator exposes the underlying playlist generator.
func (e *GenerateEngine) Generator() *playlist.Generator { return e.gen }

// sendProgress sends a progress update through the channel without blocking.
func (e *GenerateEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

// Run generates playlists for every section of the library in order.
func (e *GenerateEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, lib *library.Library) (*GenerateResult, error) {
	start := time.Now()
	total := len(lib.Sections)
	result := &GenerateResult{ConfigPath: lib.Path}

	e.sendProgress(progress, scanUpdate(total, lib.Path))

	for i, sec := range lib.Sections {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
		}

		e.sendProgress(progress, sectionStartUpdate(i+1, total, sec.Name))
		e.logger.Debug("processing section", "section", sec.Name)

		report := e.gen.ProcessSection(sec)
		result.Reports = append(result.Reports, report)
		result.TotalEntries += report.Entries

		switch {
		case report.Failed():
			result.Failed++
			e.sendProgress(progress, sectionFailedUpdate(i+1, total, report))
		case report.Skipped:
			result.Skipped++
			e.sendProgress(progress, sectionSkippedUpdate(i+1, total, report))
		default:
			result.Written++
			e.sendProgress(progress, sectionWrittenUpdate(i+1, total, report))
		}
	}

	result.Duration = time.Since(start)
	e.recordRun(result)
	e.sendProgress(progress, completeUpdate(result))
	e.logger.Info("finished writing all playlists",
		"sections", total, "written", result.Written, "skipped", result.Skipped, "failed", result.Failed)

	return result, nil
}

// sectionReportRecord is the serialized form of a report in the history database.
type sectionReportRecord struct {
	Section  string `json:"section"`
	Playlist string `json:"playlist,omitempty"`
	Entries  int    `json:"entries"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

// recordRun persists the run when history is enabled. Failures are warnings.
func (e *GenerateEngine) recordRun(result *GenerateResult) {
	if e.runs == nil {
		return
	}

	records := make([]sectionReportRecord, 0, len(result.Reports))
	for _, report := range result.Reports {
		rec := sectionReportRecord{
			Section:  report.Section,
			Playlist: report.Playlist,
			Entries:  report.Entries,
			Skipped:  report.Skipped,
			Reason:   report.Reason,
		}
		if report.Err != nil {
			rec.Error = report.Err.Error()
		}
		records = append(records, rec)
	}

	run := models.NewRun(0, result.ConfigPath)
	run.SetCounts(result.Sections(), result.Written, result.Skipped, result.Failed, result.TotalEntries)
	run.SetDuration(result.Duration)

	if data, err := json.Marshal(records); err == nil {
		run.SetReport(string(data))
	}

	if err := e.runs.Create(run); err != nil {
		e.logger.Warn("failed to record run history", "error", err)
		return
	}

	result.RunID = run.ID()
	e.logger.Debug("recorded run history", "run", run.ID(), "sequence", run.Sequence())
}
