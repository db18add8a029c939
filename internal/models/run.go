package models

import (
	"fmt"
	"time"
)

// Run records one playlist generation run for the history database.
type Run struct {
	id              string
	sequence        int
	configPath      string
	sectionsTotal   int
	sectionsWritten int
	sectionsSkipped int
	sectionsFailed  int
	entriesTotal    int
	duration        time.Duration
	report          string
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewRun creates a Run for the given library config path.
// The ID is assigned by the repository on Create.
func NewRun(sequence int, configPath string) *Run {
	now := time.Now()
	return &Run{
		sequence:   sequence,
		configPath: configPath,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *Run) ID() string            { return r.id }
func (r *Run) Sequence() int         { return r.sequence }
func (r *Run) ConfigPath() string    { return r.configPath }
func (r *Run) SectionsTotal() int    { return r.sectionsTotal }
func (r *Run) SectionsWritten() int  { return r.sectionsWritten }
func (r *Run) SectionsSkipped() int  { return r.sectionsSkipped }
func (r *Run) SectionsFailed() int   { return r.sectionsFailed }
func (r *Run) EntriesTotal() int     { return r.entriesTotal }
func (r *Run) Duration() time.Duration { return r.duration }
func (r *Run) Report() string        { return r.report }
func (r *Run) CreatedAt() time.Time  { return r.createdAt }
func (r *Run) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time { return r.deletedAt }

func (r *Run) SetID(id string)          { r.id = id }
func (r *Run) SetSequence(seq int)      { r.sequence = seq }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *Run) SetReport(report string)  { r.report = report }

// SetCounts records the per-section outcome totals for the run.
func (r *Run) SetCounts(total, written, skipped, failed, entries int) {
	r.sectionsTotal = total
	r.sectionsWritten = written
	r.sectionsSkipped = skipped
	r.sectionsFailed = failed
	r.entriesTotal = entries
}

// SetDuration records how long the run took.
func (r *Run) SetDuration(d time.Duration) {
	r.duration = d
}

// Validate checks that the run has an ID, a config path, and coherent counters.
func (r *Run) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run ID is required")
	}
	if r.configPath == "" {
		return fmt.Errorf("run config path is required")
	}
	if r.sectionsWritten+r.sectionsSkipped+r.sectionsFailed > r.sectionsTotal {
		return fmt.Errorf("run section counts exceed total")
	}
	return nil
}

// HydrateRun restores a Run from database columns.
func HydrateRun(id string, sequence int, configPath string, total, written, skipped, failed, entries int, durationMS int64, report string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Run {
	return &Run{
		id:              id,
		sequence:        sequence,
		configPath:      configPath,
		sectionsTotal:   total,
		sectionsWritten: written,
		sectionsSkipped: skipped,
		sectionsFailed:  failed,
		entriesTotal:    entries,
		duration:        time.Duration(durationMS) * time.Millisecond,
		report:          report,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}
