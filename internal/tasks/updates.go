package tasks

import (
	"fmt"

	"github.com/desertthunder/m3ugen/internal/playlist"
)

// ProgressUpdate represents a progress event during a generation run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current section number within the run
	Total   int    // Total sections in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanSections Phase = iota
	WriteSection
	SectionDone
	RunComplete
)

func (p Phase) String() string {
	switch p {
	case ScanSections:
		return "scan_sections"
	case WriteSection:
		return "write_section"
	case SectionDone:
		return "section_done"
	case RunComplete:
		return "run_complete"
	default:
		return ""
	}
}

func scanUpdate(total int, configPath string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanSections,
		Total:   total,
		Message: fmt.Sprintf("Found %d sections in %s", total, configPath),
	}
}

func sectionStartUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteSection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Writing playlist for %s...", step, total, name),
	}
}

func sectionWrittenUpdate(step, total int, report playlist.SectionReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SectionDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d entries)", step, total, report.Section, report.Entries),
		Data:    report,
	}
}

func sectionSkippedUpdate(step, total int, report playlist.SectionReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SectionDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] – %s skipped: %s", step, total, report.Section, report.Reason),
		Data:    report,
	}
}

func sectionFailedUpdate(step, total int, report playlist.SectionReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SectionDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, report.Section, report.Err),
		Data:    report,
	}
}

func completeUpdate(result *GenerateResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunComplete,
		Step:    result.Sections(),
		Total:   result.Sections(),
		Message: fmt.Sprintf("Wrote %d playlists (%d skipped, %d failed)", result.Written, result.Skipped, result.Failed),
		Data:    result,
	}
}
