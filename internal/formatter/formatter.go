// package formatter provides functions to export generation reports and run history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/m3ugen/internal/models"
	"github.com/desertthunder/m3ugen/internal/playlist"
)

// status returns the human-readable outcome of one section report.
func status(report playlist.SectionReport) string {
	switch {
	case report.Failed():
		return "failed"
	case report.Skipped:
		return "skipped"
	default:
		return "written"
	}
}

// detail returns the reason or error text for a non-written section.
func detail(report playlist.SectionReport) string {
	if report.Err != nil {
		return report.Err.Error()
	}
	return report.Reason
}

// ExportReportToCSV converts section reports to CSV with columns: Section, Status, Playlist, Entries, Detail
func ExportReportToCSV(reports []playlist.SectionReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Section", "Status", "Playlist", "Entries", "Detail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, report := range reports {
		record := []string{
			report.Section,
			status(report),
			report.Playlist,
			strconv.Itoa(report.Entries),
			detail(report),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportReportToMarkdown converts section reports to a Markdown summary.
func ExportReportToMarkdown(configPath string, reports []playlist.SectionReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlist Generation Report\n\n")
	buf.WriteString(fmt.Sprintf("**Configuration**: %s\n", configPath))
	buf.WriteString(fmt.Sprintf("**Sections**: %d\n\n", len(reports)))

	buf.WriteString("| Section | Status | Playlist | Entries |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")
	for _, report := range reports {
		playlistCell := report.Playlist
		if playlistCell == "" {
			playlistCell = "-"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n", report.Section, status(report), playlistCell, report.Entries))
	}

	var problems []playlist.SectionReport
	for _, report := range reports {
		if !report.Written() {
			problems = append(problems, report)
		}
	}

	if len(problems) > 0 {
		buf.WriteString("\n## Problems\n\n")
		for _, report := range problems {
			buf.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", report.Section, status(report), detail(report)))
		}
	}

	return buf.Bytes(), nil
}

// ExportReportToText converts section reports to plain text.
func ExportReportToText(configPath string, reports []playlist.SectionReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Configuration: %s\n", configPath))
	buf.WriteString(fmt.Sprintf("Sections: %d\n\n", len(reports)))

	for i, report := range reports {
		line := fmt.Sprintf("%d. %s [%s]", i+1, report.Section, status(report))
		if report.Written() {
			line += fmt.Sprintf(" %s (%d entries)", report.Playlist, report.Entries)
		} else {
			line += " " + detail(report)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportRunsToCSV converts run history records to CSV, newest first as given.
func ExportRunsToCSV(runs []*models.Run) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Started", "Config", "Sections", "Written", "Skipped", "Failed", "Entries", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			strconv.Itoa(run.Sequence()),
			run.CreatedAt().Format(time.RFC3339),
			run.ConfigPath(),
			strconv.Itoa(run.SectionsTotal()),
			strconv.Itoa(run.SectionsWritten()),
			strconv.Itoa(run.SectionsSkipped()),
			strconv.Itoa(run.SectionsFailed()),
			strconv.Itoa(run.EntriesTotal()),
			run.Duration().String(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportRunsToMarkdown converts run history records to a Markdown table.
func ExportRunsToMarkdown(runs []*models.Run) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Generation History\n\n")
	buf.WriteString(fmt.Sprintf("**Runs**: %d\n\n", len(runs)))

	buf.WriteString("| # | Started | Config | Written | Skipped | Failed | Entries | Duration |\n")
	buf.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %d | %d | %d | %s |\n",
			run.Sequence(),
			run.CreatedAt().Format("2006-01-02 15:04:05"),
			run.ConfigPath(),
			run.SectionsWritten(),
			run.SectionsSkipped(),
			run.SectionsFailed(),
			run.EntriesTotal(),
			run.Duration(),
		))
	}

	return buf.Bytes(), nil
}

// WriteExport writes exported data to dir/filename, creating dir if needed.
// Returns the created path.
func WriteExport(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
