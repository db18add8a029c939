// package playlist implements relative-path M3U playlist generation.
//
// A [Generator] translates one library section's inclusion rules into one
// extended-M3U file: the header line, then one path per included music file,
// each relative to the playlist's destination folder so the playlist resolves
// from wherever the .m3u file itself lives.
package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/shared"
	"golang.org/x/text/unicode/norm"
)

// Header is the first line of every generated playlist.
const Header = "#EXTM3U"

// DefaultExtensions are the file extensions included when none are configured.
var DefaultExtensions = []string{".flac", ".mp3"}

// Generator writes playlist files for library sections.
//
// The extension list order is significant: all matches for the first
// extension are written (sorted) before any match for the second.
type Generator struct {
	extensions []string
	logger     *log.Logger
}

// NewGenerator creates a Generator with the given extension list and logger.
// Nil or empty arguments fall back to [DefaultExtensions] and a stderr logger.
func NewGenerator(extensions []string, logger *log.Logger) *Generator {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Generator{
		extensions: append([]string(nil), extensions...),
		logger:     logger,
	}
}

// Extensions returns the configured extension list in order.
func (g *Generator) Extensions() []string {
	return append([]string(nil), g.extensions...)
}

// SetLogger replaces the generator's logger.
func (g *Generator) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// SectionReport describes the outcome of processing one section.
type SectionReport struct {
	Section  string `json:"section"`
	Playlist string `json:"playlist,omitempty"`
	Entries  int    `json:"entries"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Err      error  `json:"-"`
}

// Failed reports whether the section was abandoned on an I/O error.
func (r SectionReport) Failed() bool { return r.Err != nil }

// Written reports whether a playlist file was fully written for the section.
func (r SectionReport) Written() bool { return !r.Skipped && r.Err == nil }

// FilterFolders splits a raw foldersToInclude value into sanitized folder
// entries: blank lines dropped, surrounding whitespace trimmed, outer double
// quotes stripped, leading slashes and backslashes removed. Order is
// preserved and entries are not de-duplicated.
func FilterFolders(raw string) []string {
	var entries []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.Trim(line, `"`))
		line = strings.TrimLeft(line, `/\`)
		entries = append(entries, line)
	}
	return entries
}

// StripQuotes trims whitespace and any outer double quotes from a config
// value. Callers judging whether a section value is present must use this,
// since a literal `""` in the configuration is an empty value.
func StripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

// normPath applies Unicode NFC normalization so path comparisons and joins
// are stable across filesystems that return decomposed forms for accented
// characters.
func normPath(path string) string {
	return norm.NFC.String(path)
}

type entryKind int

const (
	kindNeither entryKind = iota
	kindFile
	kindDirectory
)

// classify probes the filesystem for the given path.
func classify(path string) entryKind {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return kindNeither
	case info.IsDir():
		return kindDirectory
	case info.Mode().IsRegular():
		return kindFile
	default:
		return kindNeither
	}
}

// enumerateFiles recursively collects files beneath dir whose names end with
// one of the configured extensions (case-sensitive suffix match). Matches
// are grouped by extension in configured order and sorted lexicographically
// by full path within each group; groups are never merged.
func (g *Generator) enumerateFiles(dir string) []string {
	var all []string
	for _, ext := range g.extensions {
		var matches []string
		collectFiles(dir, ext, &matches)
		sort.Strings(matches)
		for _, m := range matches {
			m = normPath(m)
			if classify(m) == kindFile {
				all = append(all, m)
			}
		}
	}
	return all
}

// collectFiles walks dir depth-first appending files with the given suffix.
// Symlinks to directories are followed; unreadable directories are skipped.
func collectFiles(dir, ext string, out *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			collectFiles(path, ext, out)
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				collectFiles(path, ext, out)
				continue
			}
		}
		if strings.HasSuffix(entry.Name(), ext) {
			*out = append(*out, path)
		}
	}
}

// writeEntry appends one file's destination-relative path to the playlist.
func (g *Generator) writeEntry(w io.Writer, filePath, dest string) error {
	rel, err := filepath.Rel(dest, filePath)
	if err != nil {
		return fmt.Errorf("%w: resolving %s relative to %s: %v", shared.ErrWriteFailed, filePath, dest, err)
	}
	rel = filepath.ToSlash(rel)

	if !utf8.ValidString(rel) {
		return fmt.Errorf("%w: %q", shared.ErrEncoding, rel)
	}

	if _, err := fmt.Fprintf(w, "%s\n", rel); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrWriteFailed, err)
	}

	g.logger.Info("added file to playlist", "path", rel)
	return nil
}

// processEntry resolves one folder entry against the source root and writes
// the matching file(s). An entry that is neither a file nor a directory is a
// warning, never an error. Returns the number of lines written.
func (g *Generator) processEntry(w io.Writer, source, folder, dest string) (int, error) {
	fullPath := normPath(filepath.Join(source, folder))

	switch classify(fullPath) {
	case kindFile:
		if err := g.writeEntry(w, fullPath, dest); err != nil {
			return 0, err
		}
		return 1, nil

	case kindDirectory:
		g.logger.Info("searching for files", "dir", fullPath)
		count := 0
		for _, file := range g.enumerateFiles(fullPath) {
			if err := g.writeEntry(w, file, dest); err != nil {
				return count, err
			}
			count++
		}
		return count, nil

	default:
		g.logger.Warn("not a file or directory, skipping", "path", fullPath)
		return 0, nil
	}
}

// ProcessSection reads a section's values and writes its playlist file.
//
// A section missing its source, destination, or folder list is skipped whole
// with a warning; no partial playlist is ever started for it. I/O failures
// while opening or writing the playlist abandon the section: the error is
// classified, logged with the offending path, and carried on the report, but
// never propagated as fatal.
func (g *Generator) ProcessSection(sec library.Section) SectionReport {
	g.logger.Debug("reading section", "section", sec.Name)

	source := StripQuotes(sec.MusicSource)
	dest := StripQuotes(sec.PlaylistFolder)
	folders := FilterFolders(sec.FoldersToInclude)

	if source == "" || dest == "" || len(folders) == 0 {
		g.logger.Warn("section missing required values, skipping", "section", sec.Name)
		return SectionReport{Section: sec.Name, Skipped: true, Reason: "missing required values"}
	}

	playlistPath := filepath.Join(dest, strings.ToLower(sec.Name)+".m3u")
	report := SectionReport{Section: sec.Name, Playlist: playlistPath}

	if err := g.writePlaylist(playlistPath, source, dest, folders, &report); err != nil {
		report.Err = g.classifyWriteError(err, dest, playlistPath)
	}

	return report
}

// writePlaylist opens the destination file, writes the header and every
// folder entry in declared order, and closes the handle on every exit path.
func (g *Generator) writePlaylist(path, source, dest string, folders []string, report *SectionReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	g.logger.Debug("opened playlist file", "path", path)

	w := bufio.NewWriter(f)
	if _, err = fmt.Fprintf(w, "%s\n", Header); err != nil {
		return err
	}

	for _, folder := range folders {
		n, perr := g.processEntry(w, source, folder, dest)
		report.Entries += n
		if perr != nil {
			return perr
		}
	}

	if err = w.Flush(); err != nil {
		return err
	}

	g.logger.Info("finished writing playlist file", "path", path)
	return nil
}

// classifyWriteError maps a raw section failure onto the shared sentinel set
// and logs it with enough context to identify the offending path.
func (g *Generator) classifyWriteError(err error, dest, playlistPath string) error {
	switch {
	case errors.Is(err, shared.ErrEncoding):
		g.logger.Error("encoding error writing playlist file", "path", playlistPath, "error", err)
		return err
	case errors.Is(err, fs.ErrNotExist):
		g.logger.Error("playlist destination folder not found", "dest", dest, "error", err)
		return fmt.Errorf("%w: %s", shared.ErrMissingDestination, dest)
	case errors.Is(err, fs.ErrPermission):
		g.logger.Error("permission denied writing playlist file", "path", playlistPath, "error", err)
		return fmt.Errorf("%w: %s", shared.ErrPermissionDenied, playlistPath)
	case errors.Is(err, shared.ErrWriteFailed):
		g.logger.Error("error writing playlist file", "path", playlistPath, "error", err)
		return err
	default:
		g.logger.Error("error writing playlist file", "path", playlistPath, "error", err)
		return fmt.Errorf("%w: %s: %v", shared.ErrWriteFailed, playlistPath, err)
	}
}

// WriteAll processes every section in order. A failing section never
// prevents later sections from being attempted.
func (g *Generator) WriteAll(sections []library.Section) []SectionReport {
	reports := make([]SectionReport, 0, len(sections))
	for _, sec := range sections {
		g.logger.Debug("processing section", "section", sec.Name)
		reports = append(reports, g.ProcessSection(sec))
	}
	return reports
}
