package playlist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/shared"
)

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}

func playlistLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read playlist %s: %v", path, err)
	}
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestFilterFolders(t *testing.T) {
	tc := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "varied folder names",
			raw:  "normal_folder\nBad Name Folder\nodd_@_folder\n\n",
			want: []string{"normal_folder", "Bad Name Folder", "odd_@_folder"},
		},
		{
			name: "strips quotes and leading slashes",
			raw:  "\"quoted folder\"\n/leading/slash\n\\\\windows\\path\n",
			want: []string{"quoted folder", "leading/slash", "windows\\path"},
		},
		{
			name: "trims whitespace",
			raw:  "  padded  \n\t\n",
			want: []string{"padded"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "preserves order and duplicates",
			raw:  "b\na\nb\n",
			want: []string{"b", "a", "b"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFolders(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterFolders(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestProcessEntry(t *testing.T) {
	t.Run("file entry writes one line", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, "single.flac"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		buf := &bytes.Buffer{}

		n, err := g.processEntry(buf, source, "single.flac", dest)
		if err != nil {
			t.Fatalf("processEntry failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 entry, got %d", n)
		}
		if got := buf.String(); got != "../music/single.flac\n" {
			t.Errorf("expected relative path line, got %q", got)
		}
	})

	t.Run("directory entry writes matching files", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, "albums", "b.mp3"))
		mustWriteFile(t, filepath.Join(source, "albums", "a.flac"))
		mustWriteFile(t, filepath.Join(source, "albums", "notes.txt"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		buf := &bytes.Buffer{}

		n, err := g.processEntry(buf, source, "albums", dest)
		if err != nil {
			t.Fatalf("processEntry failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 entries, got %d", n)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 2 || !strings.HasSuffix(lines[0], "a.flac") || !strings.HasSuffix(lines[1], "b.mp3") {
			t.Errorf("expected [a.flac b.mp3] lines, got %v", lines)
		}
	})

	t.Run("unresolvable entry is a soft skip", func(t *testing.T) {
		tmp := t.TempDir()
		logBuf := &bytes.Buffer{}
		g := NewGenerator(nil, shared.NewLogger(logBuf))
		buf := &bytes.Buffer{}

		n, err := g.processEntry(buf, tmp, "does_not_exist", tmp)
		if err != nil {
			t.Fatalf("expected soft skip, got error: %v", err)
		}
		if n != 0 || buf.Len() != 0 {
			t.Errorf("expected no output for missing entry, got %d entries %q", n, buf.String())
		}
		if !strings.Contains(logBuf.String(), "not a file or directory") {
			t.Errorf("expected warning log, got %q", logBuf.String())
		}
	})
}

func TestUnicodeNormalization(t *testing.T) {
	// "café" composed (NFC) on disk vs "cafe" + combining accent (NFD) in
	// the configuration. Both must resolve to the same entry.
	const nfcName = "caf\u00e9"
	const nfdName = "cafe\u0301"

	t.Run("decomposed folder entry resolves a composed directory", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, nfcName, "song.mp3"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		buf := &bytes.Buffer{}

		n, err := g.processEntry(buf, source, nfdName, dest)
		if err != nil {
			t.Fatalf("processEntry failed: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 entry, got %d: %q", n, buf.String())
		}
		if !strings.Contains(buf.String(), nfcName+"/song.mp3") {
			t.Errorf("expected composed path in playlist, got %q", buf.String())
		}
	})

	t.Run("decomposed folder entry resolves a composed file", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, nfcName+".flac"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		buf := &bytes.Buffer{}

		n, err := g.processEntry(buf, source, nfdName+".flac", dest)
		if err != nil {
			t.Fatalf("processEntry failed: %v", err)
		}
		if n != 1 || !strings.HasSuffix(strings.TrimSpace(buf.String()), nfcName+".flac") {
			t.Errorf("expected one composed file line, got %q", buf.String())
		}
	})

	t.Run("enumerated paths come out composed", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, nfcName)
		mustWriteFile(t, filepath.Join(dir, "track.mp3"))

		g := NewGenerator([]string{".mp3"}, shared.NewLogger(&bytes.Buffer{}))
		files := g.enumerateFiles(normPath(filepath.Join(tmp, nfdName)))

		if len(files) != 1 || !strings.Contains(files[0], nfcName) {
			t.Errorf("expected one composed path, got %v", files)
		}
	})
}

func TestEnumerateOrdering(t *testing.T) {
	t.Run("extension groups before lexicographic order", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "mixed")
		// .mp3 names sort before the .flac names, but .flac is the first
		// configured extension so its group must come out first.
		mustWriteFile(t, filepath.Join(dir, "zz.flac"))
		mustWriteFile(t, filepath.Join(dir, "aa.mp3"))
		mustWriteFile(t, filepath.Join(dir, "mm.flac"))
		mustWriteFile(t, filepath.Join(dir, "bb.mp3"))

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		files := g.enumerateFiles(dir)

		var names []string
		for _, f := range files {
			names = append(names, filepath.Base(f))
		}
		want := []string{"mm.flac", "zz.flac", "aa.mp3", "bb.mp3"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("expected %v, got %v", want, names)
		}
	})

	t.Run("recurses into subdirectories", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "artist")
		mustWriteFile(t, filepath.Join(dir, "album1", "01.flac"))
		mustWriteFile(t, filepath.Join(dir, "album2", "02.flac"))
		mustWriteFile(t, filepath.Join(dir, "direct.flac"))

		g := NewGenerator([]string{".flac"}, shared.NewLogger(&bytes.Buffer{}))
		files := g.enumerateFiles(dir)

		if len(files) != 3 {
			t.Fatalf("expected 3 files, got %d: %v", len(files), files)
		}
		for i := 1; i < len(files); i++ {
			if files[i-1] >= files[i] {
				t.Errorf("expected lexicographic order, got %v", files)
			}
		}
	})

	t.Run("suffix match is case-sensitive", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "case")
		mustWriteFile(t, filepath.Join(dir, "lower.mp3"))
		mustWriteFile(t, filepath.Join(dir, "upper.MP3"))

		g := NewGenerator([]string{".mp3"}, shared.NewLogger(&bytes.Buffer{}))
		files := g.enumerateFiles(dir)

		if len(files) != 1 || filepath.Base(files[0]) != "lower.mp3" {
			t.Errorf("expected only lower.mp3, got %v", files)
		}
	})

	t.Run("follows symlinks to directories", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "library")
		outside := filepath.Join(tmp, "external")
		mustWriteFile(t, filepath.Join(dir, "local.mp3"))
		mustWriteFile(t, filepath.Join(outside, "linked.mp3"))
		if err := os.Symlink(outside, filepath.Join(dir, "shared")); err != nil {
			t.Fatalf("failed to create symlink: %v", err)
		}

		g := NewGenerator([]string{".mp3"}, shared.NewLogger(&bytes.Buffer{}))
		files := g.enumerateFiles(dir)

		var names []string
		for _, f := range files {
			names = append(names, filepath.Base(f))
		}
		want := []string{"local.mp3", "linked.mp3"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("expected %v, got %v", want, names)
		}
	})

	t.Run("directories matching the suffix are excluded", func(t *testing.T) {
		tmp := t.TempDir()
		dir := filepath.Join(tmp, "odd")
		mustMkdir(t, filepath.Join(dir, "folder.mp3"))
		mustWriteFile(t, filepath.Join(dir, "folder.mp3", "inner.mp3"))

		g := NewGenerator([]string{".mp3"}, shared.NewLogger(&bytes.Buffer{}))
		files := g.enumerateFiles(dir)

		if len(files) != 1 || filepath.Base(files[0]) != "inner.mp3" {
			t.Errorf("expected only inner.mp3, got %v", files)
		}
	})
}

func TestProcessSection(t *testing.T) {
	t.Run("end-to-end", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, "symphonies", "a.flac"))
		mustWriteFile(t, filepath.Join(source, "symphonies", "b.mp3"))
		mustWriteFile(t, filepath.Join(source, "symphonies", "c.txt"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		report := g.ProcessSection(library.Section{
			Name:             "Classical",
			MusicSource:      source,
			PlaylistFolder:   dest,
			FoldersToInclude: "symphonies",
		})

		if !report.Written() {
			t.Fatalf("expected section to be written, got %+v", report)
		}
		if report.Entries != 2 {
			t.Errorf("expected 2 entries, got %d", report.Entries)
		}

		playlistPath := filepath.Join(dest, "classical.m3u")
		if report.Playlist != playlistPath {
			t.Errorf("expected lowercased playlist name, got %s", report.Playlist)
		}

		lines := playlistLines(t, playlistPath)
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %v", lines)
		}
		if lines[0] != Header {
			t.Errorf("expected header %q, got %q", Header, lines[0])
		}
		if !strings.HasSuffix(lines[1], "a.flac") || !strings.HasSuffix(lines[2], "b.mp3") {
			t.Errorf("expected a.flac then b.mp3, got %v", lines[1:])
		}
		for _, line := range lines[1:] {
			if filepath.IsAbs(line) {
				t.Errorf("expected relative path, got %q", line)
			}
		}
	})

	t.Run("quoted source and destination values", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, "mix", "song.mp3"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		report := g.ProcessSection(library.Section{
			Name:             "Mix",
			MusicSource:      `"` + source + `"`,
			PlaylistFolder:   `"` + dest + `"`,
			FoldersToInclude: "mix",
		})

		if !report.Written() || report.Entries != 1 {
			t.Fatalf("expected quoted values to be stripped, got %+v", report)
		}
	})

	t.Run("missing values skip the section", func(t *testing.T) {
		tc := []struct {
			name string
			sec  library.Section
		}{
			{
				name: "no source",
				sec:  library.Section{Name: "Rock", PlaylistFolder: "/playlists", FoldersToInclude: "albums"},
			},
			{
				name: "no destination",
				sec:  library.Section{Name: "Rock", MusicSource: "/music", FoldersToInclude: "albums"},
			},
			{
				name: "no folders",
				sec:  library.Section{Name: "Rock", MusicSource: "/music", PlaylistFolder: "/playlists"},
			},
			{
				name: "folders only blank lines",
				sec:  library.Section{Name: "Rock", MusicSource: "/music", PlaylistFolder: "/playlists", FoldersToInclude: "\n  \n"},
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				dest := t.TempDir()
				if tt.sec.PlaylistFolder == "/playlists" {
					tt.sec.PlaylistFolder = dest
				}

				logBuf := &bytes.Buffer{}
				g := NewGenerator(nil, shared.NewLogger(logBuf))
				report := g.ProcessSection(tt.sec)

				if !report.Skipped {
					t.Fatalf("expected section to be skipped, got %+v", report)
				}
				if _, err := os.Stat(filepath.Join(dest, "rock.m3u")); !os.IsNotExist(err) {
					t.Error("expected no playlist file for skipped section")
				}
				if !strings.Contains(logBuf.String(), "Rock") {
					t.Errorf("expected warning naming the section, got %q", logBuf.String())
				}
			})
		}
	})

	t.Run("missing destination directory fails the section", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		mustWriteFile(t, filepath.Join(source, "albums", "x.mp3"))

		logBuf := &bytes.Buffer{}
		g := NewGenerator(nil, shared.NewLogger(logBuf))
		report := g.ProcessSection(library.Section{
			Name:             "Rock",
			MusicSource:      source,
			PlaylistFolder:   filepath.Join(tmp, "no_such_dir"),
			FoldersToInclude: "albums",
		})

		if !report.Failed() {
			t.Fatalf("expected section failure, got %+v", report)
		}
		if !errors.Is(report.Err, shared.ErrMissingDestination) {
			t.Errorf("expected ErrMissingDestination, got %v", report.Err)
		}
		if !strings.Contains(logBuf.String(), "destination") {
			t.Errorf("expected error log naming the destination, got %q", logBuf.String())
		}
	})
}

func TestWriteAll(t *testing.T) {
	t.Run("failure in one section never stops the next", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		goodDest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, "albums", "x.mp3"))
		mustMkdir(t, goodDest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		reports := g.WriteAll([]library.Section{
			{
				Name:             "Rock",
				MusicSource:      source,
				PlaylistFolder:   filepath.Join(tmp, "missing_dest"),
				FoldersToInclude: "albums",
			},
			{
				Name:             "Jazz",
				MusicSource:      source,
				PlaylistFolder:   goodDest,
				FoldersToInclude: "albums",
			},
		})

		if len(reports) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(reports))
		}
		if !reports[0].Failed() {
			t.Errorf("expected Rock to fail, got %+v", reports[0])
		}
		if !reports[1].Written() {
			t.Errorf("expected Jazz to be written, got %+v", reports[1])
		}

		if _, err := os.Stat(filepath.Join(goodDest, "jazz.m3u")); err != nil {
			t.Errorf("expected jazz.m3u to exist: %v", err)
		}
		if _, err := os.Stat(filepath.Join(tmp, "missing_dest", "rock.m3u")); !os.IsNotExist(err) {
			t.Error("expected no rock.m3u")
		}
	})

	t.Run("declared entry order", func(t *testing.T) {
		tmp := t.TempDir()
		source := filepath.Join(tmp, "music")
		dest := filepath.Join(tmp, "playlists")
		mustWriteFile(t, filepath.Join(source, "second", "s.mp3"))
		mustWriteFile(t, filepath.Join(source, "first", "f.mp3"))
		mustWriteFile(t, filepath.Join(source, "direct.flac"))
		mustMkdir(t, dest)

		g := NewGenerator(nil, shared.NewLogger(&bytes.Buffer{}))
		reports := g.WriteAll([]library.Section{{
			Name:             "Ordered",
			MusicSource:      source,
			PlaylistFolder:   dest,
			FoldersToInclude: "second\ndirect.flac\nfirst\n",
		}})

		if !reports[0].Written() {
			t.Fatalf("expected section written, got %+v", reports[0])
		}

		lines := playlistLines(t, filepath.Join(dest, "ordered.m3u"))
		if len(lines) != 4 {
			t.Fatalf("expected 4 lines, got %v", lines)
		}
		if !strings.HasSuffix(lines[1], "s.mp3") || !strings.HasSuffix(lines[2], "direct.flac") || !strings.HasSuffix(lines[3], "f.mp3") {
			t.Errorf("expected declared order [s.mp3 direct.flac f.mp3], got %v", lines[1:])
		}
	})
}
