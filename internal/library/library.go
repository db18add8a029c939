// package library loads the INI file that describes the music library.
//
// Each INI section declares one playlist: where the music lives
// (musicSource), which subfolders or files belong in the playlist
// (foldersToInclude, one per line), and where the generated .m3u file goes
// (playListFolder). Section order in the file is preserved; key lookups are
// case-insensitive while section names keep their case.
package library

import (
	"fmt"
	"os"

	"github.com/desertthunder/m3ugen/internal/shared"
	"github.com/go-ini/ini"
)

// Keys recognized inside a section. Anything else is ignored.
const (
	KeySource  = "musicSource"
	KeyDest    = "playListFolder"
	KeyFolders = "foldersToInclude"
)

// Section is one named block of the library configuration describing one
// playlist's source, destination, and inclusion rules. Values are raw as
// written; sanitization (quote stripping, folder-line filtering) happens in
// the playlist package.
type Section struct {
	Name             string
	MusicSource      string
	PlaylistFolder   string
	FoldersToInclude string
}

// Library is a parsed library configuration: the path it was loaded from and
// its sections in file order.
type Library struct {
	Path     string
	Sections []Section
}

// Load reads and parses the library configuration at path.
//
// A missing file wraps [shared.ErrMissingConfig] and a file that fails to
// parse wraps [shared.ErrInvalidConfig]; both are startup-fatal to callers.
func Load(path string) (*Library, error) {
	if info, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidConfig, path)
	}

	opts := ini.LoadOptions{
		InsensitiveKeys: true,
		// foldersToInclude values span multiple indented lines.
		AllowPythonMultilineValues: true,
	}

	cfg, err := ini.LoadSources(opts, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	lib := &Library{Path: path}
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		lib.Sections = append(lib.Sections, Section{
			Name:             sec.Name(),
			MusicSource:      sec.Key(KeySource).String(),
			PlaylistFolder:   sec.Key(KeyDest).String(),
			FoldersToInclude: sec.Key(KeyFolders).String(),
		})
	}

	return lib, nil
}

// Names returns the section names in file order.
func (l *Library) Names() []string {
	names := make([]string, len(l.Sections))
	for i, sec := range l.Sections {
		names[i] = sec.Name
	}
	return names
}

// Find returns the section with the given name, or nil.
func (l *Library) Find(name string) *Section {
	for i := range l.Sections {
		if l.Sections[i].Name == name {
			return &l.Sections[i]
		}
	}
	return nil
}
