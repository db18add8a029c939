package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/playlist"
)

var _ list.Item = sectionItem{}

// sectionItem wraps [library.Section] to implement [list.Item].
type sectionItem struct {
	section library.Section
}

func (i sectionItem) FilterValue() string { return i.section.Name }
func (i sectionItem) Title() string       { return i.section.Name }
func (i sectionItem) Description() string {
	folders := playlist.FilterFolders(i.section.FoldersToInclude)
	desc := fmt.Sprintf("%d folders", len(folders))
	if i.section.MusicSource != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.section.MusicSource)
	}
	if i.section.MusicSource == "" || i.section.PlaylistFolder == "" || len(folders) == 0 {
		desc = fmt.Sprintf("%s • incomplete", desc)
	}
	return desc
}
