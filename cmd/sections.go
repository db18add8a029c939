package main

import (
	"context"

	"github.com/desertthunder/m3ugen/internal/playlist"
	"github.com/urfave/cli/v3"
)

// sectionInfo is the machine-readable form of one section listing.
type sectionInfo struct {
	Name           string   `json:"name"`
	MusicSource    string   `json:"music_source"`
	PlaylistFolder string   `json:"playlist_folder"`
	Folders        []string `json:"folders"`
	Valid          bool     `json:"valid"`
}

// Sections lists the sections of the library configuration without
// generating anything.
func (r *Runner) Sections(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.loadLibrary(cmd)
	if err != nil {
		return err
	}

	infos := make([]sectionInfo, 0, len(lib.Sections))
	for _, sec := range lib.Sections {
		folders := playlist.FilterFolders(sec.FoldersToInclude)
		source := playlist.StripQuotes(sec.MusicSource)
		dest := playlist.StripQuotes(sec.PlaylistFolder)
		infos = append(infos, sectionInfo{
			Name:           sec.Name,
			MusicSource:    sec.MusicSource,
			PlaylistFolder: sec.PlaylistFolder,
			Folders:        folders,
			Valid:          source != "" && dest != "" && len(folders) > 0,
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(infos, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Library Sections")
	for _, info := range infos {
		marker := "✓"
		if !info.Valid {
			marker = "✗"
		}
		r.writePlain("%s %s\n", marker, info.Name)
		r.writePlain("    source: %s\n", info.MusicSource)
		r.writePlain("    dest:   %s\n", info.PlaylistFolder)
		r.writePlain("    folders: %d\n", len(info.Folders))
	}
	r.writePlainln("%d sections in %s", len(infos), lib.Path)

	return nil
}
