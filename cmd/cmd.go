// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configArguments declares the positional library configuration path.
func configArguments() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name: "config_file",
		},
	}
}

// generateFlags are shared by the root action and the generate command.
func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Logging level",
			Value:   "info",
		},
		&cli.StringSliceFlag{
			Name:    "ext",
			Aliases: []string{"e"},
			Usage:   "File extensions to include",
			Value:   []string{".flac", ".mp3"},
		},
		&cli.BoolFlag{
			Name:    "print-log",
			Aliases: []string{"p"},
			Usage:   "Print log to stdout as well as logfile",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Skip recording this run in the history database",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a generation report into this directory",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Report format (csv, md, txt)",
			Value: "md",
		},
	}
}

// generateCommand is the explicit form of the root action.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate playlist files for every section",
		Arguments: configArguments(),
		Flags:     generateFlags(),
		Action:    r.Generate,
	}
}

// sectionsCommand lists the sections of a library configuration.
func sectionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sections",
		Aliases:   []string{"sec"},
		Usage:     "List sections in the library configuration",
		Arguments: configArguments(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Sections,
	}
}

// historyCommand inspects and exports recorded generation runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded generation runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export run history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   ".",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, md)",
						Value: "csv",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to export",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// watchCommand regenerates playlists when the configuration changes.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch the library configuration and regenerate on change",
		Arguments: configArguments(),
		Flags: append(generateFlags(),
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "How long to wait after the last change before regenerating",
			},
		),
		Action: r.Watch,
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Interactive section picker and generation monitor",
		Arguments: configArguments(),
		Flags:     generateFlags(),
		Action:    r.TUI,
	}
}

// setupCommand initializes tool configuration and the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create m3ugen.toml and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to tool configuration file",
				Value:   "m3ugen.toml",
			},
		},
		Action: r.Setup,
	}
}
