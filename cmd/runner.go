package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/repositories"
	"github.com/desertthunder/m3ugen/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		generateCommand, sectionsCommand, historyCommand, watchCommand, tuiCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfigPath determines the library configuration path from the
// positional argument or the CONFIG_FILE environment variable.
func (r *Runner) resolveConfigPath(cmd *cli.Command) (string, error) {
	if path := cmd.StringArg("config_file"); path != "" {
		return path, nil
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: set CONFIG_FILE env or pass as argument", shared.ErrNoConfigPath)
}

// loadLibrary resolves and parses the library configuration for a command.
func (r *Runner) loadLibrary(cmd *cli.Command) (*library.Library, error) {
	path, err := r.resolveConfigPath(cmd)
	if err != nil {
		r.logger.Error("no config file specified, set CONFIG_FILE env or pass as argument")
		return nil, err
	}

	lib, err := library.Load(path)
	if err != nil {
		r.logger.Error("failed to load library configuration", "path", path, "error", err)
		return nil, err
	}

	return lib, nil
}

// generationLogger builds the process-wide generation logger: a rotating
// file log, optionally mirrored to stdout with --print-log.
func (r *Runner) generationLogger(cmd *cli.Command) *log.Logger {
	var mirror io.Writer
	if cmd.Bool("print-log") {
		mirror = os.Stdout
	}

	lc := r.config.Log
	logger := shared.NewFileLogger(lc.File, lc.MaxSize, lc.MaxBackups, lc.MaxAge, mirror)

	level := lc.Level
	if cmd.IsSet("log-level") || level == "" {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(level))

	if mirror != nil {
		logger.Info("printing log to stdout")
	}

	return logger
}

// extensions returns the file extensions to include: the --ext flag when
// set, otherwise the app config, otherwise the built-in defaults.
func (r *Runner) extensions(cmd *cli.Command) []string {
	if cmd.IsSet("ext") {
		return cmd.StringSlice("ext")
	}
	if len(r.config.Playlist.Extensions) > 0 {
		return r.config.Playlist.Extensions
	}
	return cmd.StringSlice("ext")
}

// openHistory opens the run-history database and applies migrations.
// Returns nil when history is disabled.
func (r *Runner) openHistory() (*sql.DB, *repositories.RunRepository, error) {
	if !r.config.History.Enabled {
		return nil, nil, nil
	}

	db, err := shared.NewDatabase(r.config.History.Path)
	if err != nil {
		return nil, nil, err
	}

	shared.ConfigureDatabase(db, r.config.History.MaxOpenConns, r.config.History.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, repositories.NewRunRepository(db), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
