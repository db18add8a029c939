package main

import (
	"context"
	"os"

	"github.com/desertthunder/m3ugen/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// Best effort; CONFIG_FILE may live in a .env next to the binary.
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("m3ugen.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("m3ugen.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load m3ugen.toml, using defaults", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:      "m3ugen",
		Usage:     "Generate relative-path m3u playlists from an INI library configuration",
		Version:   "0.2.0",
		Arguments: configArguments(),
		Flags:     generateFlags(),
		Action:    runner.Generate,
		Commands:  runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
