// @title Event RSVP API
// @version 1.0
// @description Create events, invite guests and collect their RSVPs.
// @BasePath /
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"rsvptracker/config"
	_ "rsvptracker/docs"
)

func main() {
	app := &cli.App{
		Name:  "rsvpd",
		Usage: "Event invitation and RSVP tracker.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates configuration and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
