// Command troupectl imports vote exports and inspects the dashboard data
// from a terminal, against the same database the server uses.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "troupectl",
		Usage: "manage trip activity votes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "driver",
				Value:   "sqlite3",
				Usage:   "database driver: sqlite3, sqlite or postgres",
				EnvVars: []string{"DATABASE_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   "./data",
				Usage:   "directory holding the sqlite database",
				EnvVars: []string{"DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "postgres connection string or sqlite file path",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at info level",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelInfo
			}
			slog.SetDefault(monitoring.NewLoggerTo(c.App.ErrWriter, level).Logger)
			return nil
		},
		Commands: []*cli.Command{
			importCommand(),
			uploadsCommand(),
			statsCommand(),
			exportCommand(),
			adminCommand(),
		},
	}
}
