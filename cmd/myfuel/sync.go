package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"myfuel/internal/config"
	"myfuel/internal/history"
	"myfuel/pkg/fuel"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Download the full fuel price feed and record it in the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "History database file (overrides MYFUEL_HISTORY_DB)",
			},
		},
		Action: syncAction,
	}
}

func syncAction(c *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if db := c.String("db"); db != "" {
		cfg.HistoryDBPath = db
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := context.Background()

	stations, err := fuel.NewClient().Fetch(ctx)
	if err != nil {
		return fmt.Errorf("error fetching fuel prices: %w", err)
	}

	store, err := history.NewStore(ctx, cfg.HistoryDBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SyncAll(ctx, stations)
}
