package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"myfuel/internal/bot"
	"myfuel/internal/config"
	"myfuel/internal/fetchcache"
	"myfuel/internal/history"
	"myfuel/internal/nearby"
	"myfuel/pkg/chargers"
	"myfuel/pkg/fuel"
)

func botCommand() *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "Run the Telegram bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "History database file (overrides MYFUEL_HISTORY_DB)",
			},
		},
		Action: botAction,
	}
}

func botAction(c *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_API_TOKEN is required for the bot")
	}
	if db := c.String("db"); db != "" {
		cfg.HistoryDBPath = db
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()

	store, err := history.NewStore(ctx, cfg.HistoryDBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	recorder := history.NewAsyncRecorder(store, logger)
	defer recorder.Wait()

	chargerFetcher := fetchcache.New("chargers", cfg.ChargerTTL, chargers.NewClient().Fetch, logger)
	fuelFetcher := fetchcache.New("fuel", cfg.FuelTTL, fuel.NewClient().Fetch, logger)

	agg := nearby.New(fuelFetcher, chargerFetcher, recorder, logger)

	b, err := bot.New(cfg.TelegramToken, agg, logger)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}
