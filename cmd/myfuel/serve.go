package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/urfave/cli/v2"

	"myfuel/internal/config"
	"myfuel/internal/fetchcache"
	"myfuel/internal/history"
	"myfuel/internal/nearby"
	"myfuel/internal/server"
	"myfuel/pkg/chargers"
	"myfuel/pkg/fuel"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides MYFUEL_LISTEN_ADDR)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "History database file (overrides MYFUEL_HISTORY_DB)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.ListenAddr = addr
	}
	if db := c.String("db"); db != "" {
		cfg.HistoryDBPath = db
	}

	logger := httplog.NewLogger("myfuel", httplog.Options{
		JSON:            false,
		LogLevel:        slog.LevelDebug,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	ctx := context.Background()

	store, err := history.NewStore(ctx, cfg.HistoryDBPath, logger.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	recorder := history.NewAsyncRecorder(store, logger.Logger)
	defer recorder.Wait()

	chargerFetcher := fetchcache.New("chargers", cfg.ChargerTTL, chargers.NewClient().Fetch, logger.Logger)
	fuelFetcher := fetchcache.New("fuel", cfg.FuelTTL, fuel.NewClient().Fetch, logger.Logger)

	agg := nearby.New(fuelFetcher, chargerFetcher, recorder, logger.Logger)
	srv := server.New(agg, chargerFetcher.Fetch, cfg, logger)

	logger.Info("starting server", "addr", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, srv.Router())
}
