// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the service.
type Config struct {
	ListenAddr      string
	TelegramToken   string
	HistoryDBPath   string
	FuelTTL         time.Duration
	ChargerTTL      time.Duration
	RateLimitWindow time.Duration
	RateLimitMax    int
	NominatimServer string
}

// FromEnv creates a configuration instance sourced from environment
// variables. A missing .env file is not an error.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:      getEnv("MYFUEL_LISTEN_ADDR", "127.0.0.1:8080"),
		TelegramToken:   getEnv("TELEGRAM_API_TOKEN", ""),
		HistoryDBPath:   getEnv("MYFUEL_HISTORY_DB", "history.db"),
		NominatimServer: getEnv("MYFUEL_NOMINATIM_SERVER", "https://nominatim.openstreetmap.org/"),
	}

	var err error
	if cfg.FuelTTL, err = getDuration("MYFUEL_FUEL_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ChargerTTL, err = getDuration("MYFUEL_CHARGER_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWindow, err = getDuration("MYFUEL_RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitMax, err = getInt("MYFUEL_RATE_LIMIT_MAX", 60); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive", key)
	}
	return n, nil
}
