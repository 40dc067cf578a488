package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() failed: %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.FuelTTL != 30*time.Minute {
		t.Errorf("FuelTTL = %v, expected 30m", cfg.FuelTTL)
	}
	if cfg.ChargerTTL != time.Hour {
		t.Errorf("ChargerTTL = %v, expected 1h", cfg.ChargerTTL)
	}
	if cfg.RateLimitWindow != time.Minute || cfg.RateLimitMax != 60 {
		t.Errorf("rate limit = %d/%v, expected 60/1m", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MYFUEL_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("MYFUEL_FUEL_TTL", "15m")
	t.Setenv("MYFUEL_CHARGER_TTL", "2h")
	t.Setenv("MYFUEL_RATE_LIMIT_MAX", "120")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() failed: %v", err)
	}

	if cfg.ListenAddr != "0.0.0.0:9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.FuelTTL != 15*time.Minute {
		t.Errorf("FuelTTL = %v, expected 15m", cfg.FuelTTL)
	}
	if cfg.ChargerTTL != 2*time.Hour {
		t.Errorf("ChargerTTL = %v, expected 2h", cfg.ChargerTTL)
	}
	if cfg.RateLimitMax != 120 {
		t.Errorf("RateLimitMax = %d, expected 120", cfg.RateLimitMax)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"MYFUEL_FUEL_TTL", "soon"},
		{"MYFUEL_FUEL_TTL", "-5m"},
		{"MYFUEL_CHARGER_TTL", "0s"},
		{"MYFUEL_RATE_LIMIT_MAX", "lots"},
		{"MYFUEL_RATE_LIMIT_MAX", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("FromEnv() accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
