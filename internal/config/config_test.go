package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_StaffFeedRequiresBaseURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STAFF_FEED_ENABLED", "true")
	t.Setenv("STAFF_FEED_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STAFF_FEED_ENABLED=true without STAFF_FEED_BASE_URL")
	}
}

func TestLoad_StaffFeedConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STAFF_FEED_ENABLED", "true")
	t.Setenv("STAFF_FEED_BASE_URL", "https://staff-feed.example.com")
	t.Setenv("STAFF_FEED_TOKEN", "token-123")
	t.Setenv("STAFF_FEED_TIMEOUT", "4s")
	t.Setenv("STAFF_FEED_MAX_RETRIES", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.StaffFeedEnabled {
		t.Fatalf("expected StaffFeedEnabled=true")
	}
	if cfg.StaffFeedBaseURL != "https://staff-feed.example.com" {
		t.Fatalf("unexpected StaffFeedBaseURL: %q", cfg.StaffFeedBaseURL)
	}
	if cfg.StaffFeedToken != "token-123" {
		t.Fatalf("unexpected StaffFeedToken")
	}
	if cfg.StaffFeedTimeout != 4*time.Second {
		t.Fatalf("unexpected StaffFeedTimeout: %s", cfg.StaffFeedTimeout)
	}
	if cfg.StaffFeedMaxRetries != 3 {
		t.Fatalf("unexpected StaffFeedMaxRetries: %d", cfg.StaffFeedMaxRetries)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_AuctionDurationBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("AUCTION_MIN_DURATION", "12h")
	t.Setenv("AUCTION_MAX_DURATION", "1h")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when AUCTION_MAX_DURATION < AUCTION_MIN_DURATION")
	}
}

func TestLoad_SweepDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SweepEnabled {
		t.Fatalf("expected SweepEnabled=true by default")
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("unexpected SweepInterval: %s", cfg.SweepInterval)
	}
	if cfg.SweepWorkers != 4 {
		t.Fatalf("unexpected SweepWorkers: %d", cfg.SweepWorkers)
	}
}

func TestLoad_SeasonPeriodDefaultsToISOWeek(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SEASON_PERIOD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SeasonPeriod == "" {
		t.Fatalf("expected derived season period")
	}
}

func TestDefaultSeasonPeriod(t *testing.T) {
	got := defaultSeasonPeriod(time.Date(2026, time.February, 18, 12, 0, 0, 0, time.UTC))
	if got != "2026-wk08" {
		t.Fatalf("unexpected season period: %q", got)
	}
}
