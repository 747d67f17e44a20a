package config

import (
	"testing"
	"time"

	"github.com/courtdata/nba-analytics/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.ProviderBaseURL != "https://api.balldontlie.io/v1" {
		t.Fatalf("unexpected ProviderBaseURL: %q", cfg.ProviderBaseURL)
	}
	if cfg.ProviderPerPage != 100 {
		t.Fatalf("unexpected ProviderPerPage: %d", cfg.ProviderPerPage)
	}
	if cfg.SyncAbortThreshold != 25 {
		t.Fatalf("unexpected SyncAbortThreshold: %d", cfg.SyncAbortThreshold)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
}

func TestLoad_ProviderParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BALLDONTLIE_API_KEY", "key-123")
	t.Setenv("BALLDONTLIE_TIMEOUT", "5s")
	t.Setenv("BALLDONTLIE_MAX_RETRIES", "1")
	t.Setenv("BALLDONTLIE_PER_PAGE", "25")
	t.Setenv("BALLDONTLIE_MIN_INTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProviderAPIKey != "key-123" {
		t.Fatalf("unexpected ProviderAPIKey")
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("unexpected ProviderTimeout: %s", cfg.ProviderTimeout)
	}
	if cfg.ProviderMaxRetries != 1 {
		t.Fatalf("unexpected ProviderMaxRetries: %d", cfg.ProviderMaxRetries)
	}
	if cfg.ProviderPerPage != 25 {
		t.Fatalf("unexpected ProviderPerPage: %d", cfg.ProviderPerPage)
	}
	if cfg.ProviderMinInterval != 250*time.Millisecond {
		t.Fatalf("unexpected ProviderMinInterval: %s", cfg.ProviderMinInterval)
	}
}

func TestLoad_PerPageBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BALLDONTLIE_PER_PAGE", "250")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for BALLDONTLIE_PER_PAGE above 100")
	}
}

func TestLoad_SchedulerRequiresSeason(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCHEDULER_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SCHEDULER_ENABLED=true without SCHEDULER_SEASON")
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
