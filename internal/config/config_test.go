package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/joestump/bytevault/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BYTEVAULT_DB_DRIVER", "sqlite3")
	t.Setenv("BYTEVAULT_DB_DSN", "file:test.db")
	t.Setenv("BYTEVAULT_JWT_ACCESS_SECRET", "a")
	t.Setenv("BYTEVAULT_JWT_REFRESH_SECRET", "b")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":5252" {
		t.Errorf("http.addr = %q, want :5252", cfg.HTTP.Addr)
	}
	if cfg.JWT.AccessTTL != time.Hour {
		t.Errorf("access ttl = %v, want 1h", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Errorf("refresh ttl = %v, want 168h", cfg.JWT.RefreshTTL)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/15m", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	if len(cfg.CORS.Origins) != len(config.DefaultCORSOrigins) {
		t.Errorf("cors origins = %v, want defaults", cfg.CORS.Origins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BYTEVAULT_HTTP_ADDR", ":9000")
	t.Setenv("BYTEVAULT_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BYTEVAULT_RATELIMIT_WINDOW", "1m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("http.addr = %q", cfg.HTTP.Addr)
	}
	if strings.Join(cfg.CORS.Origins, "|") != "https://a.example|https://b.example" {
		t.Errorf("cors origins = %v", cfg.CORS.Origins)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("window = %v, want 1m", cfg.RateLimit.Window)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		want  string
	}{
		{"driver", "BYTEVAULT_DB_DRIVER", "BYTEVAULT_DB_DRIVER"},
		{"dsn", "BYTEVAULT_DB_DSN", "BYTEVAULT_DB_DSN"},
		{"access secret", "BYTEVAULT_JWT_ACCESS_SECRET", "BYTEVAULT_JWT_ACCESS_SECRET"},
		{"refresh secret", "BYTEVAULT_JWT_REFRESH_SECRET", "BYTEVAULT_JWT_REFRESH_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := config.Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() = %v, want error naming %s", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("BYTEVAULT_JWT_ACCESS_TTL", "soon")

	if _, err := config.Load(); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoad_NonPositive(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BYTEVAULT_STATS_INTERVAL", "0s"},
		{"BYTEVAULT_STATS_INTERVAL", "-1m"},
		{"BYTEVAULT_RATELIMIT_REQUESTS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Load() = %v, want error naming %s", err, tt.key)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("BYTEVAULT_CLIENT_API_URL", "https://vault.example/api/")

	cfg, err := config.LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIURL != "https://vault.example/api" {
		t.Errorf("api url = %q, want trailing slash trimmed", cfg.APIURL)
	}
	if cfg.PageSize != 10 {
		t.Errorf("page size = %d, want 10", cfg.PageSize)
	}
}
