package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "TZ_NAME", "LOG_LEVEL", "DATABASE_URL", "DB_HOST", "HOLIDAY_CACHE_TTL", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV", "development")
	t.Setenv("TZ_NAME", "Asia/Tokyo")
	t.Setenv("DB_HOST", "db")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("HOLIDAY_CACHE_TTL", "6h")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want fallback 8080", cfg.Port)
	}
	if cfg.Holidays.CacheTTL != 6*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.Holidays.CacheTTL)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("RPS = %v", cfg.RateLimit.RPS)
	}
	if !strings.Contains(cfg.Database.DSN(), "tcp(db:3306)") {
		t.Errorf("DSN = %s, want default port appended", cfg.Database.DSN())
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, %v", level, err)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Tokyo" {
		t.Errorf("Location = %v, %v", loc, err)
	}
}

func TestLoad_DatabaseURLOverride(t *testing.T) {
	t.Setenv("TZ_NAME", "UTC")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATABASE_URL", "u:p@tcp(example:3307)/x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Database.DSN(); got != "u:p@tcp(example:3307)/x" {
		t.Errorf("DSN = %s", got)
	}
}

func TestLoad_RejectsUnknownZone(t *testing.T) {
	t.Setenv("TZ_NAME", "Mars/Olympus_Mons")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("TZ_NAME", "UTC")
	t.Setenv("LOG_LEVEL", "chatty")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad LOG_LEVEL")
	}
}

func TestSlogLevel_ProductionDefault(t *testing.T) {
	cfg := &Config{Env: "production"}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelInfo {
		t.Errorf("SlogLevel = %v, %v", level, err)
	}
}

func TestLoad_Lists(t *testing.T) {
	t.Setenv("BASE_URL", "https://kinenbi.example")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8 , ,192.168.1.0/24")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.168.1.0/24" {
		t.Errorf("TrustedProxies = %q", cfg.TrustedProxies)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("an empty CORS_ORIGINS should disable CORS, got %q", cfg.CORSOrigins)
	}
}

func TestLoad_CORSDefaultsToBaseURL(t *testing.T) {
	t.Setenv("BASE_URL", "https://kinenbi.example")
	t.Setenv("CORS_ORIGINS", "")
	os.Unsetenv("CORS_ORIGINS") // restored by t.Setenv

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://kinenbi.example" {
		t.Errorf("CORSOrigins = %q", cfg.CORSOrigins)
	}
}
