package config_test

import (
	"reflect"
	"testing"

	"github.com/edulane/scoring-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http_addr = %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("db_driver = %q", cfg.DBDriver)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCORING_HTTP_ADDR", ":9090")
	t.Setenv("SCORING_DB_DRIVER", "postgres")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("http_addr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("db_driver = %q, want postgres", cfg.DBDriver)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("SCORING_CORS_ORIGINS", "https://app.example.com, https://staff.example.com")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://app.example.com", "https://staff.example.com"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("cors_origins = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SCORING_DB_DRIVER", "oracle")
	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
