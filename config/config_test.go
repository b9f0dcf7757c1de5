package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Type != "memory" {
		t.Errorf("database.type = %q", cfg.Database.Type)
	}
	if cfg.Cache.StatsTTL != 6*time.Hour {
		t.Errorf("cache.stats_ttl = %v", cfg.Cache.StatsTTL)
	}
	if cfg.Pagination.SearchPerPage != 12 || cfg.Pagination.DefaultPerPage != 10 || cfg.Pagination.MaxPerPage != 50 {
		t.Errorf("unexpected pagination defaults: %+v", cfg.Pagination)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	content := []byte("cache:\n  stats_ttl: 1h\n  ttls:\n    count_by_categories: 30m\ndatabase:\n  type: memory\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CATALOG_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("env override not applied: %q", cfg.Server.Port)
	}
	if got := cfg.Cache.TTLFor("count_by_categories"); got != 30*time.Minute {
		t.Errorf("per-key ttl = %v", got)
	}
	if got := cfg.Cache.TTLFor("landing_stats"); got != time.Hour {
		t.Errorf("fallback ttl = %v", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:        AppConfig{Env: "production"},
		Database:   DatabaseConfig{Type: "mysql"},
		Cache:      CacheConfig{Backend: "memory"},
		Pagination: PaginationConfig{MaxPerPage: 50},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("production without jwt secret should fail")
	}
	cfg.Auth.JWTSecret = "s3cret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.Database.Type = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown database type should fail")
	}
}
