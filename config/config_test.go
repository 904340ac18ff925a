package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("VIEW_DEDUP_WINDOW", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Redis.ViewWindow != 15*time.Minute {
		t.Errorf("view window = %v, want 15m", cfg.Redis.ViewWindow)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "https://b.example.com" {
		t.Errorf("cors origins = %v", cfg.CORS.Origins)
	}
	if cfg.JWT.AccessTTL != 24*time.Hour || cfg.Database.Name != "arcade_map" {
		t.Errorf("defaults not applied: %+v %+v", cfg.JWT, cfg.Database)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled without credentials")
	}
}

func TestLoad_CORSOriginsTrimmed(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORS.Origins) != len(want) {
		t.Fatalf("cors origins = %q, want %q", cfg.CORS.Origins, want)
	}
	for i := range want {
		if cfg.CORS.Origins[i] != want[i] {
			t.Errorf("cors origins[%d] = %q, want %q", i, cfg.CORS.Origins[i], want[i])
		}
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_PATH", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without a JWT secret")
	}

	// tools that only touch the database do not need one
	if _, err := LoadDatabase(); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
}

func TestLoad_YAMLFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: \"7070\"\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, environment should win", cfg.Log.Level)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	if got, want := d.DSN(), "host=db user=u password=p dbname=n port=5432 sslmode=disable"; got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
	d.URL = "postgres://x"
	if d.DSN() != "postgres://x" {
		t.Errorf("URL should take precedence")
	}
}
