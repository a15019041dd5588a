package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"NUTRIBATTLE_API_URL", "NUTRIBATTLE_SESSION_BACKEND", "NUTRIBATTLE_TIMEOUT",
		"PORT", "DATABASE_URL", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Client.SessionBackend != SessionBackendFile {
		t.Errorf("session backend = %q, want %q", cfg.Client.SessionBackend, SessionBackendFile)
	}
	if cfg.Client.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Client.Timeout)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NUTRIBATTLE_API_URL", "https://nutri.example.com/api/")
	t.Setenv("NUTRIBATTLE_SESSION_BACKEND", "SQLite")
	t.Setenv("NUTRIBATTLE_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Client.APIURL != "https://nutri.example.com/api" {
		t.Errorf("api url = %q", cfg.Client.APIURL)
	}
	if cfg.Client.SessionBackend != SessionBackendSQLite {
		t.Errorf("session backend = %q", cfg.Client.SessionBackend)
	}
	if cfg.Client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Client.Timeout)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("NUTRIBATTLE_SESSION_BACKEND", "floppy")
	t.Setenv("NUTRIBATTLE_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Client.SessionBackend != SessionBackendFile {
		t.Errorf("session backend = %q, want file", cfg.Client.SessionBackend)
	}
	if cfg.Client.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Client.Timeout)
	}
}
