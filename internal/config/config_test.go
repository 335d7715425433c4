package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebPort != 8080 || cfg.ExportFormat != "json" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Default()
	want.DBPath = "/tmp/events.db"
	want.WebEnabled = true
	want.CORSOrigins = []string{"http://localhost:3000"}

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DBPath != want.DBPath || !got.WebEnabled || len(got.CORSOrigins) != 1 {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyEnvOverridesOnlySetVariables(t *testing.T) {
	t.Setenv("EVENTFLOW_WEB_PORT", "9090")
	t.Setenv("EVENTFLOW_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg := Default()
	cfg.DBPath = "/from/file.db"
	if err := ApplyEnv(&cfg, ""); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.WebPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.WebPort)
	}
	if cfg.DBPath != "/from/file.db" {
		t.Fatalf("expected file value to survive, got %q", cfg.DBPath)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestApplyEnvReadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("EVENTFLOW_EXPORT_DIR=/tmp/exports\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EVENTFLOW_EXPORT_DIR", "")
	os.Unsetenv("EVENTFLOW_EXPORT_DIR")

	cfg := Default()
	if err := ApplyEnv(&cfg, path); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Fatalf("expected export dir from .env, got %q", cfg.ExportDir)
	}

	if err := ApplyEnv(&cfg, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored: %v", err)
	}
}
