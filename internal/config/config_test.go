package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8888" || cfg.Country != "JP" || cfg.Language != "ja" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.RequestTimeout())
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booklog.yaml")
	if err := os.WriteFile(path, []byte("port: \"9000\"\nlanguage: en\nrequest_timeout_seconds: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7777" {
		t.Errorf("Expected env override, got %q", cfg.Port)
	}
	if cfg.Language != "en" {
		t.Errorf("Expected file value, got %q", cfg.Language)
	}
	if cfg.RequestTimeout() != 3*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.RequestTimeout())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Errorf("Unexpected data dir: %q", cfg.DataDir)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
