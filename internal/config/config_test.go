package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neolink.json")
	if err := os.WriteFile(path, []byte(`{"server":{"address":":9000"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address)
	}
	if cfg.Session.Driver != "memory" {
		t.Fatalf("expected memory session default, got %s", cfg.Session.Driver)
	}
	if cfg.Providers.Balance.Driver != "mock" {
		t.Fatalf("expected mock balance default, got %s", cfg.Providers.Balance.Driver)
	}
	if cfg.LLM.APIKeyEnv != "OPENROUTER_API_KEY" {
		t.Fatalf("unexpected llm key env: %s", cfg.LLM.APIKeyEnv)
	}
	if cfg.Runtime.DataDir != filepath.Join(filepath.Dir(path), "data") {
		t.Fatalf("unexpected data dir: %s", cfg.Runtime.DataDir)
	}
}

func TestLoadResolvesRelativeDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neolink.json")
	if err := os.WriteFile(path, []byte(`{"runtime":{"data_dir":"state"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Runtime.DataDir != filepath.Join(dir, "state") {
		t.Fatalf("unexpected data dir: %s", cfg.Runtime.DataDir)
	}
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
