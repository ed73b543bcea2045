package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Server.Port != 8083 {
		t.Errorf("expected port 8083, got %d", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:8083" {
		t.Errorf("unexpected backend URL %q", cfg.Backend.BaseURL)
	}
	if cfg.Training.Epochs != 200 {
		t.Errorf("expected 200 epochs, got %d", cfg.Training.Epochs)
	}
	if cfg.Training.HiddenUnits != 8 {
		t.Errorf("expected 8 hidden units, got %d", cfg.Training.HiddenUnits)
	}
	if cfg.Seed.Count != 100 {
		t.Errorf("expected seed count 100, got %d", cfg.Seed.Count)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
server:
  port: 9000
training:
  epochs: 50
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Training.Epochs != 50 {
		t.Errorf("expected 50 epochs, got %d", cfg.Training.Epochs)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Training.LearningRate != 0.01 {
		t.Errorf("expected default learning rate, got %v", cfg.Training.LearningRate)
	}
	if cfg.Backend.MaxRetries != 3 {
		t.Errorf("expected default max retries, got %d", cfg.Backend.MaxRetries)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Backend.TimeoutSeconds != 15 {
		t.Errorf("expected timeout 15, got %d", cfg.Backend.TimeoutSeconds)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected custom data dir, got %q", cfg.GetDataDir())
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
