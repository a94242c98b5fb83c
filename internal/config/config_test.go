package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.KioskUser != "kiosk" {
		t.Errorf("KioskUser = %q, want kiosk", cfg.KioskUser)
	}
	if cfg.TermType != "linux" {
		t.Errorf("TermType = %q, want linux", cfg.TermType)
	}
	if cfg.RetryDelaySeconds != 10 {
		t.Errorf("RetryDelaySeconds = %d, want 10", cfg.RetryDelaySeconds)
	}
	if len(cfg.DisplayServers) == 0 {
		t.Error("DisplayServers should have defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ttyguard.yaml")
	data := []byte("kiosk_user: shared\nretry_delay_seconds: 3\nmarker_file: /tmp/vt\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.KioskUser != "shared" {
		t.Errorf("KioskUser = %q, want shared", cfg.KioskUser)
	}
	if cfg.RetryDelaySeconds != 3 {
		t.Errorf("RetryDelaySeconds = %d, want 3", cfg.RetryDelaySeconds)
	}
	if cfg.MarkerFile != "/tmp/vt" {
		t.Errorf("MarkerFile = %q, want /tmp/vt", cfg.MarkerFile)
	}
	// Unset keys keep defaults.
	if cfg.TermType != "linux" {
		t.Errorf("TermType = %q, want default linux", cfg.TermType)
	}
}

func TestRetryGuardsNonsense(t *testing.T) {
	cfg := Default()
	cfg.RetryDelaySeconds = -5
	if got := cfg.Retry(); got != 10 {
		t.Errorf("Retry() = %d, want 10", got)
	}
	cfg.RetryDelaySeconds = 2
	if got := cfg.Retry(); got != 2 {
		t.Errorf("Retry() = %d, want 2", got)
	}
}
