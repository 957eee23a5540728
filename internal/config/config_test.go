package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stickertools/sheet-split-mcp/internal/detection"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Detection.Mode != "auto" {
		t.Errorf("mode = %q, want auto", cfg.Detection.Mode)
	}
	if cfg.Output.Format != "png" {
		t.Errorf("format = %q, want png", cfg.Output.Format)
	}
	if cfg.Workers != defaultWorkers {
		t.Errorf("workers = %d, want %d", cfg.Workers, defaultWorkers)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
detection:
  mode: conservative
  protective_margin: 0.05
output:
  format: jpg
workers: 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Detection.Mode != "conservative" {
		t.Errorf("mode = %q, want conservative", cfg.Detection.Mode)
	}
	if cfg.Output.Format != "jpg" {
		t.Errorf("format = %q, want jpg", cfg.Output.Format)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Workers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "detectoin:\n  mode: auto\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadRejectsBadMode(t *testing.T) {
	path := writeConfig(t, "detection:\n  mode: extreme\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := writeConfig(t, "output:\n  format: gif\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadRejectsNegativeWorkers(t *testing.T) {
	path := writeConfig(t, "workers: -1\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for negative workers")
	}
}

func TestDetectionParamsPreset(t *testing.T) {
	cfg := Default()
	cfg.Detection.Mode = "aggressive"

	got := cfg.DetectionParams()
	want := detection.ModeAggressive.Params()
	if got != want {
		t.Errorf("params = %+v, want aggressive preset %+v", got, want)
	}
}

func TestDetectionParamsOverrides(t *testing.T) {
	margin := 0.07
	minArea := 0.55
	bridge := true

	cfg := Default()
	cfg.Detection.ProtectiveMargin = &margin
	cfg.Detection.MinAreaRatio = &minArea
	cfg.Detection.BridgeDashedLines = &bridge

	p := cfg.DetectionParams()
	if p.ProtectiveMargin != margin {
		t.Errorf("ProtectiveMargin = %v, want %v", p.ProtectiveMargin, margin)
	}
	if p.MinAreaRatio != minArea {
		t.Errorf("MinAreaRatio = %v, want %v", p.MinAreaRatio, minArea)
	}
	if !p.BridgeDashedLines {
		t.Error("BridgeDashedLines override not applied")
	}

	// Untouched fields keep the preset values.
	if p.MaxAreaRatio != detection.ModeAuto.Params().MaxAreaRatio {
		t.Errorf("MaxAreaRatio = %v, want preset value", p.MaxAreaRatio)
	}
}
