// Package config loads optional tuning for the sheet splitter from a YAML
// file. Every field has a sensible default; a missing or empty config path
// yields the default configuration.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stickertools/sheet-split-mcp/internal/detection"
)

// Detection holds optional overrides for the content-region detector. A nil
// pointer field leaves the mode preset's value in place.
type Detection struct {
	Mode               string   `yaml:"mode"`
	MinAreaRatio       *float64 `yaml:"min_area_ratio"`
	MaxAreaRatio       *float64 `yaml:"max_area_ratio"`
	EdgeThicknessLimit *float64 `yaml:"edge_thickness_limit"`
	ProtectiveMargin   *float64 `yaml:"protective_margin"`
	BridgeDashedLines  *bool    `yaml:"bridge_dashed_lines"`
	UseGradientScan    *bool    `yaml:"use_gradient_scan"`
}

// Output holds preferences for saved split pieces.
type Output struct {
	Format string `yaml:"format"` // "png", "jpg" or "jpeg"
}

// Config is the root of the YAML configuration file.
type Config struct {
	Detection Detection `yaml:"detection"`
	Output    Output    `yaml:"output"`
	Workers   int       `yaml:"workers"` // parallel batch workers, 0 = default
}

const defaultWorkers = 4

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Detection: Detection{Mode: "auto"},
		Output:    Output{Format: "png"},
		Workers:   defaultWorkers,
	}
}

// Load reads a YAML config file. An empty path returns Default(). Unknown
// keys are rejected so typos surface at startup rather than as silently
// ignored settings.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := detection.ParseMode(c.Detection.Mode); err != nil {
		return err
	}
	switch c.Output.Format {
	case "", "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}
	if c.Output.Format == "" {
		c.Output.Format = "png"
	}
	return nil
}

// DetectionParams resolves the configured mode preset and applies any
// field-level overrides on top of it.
func (c *Config) DetectionParams() detection.Params {
	mode, _ := detection.ParseMode(c.Detection.Mode)
	p := mode.Params()

	if v := c.Detection.MinAreaRatio; v != nil {
		p.MinAreaRatio = *v
	}
	if v := c.Detection.MaxAreaRatio; v != nil {
		p.MaxAreaRatio = *v
	}
	if v := c.Detection.EdgeThicknessLimit; v != nil {
		p.EdgeThicknessLimit = *v
	}
	if v := c.Detection.ProtectiveMargin; v != nil {
		p.ProtectiveMargin = *v
	}
	if v := c.Detection.BridgeDashedLines; v != nil {
		p.BridgeDashedLines = *v
	}
	if v := c.Detection.UseGradientScan; v != nil {
		p.UseGradientScan = *v
	}
	return p
}
