// Package config loads the optional YAML file holding command-line
// defaults, so recurring flags (fit threshold, preferred backend, USB
// identifiers) do not have to be repeated on every invocation.
//
// Config file locations (priority order):
//  1. $DOTTUNE_CONFIG
//  2. ./dottune.yaml
//  3. $XDG_CONFIG_HOME/dottune/config.yaml
//  4. ~/.config/dottune/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the command-line defaults.
type Config struct {
	Fit FitConfig `yaml:"fit"`
	AWG AWGConfig `yaml:"awg"`
}

// FitConfig carries defaults for the fit command.
type FitConfig struct {
	// Threshold is the robustness threshold in Hz. Zero keeps the
	// built-in default.
	Threshold float64 `yaml:"threshold"`

	// CurveFit seeds the pipeline with a least-squares fit.
	CurveFit bool `yaml:"curvefit"`

	// Cost names the robust cost transform (bz, l1, l2, huber, cauchy).
	Cost string `yaml:"cost"`
}

// AWGConfig carries defaults for the awg command.
type AWGConfig struct {
	// Backend selects the generator backend (sim, usbtmc).
	Backend string `yaml:"backend"`

	// VID and PID identify the USB instrument for the usbtmc backend.
	VID uint16 `yaml:"vid"`
	PID uint16 `yaml:"pid"`
}

// Load finds and loads the config file, or returns defaults if none is
// found. The second return value names the file actually used, empty when
// the defaults were returned.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the built-in defaults: simulator backend, the
// Blake-Zisserman cost and the library's own fit threshold.
func DefaultConfig() *Config {
	return &Config{
		Fit: FitConfig{Cost: "bz"},
		AWG: AWGConfig{Backend: "sim"},
	}
}

func (c *Config) applyDefaults() {
	if c.Fit.Cost == "" {
		c.Fit.Cost = "bz"
	}
	if c.AWG.Backend == "" {
		c.AWG.Backend = "sim"
	}
}
