// Package config loads covreport configuration from an optional YAML
// file, merged with built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default name of the covreport configuration file,
// looked up in the working directory.
const ConfigFileName = ".covreport.yaml"

// Config holds all covreport configuration.
type Config struct {
	Report ReportConfig `yaml:"report"`
	Source SourceConfig `yaml:"source"`
}

// ReportConfig holds configuration for report rendering.
type ReportConfig struct {
	Group    string `yaml:"group"`
	TabWidth int    `yaml:"tab_width"`
}

// SourceConfig holds configuration for unit scanning and source lookup.
type SourceConfig struct {
	// Roots is the ordered list of subdirectories probed under each
	// project's source directory when resolving source files.
	Roots []string `yaml:"roots"`
	// Exclude lists path substrings whose units are left out of bundles.
	Exclude []string `yaml:"exclude"`
}

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from path, falling back to defaults when the file
// does not exist. An empty path means ConfigFileName in the working
// directory; a missing file is only an error when the path was given
// explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks that config values are usable.
func Validate(cfg *Config) error {
	if cfg.Report.Group == "" {
		return fmt.Errorf("%w: report group label must not be empty", ErrInvalidConfig)
	}
	if cfg.Report.TabWidth <= 0 {
		return fmt.Errorf("%w: tab_width must be positive, got %d", ErrInvalidConfig, cfg.Report.TabWidth)
	}
	if len(cfg.Source.Roots) == 0 {
		return fmt.Errorf("%w: source roots must not be empty", ErrInvalidConfig)
	}
	return nil
}
