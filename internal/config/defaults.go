package config

// DefaultConfig returns configuration with sensible defaults. These are
// used when no config file exists or when the file omits fields.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			Group:    "Coverage",
			TabWidth: 4,
		},
		Source: SourceConfig{
			Roots:   []string{"src", "src_gen"},
			Exclude: []string{},
		},
	}
}

// Merge merges loaded config with defaults. Values from the loaded
// config take precedence.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	if loaded.Report.Group != "" {
		result.Report.Group = loaded.Report.Group
	} else {
		result.Report.Group = defaults.Report.Group
	}
	if loaded.Report.TabWidth != 0 {
		result.Report.TabWidth = loaded.Report.TabWidth
	} else {
		result.Report.TabWidth = defaults.Report.TabWidth
	}

	if len(loaded.Source.Roots) > 0 {
		result.Source.Roots = loaded.Source.Roots
	} else {
		result.Source.Roots = defaults.Source.Roots
	}
	if len(loaded.Source.Exclude) > 0 {
		result.Source.Exclude = loaded.Source.Exclude
	} else {
		result.Source.Exclude = defaults.Source.Exclude
	}

	return result
}
