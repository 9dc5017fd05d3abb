package config

import "safariconverter/blocker"

// Config represents a conversion profile.
type Config struct {
	SafariVersion          int       `yaml:"safari_version"`
	Optimize               bool      `yaml:"optimize"`
	AdvancedBlocking       bool      `yaml:"advanced_blocking"`
	AdvancedBlockingFormat string    `yaml:"advanced_blocking_format,omitempty"` // "json" or "txt"
	Output                 string    `yaml:"output"`                             // Content blocker JSON file
	AdvancedOutput         string    `yaml:"advanced_output,omitempty"`          // Advanced blocking file, if any
	Sources                []Source  `yaml:"sources,omitempty"`                  // Empty means standard input
	Log                    LogConfig `yaml:"log"`
}

// Source represents a single filter list file.
type Source struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"` // Relative paths are resolved against the config file directory
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the profile used when no config file is given.
func Default() *Config {
	return &Config{
		SafariVersion:          int(blocker.DefaultVersion),
		AdvancedBlockingFormat: string(blocker.FormatJSON),
		Output:                 "blockerList.json",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Resolve validates the Safari version and advanced blocking format.
func (c *Config) Resolve() (blocker.Version, blocker.AdvancedFormat, error) {
	version, err := blocker.ParseVersion(c.SafariVersion)
	if err != nil {
		return 0, "", err
	}
	format, err := blocker.ParseAdvancedFormat(c.AdvancedBlockingFormat)
	if err != nil {
		return 0, "", err
	}
	return version, format, nil
}
