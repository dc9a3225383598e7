package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/suitereport/packages/report"
)

// Config represents the suitereport configuration file
type Config struct {
	Verbose         *bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Bail            *bool   `json:"bail,omitempty" yaml:"bail,omitempty"`
	RootDir         string  `json:"rootDir,omitempty" yaml:"rootDir,omitempty"`
	NoHighlight     *bool   `json:"noHighlight,omitempty" yaml:"noHighlight,omitempty"`
	CollectCoverage *bool   `json:"collectCoverage,omitempty" yaml:"collectCoverage,omitempty"`
	Rate            float64 `json:"rate,omitempty" yaml:"rate,omitempty"` // suites per second, 0 = as fast as read
	Stats           *bool   `json:"stats,omitempty" yaml:"stats,omitempty"`
	StatsTop        int     `json:"statsTop,omitempty" yaml:"statsTop,omitempty"`
	LogLevel        string  `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetNoHighlight returns the no highlight setting. When unset it is
// detected from the terminal.
func (c *Config) GetNoHighlight() bool {
	if c.NoHighlight == nil {
		return DetectNoHighlight(os.Stdout)
	}
	return *c.NoHighlight
}

// GetCollectCoverage returns the coverage setting, defaulting to false
func (c *Config) GetCollectCoverage() bool {
	return getBool(c.CollectCoverage, false)
}

// GetStats returns the timing stats setting, defaulting to false
func (c *Config) GetStats() bool {
	return getBool(c.Stats, false)
}

// ToReportConfig resolves the settings a report run needs.
func (c *Config) ToReportConfig() report.Config {
	root := c.RootDir
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return report.Config{
		Verbose:         c.GetVerbose(),
		Bail:            c.GetBail(),
		RootDir:         root,
		NoHighlight:     c.GetNoHighlight(),
		CollectCoverage: c.GetCollectCoverage(),
	}
}

// DetectNoHighlight reports whether output to f should be plain: NO_COLOR
// is set, TERM is dumb, or f is not a terminal.
func DetectNoHighlight(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return true
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".suitereport.yaml",
	".suitereport.yml",
	"suitereport.config.json",
	".suitereportrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. JSON files
// are decoded strictly as JSON; anything else is tried as YAML first.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		return config, nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		config = DefaultConfig()
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return nil, fmt.Errorf("parsing config %s as YAML or JSON: %w", path, err)
		}
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.RootDir != "" {
		result.RootDir = other.RootDir
	}
	if other.Rate > 0 {
		result.Rate = other.Rate
	}
	if other.StatsTop > 0 {
		result.StatsTop = other.StatsTop
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.NoHighlight != nil {
		result.NoHighlight = other.NoHighlight
	}
	if other.CollectCoverage != nil {
		result.CollectCoverage = other.CollectCoverage
	}
	if other.Stats != nil {
		result.Stats = other.Stats
	}

	return &result
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %v", c.Rate)
	}
	if c.StatsTop < 0 {
		return fmt.Errorf("statsTop must not be negative, got %d", c.StatsTop)
	}
	return nil
}
