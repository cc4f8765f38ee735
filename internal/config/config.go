package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// Config represents the top-level syslogdash configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
	EnvFile   string          `yaml:"env_file"`

	// Path is the file the config was loaded from; empty for defaults
	Path string `yaml:"-"`
}

// APIConfig defines how to reach the collector
type APIConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// DashboardConfig defines dashboard defaults
type DashboardConfig struct {
	InitialLimit int    `yaml:"initial_limit"`
	AutoRefresh  string `yaml:"auto_refresh"`
	ExportDir    string `yaml:"export_dir"`
}

// LoggingConfig defines where diagnostic logs go
type LoggingConfig struct {
	Output string `yaml:"output"`
	Dir    string `yaml:"dir"`
	Name   string `yaml:"name"`
	Level  string `yaml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse parses configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.URL == "" {
		cfg.API.URL = constants.DefaultAPIAddress
	}
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = constants.DefaultRequestTimeout.String()
	}
	if cfg.Dashboard.InitialLimit == 0 {
		cfg.Dashboard.InitialLimit = constants.DefaultInitialLimit
	}
	if cfg.Dashboard.AutoRefresh == "" {
		cfg.Dashboard.AutoRefresh = constants.DefaultAutoRefresh.String()
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "file"
	}
	if cfg.Logging.Name == "" {
		cfg.Logging.Name = "syslogdash"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// RequestTimeout returns the parsed API timeout
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return constants.DefaultRequestTimeout
	}
	return d
}

// AutoRefreshInterval returns the parsed auto-refresh interval; zero means off
func (c *Config) AutoRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Dashboard.AutoRefresh)
	if err != nil || d < 0 {
		return constants.DefaultAutoRefresh
	}
	return d
}
