// Package config loads and manages the ChartMogul CLI settings file stored at
// ~/.chartmogul/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".chartmogul"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// EnvDataSource overrides the stored default data source.
const EnvDataSource = "CHARTMOGUL_DATA_SOURCE"

// Config represents the contents of ~/.chartmogul/config.yaml.
type Config struct {
	DefaultDataSource string `yaml:"default_data_source,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Load reads the config file. Returns an empty config if the file doesn't
// exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config file, creating the config directory if needed.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultDataSource returns the configured default data source UUID, falling
// back to the CHARTMOGUL_DATA_SOURCE environment variable. Empty when unset.
func DefaultDataSource() string {
	if cfg, err := Load(); err == nil && cfg.DefaultDataSource != "" {
		return cfg.DefaultDataSource
	}
	return os.Getenv(EnvDataSource)
}

// SetDefaultDataSource stores the default data source UUID.
func SetDefaultDataSource(uuid string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.DefaultDataSource = uuid
	return Save(cfg)
}

// ClearDefaultDataSource removes the stored default data source.
func ClearDefaultDataSource() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.DefaultDataSource = ""
	return Save(cfg)
}
