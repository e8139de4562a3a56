// Package config loads the loom.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the loom.yaml configuration.
type Config struct {
	// ArtifactDir is where the grammar layer drops parse artifacts.
	ArtifactDir string `yaml:"artifactDir,omitempty"`

	// OutDir is where compiled descriptors are written.
	OutDir string `yaml:"outDir,omitempty"`

	// Dev configures the watch-mode dev server.
	Dev *DevConfig `yaml:"dev,omitempty"`

	// Cache configures the descriptor cache.
	Cache *CacheConfig `yaml:"cache,omitempty"`
}

// DevConfig contains watch-mode server configuration.
type DevConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// CacheConfig contains descriptor cache configuration.
type CacheConfig struct {
	// Dir overrides the cache directory.
	Dir string `yaml:"dir,omitempty"`

	// Disabled turns the cache off entirely.
	Disabled bool `yaml:"disabled,omitempty"`
}

// Load loads configuration from loom.yaml in projectPath, falling back to
// defaults when the file does not exist.
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, "loom.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse loom.yaml: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

// Save writes configuration to loom.yaml in projectPath.
func Save(config *Config, projectPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectPath, "loom.yaml"), data, 0644)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ArtifactDir: "build/artifacts",
		OutDir:      "build/templates",
		Dev: &DevConfig{
			Host: "localhost",
			Port: 7333,
		},
		Cache: &CacheConfig{},
	}
}

// applyDefaults fills in missing values.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.ArtifactDir == "" {
		config.ArtifactDir = defaults.ArtifactDir
	}
	if config.OutDir == "" {
		config.OutDir = defaults.OutDir
	}

	if config.Dev == nil {
		config.Dev = defaults.Dev
	} else {
		if config.Dev.Host == "" {
			config.Dev.Host = defaults.Dev.Host
		}
		if config.Dev.Port == 0 {
			config.Dev.Port = defaults.Dev.Port
		}
	}

	if config.Cache == nil {
		config.Cache = defaults.Cache
	}
}
