// Package config provides configuration loading and management for the
// genmap index builder.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete builder configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Build   BuildConfig   `yaml:"build"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// DatasetConfig identifies the logical dataset being cataloged.
type DatasetConfig struct {
	// ID names the dataset; it becomes the endpoint id in the
	// descriptor and the base name of the merged artifacts.
	ID string `yaml:"id"`
	// URL is the dataset's SPARQL endpoint, recorded in the
	// descriptor when set.
	URL string `yaml:"url"`
}

// BuildConfig configures input discovery and output layout.
type BuildConfig struct {
	// InputDir is the directory scanned for RDF dump files.
	InputDir string `yaml:"input_dir"`
	// OutputDir receives per-file and merged artifacts.
	OutputDir string `yaml:"output_dir"`
	// Workers bounds the number of files processed concurrently.
	Workers int `yaml:"workers"`
}

// NATSConfig configures optional descriptor publication.
type NATSConfig struct {
	// URL is the NATS server URL (empty = publication disabled).
	URL string `yaml:"url"`
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled).
	Addr string `yaml:"addr"`
}

// WatchConfig configures the watch subcommand.
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before
	// rebuilding.
	DebounceDelay string `yaml:"debounce_delay"`
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			ID: "local",
		},
		Build: BuildConfig{
			InputDir:  "data",
			OutputDir: "catalog",
			Workers:   runtime.NumCPU(),
		},
		Watch: WatchConfig{
			DebounceDelay: "2s",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Dataset.ID == "" {
		return fmt.Errorf("dataset.id is required")
	}
	if strings.ContainsAny(c.Dataset.ID, `/\`) {
		return fmt.Errorf("dataset.id must not contain path separators: %q", c.Dataset.ID)
	}
	if c.Build.InputDir == "" {
		return fmt.Errorf("build.input_dir is required")
	}
	if c.Build.OutputDir == "" {
		return fmt.Errorf("build.output_dir is required")
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("build.workers must be positive, got %d", c.Build.Workers)
	}
	if c.Watch.DebounceDelay != "" {
		if _, err := time.ParseDuration(c.Watch.DebounceDelay); err != nil {
			return fmt.Errorf("watch.debounce_delay is not a duration: %w", err)
		}
	}
	return nil
}

// Merge overlays non-zero fields from other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Dataset.ID != "" {
		c.Dataset.ID = other.Dataset.ID
	}
	if other.Dataset.URL != "" {
		c.Dataset.URL = other.Dataset.URL
	}
	if other.Build.InputDir != "" {
		c.Build.InputDir = other.Build.InputDir
	}
	if other.Build.OutputDir != "" {
		c.Build.OutputDir = other.Build.OutputDir
	}
	if other.Build.Workers != 0 {
		c.Build.Workers = other.Build.Workers
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
