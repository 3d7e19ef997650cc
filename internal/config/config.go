// Package config loads and validates GraphText engine configuration.
//
// Configuration is resolved in three layers, later layers winning:
//  1. Built-in defaults (NewConfig)
//  2. YAML file (graphtext.yaml in the storage root, or an explicit path)
//  3. Environment variables (GRAPHTEXT_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the YAML file looked up inside the storage root.
const ConfigFileName = "graphtext.yaml"

// Config represents the complete GraphText engine configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// StorageConfig configures where index data lives on disk.
type StorageConfig struct {
	// RootDir is the storage root; every index lives under
	// <root>/<identifier>/partition-<ordinal>.
	RootDir string `yaml:"root_dir" json:"root_dir"`
}

// IndexConfig configures defaults applied at index creation time.
type IndexConfig struct {
	// PartitionCount is the number of partitions for new indexes.
	// Fixed per index at creation; existing indexes keep the count
	// recorded in their descriptor.
	PartitionCount int `yaml:"partition_count" json:"partition_count"`

	// DefaultAnalyzer is the analyzer profile used when creation does
	// not name one ("standard", "english", "swedish").
	DefaultAnalyzer string `yaml:"default_analyzer" json:"default_analyzer"`

	// QueryCacheSize bounds the per-profile LRU of analyzed query
	// token streams. Zero disables the cache.
	QueryCacheSize int `yaml:"query_cache_size" json:"query_cache_size"`
}

// LoggingConfig configures engine logging.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	FilePath  string `yaml:"file_path" json:"file_path"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			RootDir: defaultRootDir(),
		},
		Index: IndexConfig{
			PartitionCount:  4,
			DefaultAnalyzer: "standard",
			QueryCacheSize:  256,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// defaultRootDir returns the default storage root (~/.graphtext/indexes).
func defaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".graphtext", "indexes")
	}
	return filepath.Join(home, ".graphtext", "indexes")
}

// Load resolves configuration for the given storage root directory.
// A missing config file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()
	if dir != "" {
		cfg.Storage.RootDir = dir
	}

	path := filepath.Join(cfg.Storage.RootDir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an explicit YAML path.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML merges a YAML file into the config.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies GRAPHTEXT_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRAPHTEXT_ROOT_DIR"); v != "" {
		c.Storage.RootDir = v
	}
	if v := os.Getenv("GRAPHTEXT_PARTITION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Index.PartitionCount = n
		}
	}
	if v := os.Getenv("GRAPHTEXT_DEFAULT_ANALYZER"); v != "" {
		c.Index.DefaultAnalyzer = v
	}
	if v := os.Getenv("GRAPHTEXT_QUERY_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Index.QueryCacheSize = n
		}
	}
	if v := os.Getenv("GRAPHTEXT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Storage.RootDir == "" {
		return fmt.Errorf("storage.root_dir must not be empty")
	}

	if c.Index.PartitionCount < 1 {
		return fmt.Errorf("index.partition_count must be at least 1, got %d", c.Index.PartitionCount)
	}
	if c.Index.QueryCacheSize < 0 {
		return fmt.Errorf("index.query_cache_size must be non-negative, got %d", c.Index.QueryCacheSize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
