package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.NotEmpty(t, cfg.Storage.RootDir)
	assert.Equal(t, 4, cfg.Index.PartitionCount)
	assert.Equal(t, "standard", cfg.Index.DefaultAnalyzer)
	assert.Equal(t, 256, cfg.Index.QueryCacheSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	// Given: an empty storage root with no graphtext.yaml
	dir := t.TempDir()

	// When: loading
	cfg, err := Load(dir)
	require.NoError(t, err)

	// Then: defaults apply with the root overridden
	assert.Equal(t, dir, cfg.Storage.RootDir)
	assert.Equal(t, 4, cfg.Index.PartitionCount)
}

func TestLoad_ReadsYAMLFromRoot(t *testing.T) {
	// Given: a storage root with a config file
	dir := t.TempDir()
	yaml := `
version: 1
index:
  partition_count: 8
  default_analyzer: english
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yaml), 0o644))

	// When: loading
	cfg, err := Load(dir)
	require.NoError(t, err)

	// Then: file values win over defaults
	assert.Equal(t, 8, cfg.Index.PartitionCount)
	assert.Equal(t, "english", cfg.Index.DefaultAnalyzer)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GRAPHTEXT_PARTITION_COUNT", "16")
	t.Setenv("GRAPHTEXT_DEFAULT_ANALYZER", "swedish")
	t.Setenv("GRAPHTEXT_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Index.PartitionCount)
	assert.Equal(t, "swedish", cfg.Index.DefaultAnalyzer)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_IgnoresInvalidEnvValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GRAPHTEXT_PARTITION_COUNT", "zero")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Index.PartitionCount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty root",
			mutate:  func(c *Config) { c.Storage.RootDir = "" },
			wantErr: "root_dir",
		},
		{
			name:    "zero partitions",
			mutate:  func(c *Config) { c.Index.PartitionCount = 0 },
			wantErr: "partition_count",
		},
		{
			name:    "negative cache",
			mutate:  func(c *Config) { c.Index.QueryCacheSize = -1 },
			wantErr: "query_cache_size",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	// Given: a customized config
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Storage.RootDir = dir
	cfg.Index.PartitionCount = 2
	cfg.Index.DefaultAnalyzer = "english"

	// When: writing and re-loading
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(dir)
	require.NoError(t, err)

	// Then: values survive the round trip
	assert.Equal(t, 2, loaded.Index.PartitionCount)
	assert.Equal(t, "english", loaded.Index.DefaultAnalyzer)
}
