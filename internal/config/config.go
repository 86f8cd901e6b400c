// Package config loads and validates tdmcp configuration.
//
// Precedence, lowest to highest:
//  1. Built-in defaults
//  2. Config file (tdmcp.yaml in the data directory or working directory)
//  3. Environment variables (TDMCP_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

// Config represents the complete tdmcp configuration.
type Config struct {
	Version int               `yaml:"version" json:"version"`
	Paths   PathsConfig       `yaml:"paths" json:"paths"`
	Search  SearchConfig      `yaml:"search" json:"search"`
	Index   IndexConfig       `yaml:"index" json:"index"`
	Persist PersistenceConfig `yaml:"persistence" json:"persistence"`
	Server  ServerConfig      `yaml:"server" json:"server"`
}

// PathsConfig configures filesystem locations.
type PathsConfig struct {
	// DocsDir holds the scraped JSON catalogs (one array of documents per file).
	DocsDir string `yaml:"docs_dir" json:"docs_dir"`

	// DataDir holds snapshots, statistics and logs (default: ~/.tdmcp).
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// SearchConfig configures query handling.
type SearchConfig struct {
	// DefaultLimit is the result count when the caller does not set one.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// MaxLimit caps the per-query result count.
	MaxLimit int `yaml:"max_limit" json:"max_limit"`

	// CacheSize is the bounded result cache capacity.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// MinQueryLength is the minimum usable query length after trimming.
	// Shorter queries return an empty result with suggestions.
	MinQueryLength int `yaml:"min_query_length" json:"min_query_length"`

	// Fuzzy enables fuzzy term matching by default.
	Fuzzy bool `yaml:"fuzzy" json:"fuzzy"`

	// MaxSuggestions caps the suggestion list length.
	MaxSuggestions int `yaml:"max_suggestions" json:"max_suggestions"`
}

// IndexConfig configures bulk indexing.
type IndexConfig struct {
	// BatchSize is the number of documents per bulk-indexing batch.
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// Workers is the parallelism within a batch. Batches themselves run
	// sequentially to bound peak resource use.
	Workers int `yaml:"workers" json:"workers"`

	// WatchDebounce is the settle delay for catalog watcher events.
	WatchDebounce time.Duration `yaml:"watch_debounce" json:"watch_debounce"`
}

// PersistenceConfig configures snapshots.
type PersistenceConfig struct {
	// Enabled turns periodic snapshot persistence on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// FlushInterval is the period between automatic snapshot writes.
	FlushInterval time.Duration `yaml:"flush_interval" json:"flush_interval"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DocsDir: "docs",
			DataDir: defaultDataDir(),
		},
		Search: SearchConfig{
			DefaultLimit:   50,
			MaxLimit:       200,
			CacheSize:      256,
			MinQueryLength: 2,
			Fuzzy:          false,
			MaxSuggestions: 5,
		},
		Index: IndexConfig{
			BatchSize:     100,
			Workers:       4,
			WatchDebounce: 500 * time.Millisecond,
		},
		Persist: PersistenceConfig{
			Enabled:       true,
			FlushInterval: 5 * time.Minute,
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// Load reads configuration from the given path, applying defaults and env
// overrides. An empty path searches tdmcp.yaml in the working directory
// then the data directory; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile(cfg.Paths.DataDir)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, tderrors.Wrap(tderrors.ErrCodeConfigNotFound, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, tderrors.New(tderrors.ErrCodeConfigInvalid,
				fmt.Sprintf("parse %s: %v", path, err), err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Search.DefaultLimit <= 0 {
		return tderrors.New(tderrors.ErrCodeConfigInvalid, "search.default_limit must be positive", nil)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return tderrors.New(tderrors.ErrCodeConfigInvalid, "search.max_limit must be >= search.default_limit", nil)
	}
	if c.Search.CacheSize <= 0 {
		return tderrors.New(tderrors.ErrCodeConfigInvalid, "search.cache_size must be positive", nil)
	}
	if c.Index.BatchSize <= 0 {
		return tderrors.New(tderrors.ErrCodeConfigInvalid, "index.batch_size must be positive", nil)
	}
	if c.Index.Workers <= 0 {
		return tderrors.New(tderrors.ErrCodeConfigInvalid, "index.workers must be positive", nil)
	}
	if c.Persist.Enabled && c.Persist.FlushInterval <= 0 {
		return tderrors.New(tderrors.ErrCodeConfigInvalid, "persistence.flush_interval must be positive", nil)
	}
	switch c.Server.Transport {
	case "stdio":
	default:
		return tderrors.New(tderrors.ErrCodeConfigInvalid,
			fmt.Sprintf("server.transport %q not supported (supported: stdio)", c.Server.Transport), nil)
	}
	return nil
}

// SnapshotPath returns the index snapshot file path.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.Paths.DataDir, "index.json")
}

// StatsPath returns the statistics snapshot file path.
func (c *Config) StatsPath() string {
	return filepath.Join(c.Paths.DataDir, "stats.json")
}

// defaultDataDir returns ~/.tdmcp, falling back to the temp directory.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".tdmcp")
	}
	return filepath.Join(home, ".tdmcp")
}

// findConfigFile returns the first existing tdmcp.yaml, or "".
func findConfigFile(dataDir string) string {
	candidates := []string{
		"tdmcp.yaml",
		filepath.Join(dataDir, "tdmcp.yaml"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyEnvOverrides applies TDMCP_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TDMCP_DOCS_DIR"); v != "" {
		cfg.Paths.DocsDir = v
	}
	if v := os.Getenv("TDMCP_DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := os.Getenv("TDMCP_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("TDMCP_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Search.DefaultLimit = n
		}
	}
	if v := os.Getenv("TDMCP_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Search.CacheSize = n
		}
	}
	if v := os.Getenv("TDMCP_FUZZY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.Fuzzy = b
		}
	}
}
