// Package config holds the options threaded through a reading session:
// page geometry, cache size, degraded-mode switches, pattern limits,
// logging and debug tracing categories.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// PageSize overrides the size detected from the file header. Zero means detect.
	PageSize int `yaml:"page_size"`
	// CachePages bounds the page cache; zero disables caching.
	CachePages int `yaml:"cache_pages"`
	// BruteForceFallback lets unknown usage map types degrade to a full
	// page scan instead of failing.
	BruteForceFallback bool `yaml:"brute_force_fallback"`
	// MaxPatternLen limits LIKE patterns accepted by filters; zero means no limit.
	MaxPatternLen int `yaml:"max_pattern_len"`

	Log   LogConfig `yaml:"log"`
	Debug Debug     `yaml:"debug"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		CachePages:    64,
		MaxPatternLen: 256,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, cfg.Validate()
}

func applyDefaults(cfg *Config) {
	if cfg.CachePages < 0 {
		cfg.CachePages = 0
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate rejects values the readers cannot work with.
func (c *Config) Validate() error {
	switch c.PageSize {
	case 0, 2048, 4096:
	default:
		return fmt.Errorf("page_size %d: must be 0, 2048 or 4096", c.PageSize)
	}
	if c.MaxPatternLen < 0 {
		return fmt.Errorf("max_pattern_len %d: must not be negative", c.MaxPatternLen)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}
