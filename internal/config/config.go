// Package config loads shopplan settings from defaults, a config file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Dir is the per-project configuration directory.
const Dir = ".shopplan"

// EnvPrefix prefixes environment overrides; "__" separates nested keys
// (SHOPPLAN_HTTP__ADDR overrides http.addr).
const EnvPrefix = "SHOPPLAN_"

// History backends
const (
	HistoryBackendMemory = "memory"
	HistoryBackendSQLite = "sqlite"
)

// Config represents the shopplan configuration
type Config struct {
	Actor    string         `json:"actor,omitempty"`
	Database DatabaseConfig `json:"database"`
	HTTP     HTTPConfig     `json:"http"`
	History  HistoryConfig  `json:"history"`
	Forecast ForecastConfig `json:"forecast"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	// Path is the database file. Empty means ~/.shopplan/shopplan.db.
	Path string `json:"path,omitempty"`
}

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// HistoryConfig configures the undo/redo log.
type HistoryConfig struct {
	// Backend is "memory" (process lifetime) or "sqlite" (survives restarts).
	Backend  string `json:"backend"`
	Capacity int    `json:"capacity"`
	Session  string `json:"session"`
}

// ForecastConfig configures projections.
type ForecastConfig struct {
	Months int `json:"months"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `json:"level"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.History.Backend == "" {
		c.History.Backend = HistoryBackendMemory
	}
	if c.History.Capacity == 0 {
		c.History.Capacity = 50
	}
	if c.History.Session == "" {
		c.History.Session = "default"
	}
	if c.Forecast.Months == 0 {
		c.Forecast.Months = 6
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
}

// Validate checks values after defaults are applied.
func (c *Config) Validate() error {
	if c.History.Backend != HistoryBackendMemory && c.History.Backend != HistoryBackendSQLite {
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}
	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if c.Forecast.Months < 1 {
		return fmt.Errorf("forecast.months must be positive, got %d", c.Forecast.Months)
	}
	return nil
}

// Load reads .shopplan/config.{yaml,yml,json} from dir when present, then applies
// SHOPPLAN_ environment overrides and defaults. A missing file is not an error.
func Load(dir string) (*Config, error) {
	k := koanf.New(".")

	if path, parser := findConfigFile(dir); path != "" {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// SHOPPLAN_HTTP__ADDR becomes http.addr; the provider then splits on ".".
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(dir string) (string, koanf.Parser) {
	candidates := []struct {
		name   string
		parser koanf.Parser
	}{
		{"config.yaml", yaml.Parser()},
		{"config.yml", yaml.Parser()},
		{"config.json", kjson.Parser()},
	}
	for _, c := range candidates {
		path := filepath.Join(dir, Dir, c.name)
		if _, err := os.Stat(path); err == nil {
			return path, c.parser
		}
	}
	return "", nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
