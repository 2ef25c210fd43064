// Package config loads crewdash configuration from a YAML file with
// environment overrides, and owns the global structured logger.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// environment variables. Command-line flags are applied on top by the CLI
// layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crewdash/crewdash/internal/cache"
)

// DefaultConfigFile is the default configuration file name, looked up in
// the current directory and then the home directory.
const DefaultConfigFile = ".crewdash.yaml"

// EnvEndpoint overrides the roster service endpoint.
const EnvEndpoint = "CREWDASH_ENDPOINT"

// DefaultEndpoint is the roster service read endpoint used when neither
// the config file, the environment, nor a flag provides one.
const DefaultEndpoint = "http://localhost:3000/api/users"

// ErrConfigNotFound is returned when an explicitly requested configuration
// file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// CacheConfig configures the roster cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Dir        string `yaml:"dir"`
}

// TTL returns the configured TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return cache.DefaultTTL
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the full crewdash configuration.
type Config struct {
	Endpoint string        `yaml:"endpoint"`
	Cache    CacheConfig   `yaml:"cache"`
	Logging  LoggingConfig `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: int(cache.DefaultTTL / time.Second),
			Dir:        cache.DefaultDir(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file (explicit path or discovered), overlaid by environment variables.
//
// A missing discovered file is fine; a missing explicit path is
// ErrConfigNotFound.
func Load(path string) (*Config, error) {
	cfg := Default()

	found := FindConfigFile(path)
	if found == "" && path != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if found != "" {
		raw, err := os.ReadFile(found) //nolint:gosec // user-provided config path is intentional
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", found, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays environment variables on cfg.
func applyEnv(cfg *Config) {
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if os.Getenv(cache.EnvTTLSeconds) != "" {
		cfg.Cache.TTLSeconds = int(cache.TTLFromEnv() / time.Second)
	}
	if dir := os.Getenv(cache.EnvCacheDir); dir != "" {
		cfg.Cache.Dir = dir
	}
	if os.Getenv(cache.EnvCacheEnabled) != "" {
		cfg.Cache.Enabled = cache.EnabledFromEnv()
	}
}

// FindConfigFile resolves the configuration file path: the explicit path if
// given, otherwise DefaultConfigFile in the working directory, then in the
// home directory. Returns "" when nothing is found.
func FindConfigFile(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
