// Package config loads the demo server configuration from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the demo server configuration.
type Config struct {
	// Addr is the listen address for the bridge server.
	Addr string `yaml:"addr"`

	// Metrics enables the Prometheus /metrics endpoint.
	Metrics bool `yaml:"metrics"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// FetchURL, when set, is fetched through a load controller and published
	// as the "fetch" atom.
	FetchURL string `yaml:"fetch_url"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:     ":8090",
		Metrics:  true,
		LogLevel: "info",
	}
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
