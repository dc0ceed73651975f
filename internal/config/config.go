// Package config loads hwpctl's YAML configuration. Every field has a
// working default; a missing file is not an error.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects the host backend and runtime behavior.
type Config struct {
	// Host names the document host backend: "memory" (default) runs the
	// in-process emulation; "com" is reserved for the Windows bridge.
	Host string `yaml:"host"`
	// SecurityModule is the path of the native file-access bypass module.
	// Empty means unregistered: saves still work but the host may prompt.
	SecurityModule string `yaml:"security_module"`
	// AutosaveDir receives documents saved without an explicit path.
	AutosaveDir string `yaml:"autosave_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:     "memory",
		LogLevel: "info",
	}
}

// Load reads a YAML config file, filling unset fields from Default.
// A missing file yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	if cfg.Host == "" {
		cfg.Host = "memory"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
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
