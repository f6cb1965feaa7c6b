// Package config loads the toolkit's user configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mailaender/eclipse.platform.swt/internal/prefs"
)

// Config is the user-tunable toolkit configuration.
type Config struct {
	// HoverDelayMS is how long the pointer must rest before hover events
	// fire, in milliseconds.
	HoverDelayMS int `yaml:"hover_delay_ms"`

	// DoubleClickMS is the maximum interval between clicks of a double
	// click, in milliseconds.
	DoubleClickMS int `yaml:"double_click_ms"`

	// Colors overrides system colors by name with CSS color values, for
	// example "widget-background: #2e3436".
	Colors map[string]string `yaml:"colors"`

	// TrimCachePath overrides where measured window trims are cached.
	TrimCachePath string `yaml:"trim_cache_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HoverDelayMS:  400,
		DoubleClickMS: 250,
		LogLevel:      "info",
	}
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = prefs.ConfigPath()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the toolkit cannot work with.
func (c *Config) Validate() error {
	if c.HoverDelayMS < 0 {
		return fmt.Errorf("hover_delay_ms must not be negative, got %d", c.HoverDelayMS)
	}
	if c.DoubleClickMS < 0 {
		return fmt.Errorf("double_click_ms must not be negative, got %d", c.DoubleClickMS)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}

// HoverDelay returns the hover delay as a duration.
func (c *Config) HoverDelay() time.Duration {
	return time.Duration(c.HoverDelayMS) * time.Millisecond
}

// DoubleClickTime returns the double click interval as a duration.
func (c *Config) DoubleClickTime() time.Duration {
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}
