// Package prefs resolves where per-user toolkit state lives on disk.
package prefs

import (
	"os"
	"path/filepath"
)

const appDir = "swt"

// Dir returns the per-user preferences directory, trying XDG_CONFIG_HOME,
// then ~/.config, then the system temp directory.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", appDir)
	}
	return filepath.Join(os.TempDir(), appDir)
}

// ConfigPath returns the default configuration file location.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// TrimCachePath returns where measured window trims are cached.
func TrimCachePath() string {
	return filepath.Join(Dir(), "trims.yaml")
}
