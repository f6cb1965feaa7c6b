package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HoverDelayMS != 400 || cfg.DoubleClickMS != 250 || cfg.LogLevel != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
hover_delay_ms: 150
colors:
  widget-background: "#2e3436"
log_level: debug
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HoverDelay() != 150*time.Millisecond {
		t.Fatalf("hover delay = %v, want 150ms", cfg.HoverDelay())
	}
	if cfg.DoubleClickTime() != 250*time.Millisecond {
		t.Fatalf("unset double click lost its default: %v", cfg.DoubleClickTime())
	}
	if cfg.Colors["widget-background"] != "#2e3436" {
		t.Fatalf("colors = %v", cfg.Colors)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		"hover_delay_ms: -1\n",
		"double_click_ms: -5\n",
		"log_level: loud\n",
		"hover_delay_ms: [\n",
	}
	dir := t.TempDir()
	for i, contents := range cases {
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("case %d: bad config %q accepted", i, contents)
		}
	}
}
