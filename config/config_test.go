package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg := Default()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		t.Fatalf("embedded config does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded config drifted from Default():\n got %+v\nwant %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("window:\n  width: 800\naudio:\n  mute: true\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 720 {
		t.Errorf("expected 800x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Audio.Mute || cfg.Audio.Volume != 0.5 {
		t.Errorf("unexpected audio config %+v", cfg.Audio)
	}
	level, err := cfg.LogLevel()
	if err != nil || level != log.DebugLevel {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("window: [1, 2"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "nope.yaml")},
		{name: "malformed", path: broken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("expected an error for %s", tt.path)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "default", mutate: func(*Config) {}, ok: true},
		{name: "zero width", mutate: func(c *Config) { c.Window.Width = 0 }},
		{name: "zero tps", mutate: func(c *Config) { c.Window.TPS = 0 }},
		{name: "loud", mutate: func(c *Config) { c.Audio.Volume = 1.5 }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "chatty" }},
		{name: "empty level", mutate: func(c *Config) { c.Log.Level = "" }, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}
