package config

import (
	_ "embed"
)

//go:embed defaults/config.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Slingshot",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
		Database: DatabaseConfig{
			Path: "~/.slingshot/slingshot.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Audio: AudioConfig{
			Volume: 0.5,
		},
	}
}
