// Package config loads the game's YAML configuration.
package config

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Config is everything the binary reads at start-up.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Audio    AudioConfig    `yaml:"audio"`
	Content  ContentConfig  `yaml:"content"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AudioConfig struct {
	Volume float64 `yaml:"volume"` // 0.0 - 1.0
	Mute   bool    `yaml:"mute"`
}

// ContentConfig points blueprint and prefab loading at directories on disk.
// Empty dirs keep the embedded content.
type ContentConfig struct {
	LevelsDir  string `yaml:"levels_dir"`
	PrefabsDir string `yaml:"prefabs_dir"`
	HotReload  bool   `yaml:"hot_reload"`
}

// LogLevel parses the configured level, defaulting to info.
func (c Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// Validate rejects values the game cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("config: tps %d", c.Window.TPS)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("config: volume %.2f outside 0-1", c.Audio.Volume)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}
