// slingshot is a turn-based projectile physics puzzle.
//
// Usage:
//
//	slingshot play [--level N]          - Open the game window
//	slingshot levels                    - List levels and their lock state
//	slingshot progress show|reset|unlock - Inspect or change saved progress
//	slingshot simulate --level N --shot angle:pull ...
//	                                    - Play a level headless and record the run
//	slingshot runs [--limit N]          - Show recorded runs
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.slingshot, ./configs)
//	--db <path>         - Progress database, overrides the config
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/slingshot/config"
	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
	"github.com/milk9111/slingshot/storage"
)

var (
	flagConfig   string
	flagDBPath   string
	flagLogLevel string

	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slingshot",
	Short: "Slingshot - launch birds, topple towers",
	Long: `Slingshot is a turn-based physics puzzle. Pull back the launcher,
release, and knock out every target before you run out of birds.

Examples:
  slingshot play
  slingshot play --level 2
  slingshot levels
  slingshot simulate --level 1 --shot 40:1 --shot 35:0.9
  slingshot progress reset`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
}

// setup loads the config, applies flag overrides and points content loading
// at any override directories.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		c.Database.Path = flagDBPath
	}
	if flagLogLevel != "" {
		c.Log.Level = flagLogLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	level, _ := cfg.LogLevel()
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "slingshot",
		Level:           level,
		ReportTimestamp: true,
	})

	if cfg.Content.LevelsDir != "" {
		levels.SetDir(cfg.Content.LevelsDir)
	}
	if cfg.Content.PrefabsDir != "" {
		prefabs.SetDir(cfg.Content.PrefabsDir)
	}
	logger.Debug("config loaded", "db", cfg.Database.Path, "levels", levels.Dir(), "prefabs", prefabs.Dir())
	return nil
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open progress database: %w", err)
	}
	return store, nil
}
