package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/slingshot/game"
)

var flagPlayLevel int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game window",
	Long: `Starts the game at the main menu, or straight into a level with --level.
Locked levels cannot be opened directly.

Controls:
  drag the loaded bird   aim, release to launch
  SPACE / click          trigger the level's ability while in flight
  R                      restart the level
  ESC                    back to level select
  M                      mute
  F3                     physics debug overlay`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagPlayLevel, "level", 0, "Open this level directly")
}

func runPlay(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	g, err := game.New(game.Options{
		Config: cfg,
		Store:  store,
		Logger: logger,
		Level:  flagPlayLevel,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
