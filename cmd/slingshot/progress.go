package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/slingshot/levels"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or change saved progress",
	Long: `Level 1 is always unlocked. Winning a level unlocks the next one.

Examples:
  slingshot progress show
  slingshot progress unlock 3
  slingshot progress reset`,
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the unlocked levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		unlocked, err := store.UnlockedLevels(cmd.Context())
		if err != nil {
			return err
		}
		ids := make([]string, len(unlocked))
		for i, id := range unlocked {
			ids[i] = strconv.Itoa(id)
		}
		fmt.Printf("Unlocked levels: %s\n", strings.Join(ids, ", "))
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Lock every level except the first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ResetProgress(cmd.Context()); err != nil {
			return err
		}
		logger.Info("progress reset")
		fmt.Println("Progress reset. Only level 1 is unlocked.")
		return nil
	},
}

var progressUnlockCmd = &cobra.Command{
	Use:   "unlock <level>",
	Short: "Unlock a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[0], err)
		}
		if !knownLevel(level) {
			return fmt.Errorf("unknown level %d", level)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Unlock(cmd.Context(), level); err != nil {
			return err
		}
		fmt.Printf("Level %d unlocked.\n", level)
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
	progressCmd.AddCommand(progressUnlockCmd)
}

func knownLevel(id int) bool {
	return slices.Contains(levels.IDs(), id)
}
