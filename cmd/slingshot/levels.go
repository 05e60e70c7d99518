package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	wonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	lostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels and their lock state",
	Long:  `Shows every bundled level with its ability, projectile and target counts, lock state and best score.`,
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	blueprints, err := levels.LoadAll()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	unlocked, err := store.UnlockedLevels(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(blueprints))
	for _, bp := range blueprints {
		best, err := store.BestScore(ctx, bp.ID)
		if err != nil {
			return err
		}
		state := "locked"
		if slices.Contains(unlocked, bp.ID) {
			state = "open"
		}
		bestStr := "-"
		if best > 0 {
			bestStr = strconv.Itoa(best)
		}
		name := bp.Name
		if levels.Overridden(bp.ID) {
			name += " *"
		}
		rows = append(rows, []string{
			strconv.Itoa(bp.ID),
			name,
			string(bp.Ability),
			strconv.Itoa(bp.Projectiles),
			strconv.Itoa(bp.Targets),
			state,
			bestStr,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "Name", "Ability", "Birds", "Pigs", "State", "Best").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if rows[row][5] == "locked" {
				return lockedStyle
			}
			return cellStyle
		})

	fmt.Println(titleStyle.Render("Levels"))
	fmt.Println(t)
	if d := levels.Dir(); d != "" {
		fmt.Printf("* loaded from %s\n", d)
	}
	if names := prefabs.Overridden(); len(names) > 0 {
		fmt.Printf("Prefab overrides from %s: %s\n", prefabs.Dir(), strings.Join(names, ", "))
	}
	return nil
}
