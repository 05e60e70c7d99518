package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/milk9111/slingshot/session"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Long:  `Lists the most recent finished runs, newest first, with the number of signals in each journal.`,
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Maximum number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context(), flagRunsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'slingshot play' or 'slingshot simulate' to record one.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.Level),
			r.Outcome.String(),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.ProjectilesLeft),
			r.Duration.Round(100 * time.Millisecond).String(),
			strconv.Itoa(len(r.Journal)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Run", "Date", "Level", "Outcome", "Score", "Birds left", "Time", "Signals").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 3 && runs[row].Outcome == session.OutcomeWon:
				return wonStyle
			case col == 3 && runs[row].Outcome == session.OutcomeLost:
				return lostStyle
			}
			return cellStyle
		})

	fmt.Println(titleStyle.Render("Recent runs"))
	fmt.Println(t)
	return nil
}
