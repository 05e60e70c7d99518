package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/session"
	"github.com/milk9111/slingshot/storage"
)

var (
	flagSimLevel    int
	flagSimShots    []string
	flagSimAbility  time.Duration
	flagSimTimeout  time.Duration
	flagSimSeed     uint64
	flagSimNoRecord bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play a level headless and record the run",
	Long: `Runs a level without a window. Each --shot is "angle:pull": the launch
angle in degrees above the horizontal and the pull as a fraction of the
launcher's maximum drag. Shots are fired in order as projectiles load.

Examples:
  slingshot simulate --level 1 --shot 40:1 --shot 30:0.8
  slingshot simulate --level 2 --shot 20:1 --ability 600ms`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Level to simulate")
	simulateCmd.Flags().StringArrayVar(&flagSimShots, "shot", nil, "Shot as angle:pull (repeatable)")
	simulateCmd.Flags().DurationVar(&flagSimAbility, "ability", 0, "Trigger the ability this long after each release (0 = never)")
	simulateCmd.Flags().DurationVar(&flagSimTimeout, "timeout", 2*time.Minute, "Give up after this much session time")
	simulateCmd.Flags().Uint64Var(&flagSimSeed, "seed", 1, "Seed for cosmetic randomness")
	simulateCmd.Flags().BoolVar(&flagSimNoRecord, "no-record", false, "Do not store the run")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	shots, err := parseShots(flagSimShots)
	if err != nil {
		return err
	}
	bp, err := levels.Load(flagSimLevel)
	if err != nil {
		return err
	}
	r, err := bp.Layout(cmd.Context(), levels.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)})
	if err != nil {
		return err
	}

	sess, err := simulate(r, shots, simOptions{Ability: flagSimAbility, Timeout: flagSimTimeout},
		session.WithLogger(logger), session.WithSeed(flagSimSeed))
	if err != nil {
		return err
	}
	defer sess.Teardown()

	snap := sess.State()
	printSimulation(bp, snap, len(sess.Journal()))

	if snap.Outcome == session.OutcomeNone {
		fmt.Println("Level unfinished, run not recorded.")
		return nil
	}
	if flagSimNoRecord {
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.RecordRun(cmd.Context(), storage.NewRun(snap, sess.Journal()))
	if err != nil {
		return err
	}
	fmt.Printf("Recorded as run %d.\n", id)
	return nil
}

func printSimulation(bp *levels.Blueprint, snap session.Snapshot, signals int) {
	outcome := cellStyle.Render(snap.Outcome.String())
	switch snap.Outcome {
	case session.OutcomeWon:
		outcome = wonStyle.Render("won")
	case session.OutcomeLost:
		outcome = lostStyle.Render("lost")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Level %d: %s", bp.ID, bp.Name),
		"Outcome: "+outcome,
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Birds left: %d  Pigs left: %d", snap.ProjectilesRemaining, snap.TargetsRemaining),
		fmt.Sprintf("Session time: %s  Signals: %d", snap.Elapsed.Round(time.Millisecond), signals),
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(body))
}

// shot is one launch: angle in degrees above the horizontal and pull as a
// fraction of the launcher's max drag.
type shot struct {
	Angle float64
	Pull  float64
}

var errNoShots = errors.New("at least one --shot is required")

func parseShots(raw []string) ([]shot, error) {
	if len(raw) == 0 {
		return nil, errNoShots
	}
	out := make([]shot, 0, len(raw))
	for _, s := range raw {
		sh, err := parseShot(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, nil
}

func parseShot(s string) (shot, error) {
	a, p, ok := strings.Cut(s, ":")
	if !ok {
		return shot{}, fmt.Errorf("shot %q: want angle:pull", s)
	}
	angle, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return shot{}, fmt.Errorf("shot %q: angle: %w", s, err)
	}
	pull, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
	if err != nil {
		return shot{}, fmt.Errorf("shot %q: pull: %w", s, err)
	}
	if pull <= 0 || pull > 1 {
		return shot{}, fmt.Errorf("shot %q: pull must be in (0, 1]", s)
	}
	return shot{Angle: angle, Pull: pull}, nil
}

type simOptions struct {
	Ability time.Duration
	Timeout time.Duration
}

// simulate plays r with the given shots, one frame at a time, until the
// outcome is decided or the timeout passes in session time.
func simulate(r *levels.Resolved, shots []shot, opts simOptions, sessOpts ...session.Option) (*session.Session, error) {
	sess := session.New(r, sessOpts...)
	if err := sess.Start(); err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	for i, sh := range shots {
		ready := stepUntil(sess, timeout, func() bool {
			return sess.Phase() == session.PhaseLoaded || sess.Outcome() != session.OutcomeNone
		})
		if sess.Outcome() != session.OutcomeNone {
			break
		}
		if !ready {
			sess.Teardown()
			return nil, fmt.Errorf("shot %d: no projectile loaded within %s", i+1, timeout)
		}
		if err := fire(sess, sh); err != nil {
			sess.Teardown()
			return nil, fmt.Errorf("shot %d: %w", i+1, err)
		}
		if opts.Ability > 0 {
			until := sess.State().Elapsed + opts.Ability
			stepUntil(sess, timeout, func() bool { return sess.State().Elapsed >= until })
			sess.TriggerAbility()
		}
		// Let the shot leave the launcher before waiting for the next load.
		stepUntil(sess, timeout, func() bool { return sess.Phase() != session.PhaseLaunched })
	}

	stepUntil(sess, timeout, func() bool { return sess.Outcome() != session.OutcomeNone })
	return sess, nil
}

// fire grabs the loaded projectile, pulls it back and releases it.
func fire(sess *session.Session, sh shot) error {
	snap := sess.State()
	x, y, ok := sess.Physics().Position(snap.Active)
	if !ok {
		return errors.New("no loaded projectile")
	}
	if !sess.Grab(x, y) {
		return errors.New("grab refused")
	}
	l := sess.Blueprint().Launcher
	rad := sh.Angle * math.Pi / 180
	d := sh.Pull * l.MaxDrag
	// Launch goes from the pulled position toward the anchor, so pull the
	// opposite way. Screen y points down.
	sess.Drag(l.X-math.Cos(rad)*d, l.Y+math.Sin(rad)*d)
	if !sess.Release() {
		return errors.New("release refused")
	}
	return nil
}

// stepUntil advances one frame at a time until done or the session clock
// reaches timeout. It reports whether done became true.
func stepUntil(sess *session.Session, timeout time.Duration, done func() bool) bool {
	for !done() {
		if sess.State().Elapsed >= timeout {
			return false
		}
		sess.Step(session.Frame)
	}
	return true
}
