package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
	"github.com/milk9111/slingshot/session"
	"github.com/milk9111/slingshot/storage"
)

const trajectoryPoints = 40

// play is the level screen: one session plus the outcome popup.
type play struct {
	g        *Game
	id       int
	name     string
	sess     *session.Session
	recorded bool
	popup    *ebitenui.UI
	banner   string
}

func newPlay(g *Game, id int) (*play, error) {
	bp, err := levels.Load(id)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	r, err := bp.Layout(g.ctx, g.viewport())
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	lib, err := prefabs.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	p := &play{g: g, id: id, name: bp.Name}
	p.sess = session.New(r,
		session.WithLogger(g.logger),
		session.WithListener(p),
		session.WithPrefabs(lib),
		session.WithSeed(uint64(time.Now().UnixNano())),
	)
	if err := p.sess.Start(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return p, nil
}

// OnSignal turns session signals into sound, floating text and shake.
func (p *play) OnSignal(sig session.Signal) {
	switch sig.Kind {
	case session.SignalCue:
		p.g.cues.Play(sig.Cue)
	case session.SignalScore:
		p.g.spawnText(fmt.Sprintf("+%d", sig.Points), sig.X, sig.Y, colorScore, 2)
	case session.SignalText:
		p.g.spawnText(sig.Text, sig.X, sig.Y, colorBoom, 4)
	case session.SignalShake:
		p.g.shake(int(sig.Duration/session.Frame), sig.Magnitude)
	case session.SignalOutcome:
		p.g.logger.Info("level finished", "level", p.id, "outcome", sig.Outcome)
	}
}

func (p *play) update(in *component.Input) error {
	if in.Back {
		p.g.showSelect()
		return nil
	}
	if in.Reset {
		p.restart()
		return nil
	}
	if p.popup != nil {
		p.popup.Update()
		return nil
	}

	switch {
	case in.Press && p.sess.Phase() == session.PhaseLoaded:
		p.sess.Grab(in.CursorX, in.CursorY)
	case in.Held && p.sess.Phase() == session.PhaseAiming:
		p.sess.Drag(in.CursorX, in.CursorY)
	}
	if in.Release && p.sess.Phase() == session.PhaseAiming {
		p.sess.Drag(in.CursorX, in.CursorY)
		p.sess.Release()
	}
	// Clicking while a projectile is in flight also fires its ability.
	if in.Ability || (in.Press && p.sess.Phase() == session.PhaseLaunched) {
		p.sess.TriggerAbility()
	}

	p.sess.Step(time.Second / time.Duration(ebiten.TPS()))

	if o := p.sess.Outcome(); o != session.OutcomeNone && !p.recorded {
		p.finish(o)
	}
	return nil
}

// finish records the run, unlocks the next level on a win and opens the
// popup.
func (p *play) finish(o session.Outcome) {
	p.recorded = true
	g := p.g
	snap := p.sess.State()

	if _, err := g.store.RecordRun(g.ctx, storage.NewRun(snap, p.sess.Journal())); err != nil {
		g.logger.Error("record run", "err", err)
	}

	top := g.cfg.Window.Height/2 - 40
	next := p.id + 1
	if o == session.OutcomeLost {
		p.banner = "LEVEL FAILED"
	} else {
		p.banner = fmt.Sprintf("LEVEL COMPLETE  %d", snap.Score)
		if _, err := g.store.CompleteLevel(g.ctx, p.id, g.maxLevel()); err != nil {
			g.logger.Error("complete level", "err", err)
		}
	}
	items := outcomeItems(o, next <= g.maxLevel(), outcomeActions{
		next: func() {
			if err := g.startLevel(next); err != nil {
				g.logger.Error("start level", "level", next, "err", err)
				g.showSelect()
			}
		},
		retry:  p.restart,
		levels: g.showSelect,
		finish: g.showComplete,
	})
	p.popup = newMenuUI(top, nil, items, g.queue)
}

type outcomeActions struct {
	next, retry, levels, finish func()
}

// outcomeItems lists the popup buttons for a finished level. A win on the
// last level only offers Finish.
func outcomeItems(o session.Outcome, hasNext bool, a outcomeActions) []menuItem {
	switch {
	case o == session.OutcomeLost:
		return []menuItem{
			{label: "Retry", enabled: true, action: a.retry},
			{label: "Levels", enabled: true, action: a.levels},
		}
	case !hasNext:
		return []menuItem{
			{label: "Finish", enabled: true, action: a.finish},
		}
	}
	return []menuItem{
		{label: "Next Level", enabled: true, action: a.next},
		{label: "Retry", enabled: true, action: a.retry},
		{label: "Levels", enabled: true, action: a.levels},
	}
}

func (p *play) restart() {
	if err := p.sess.Reset(); err != nil {
		p.g.logger.Error("reset level", "err", err)
		p.g.showSelect()
		return
	}
	p.recorded = false
	p.popup = nil
	p.banner = ""
	p.g.clearOverlayText()
}

func (p *play) teardown() {
	p.sess.Teardown()
}

func (p *play) draw(screen *ebiten.Image, offX, offY float64) {
	g := p.g
	g.render.Draw(p.sess.World(), screen, offX, offY)

	if p.sess.Phase() == session.PhaseAiming {
		pts := p.sess.Trajectory(trajectoryPoints)
		vs := make([]cp.Vector, len(pts))
		for i, pt := range pts {
			vs[i] = cp.Vector{X: pt.X, Y: pt.Y}
		}
		g.render.DrawTrajectory(screen, vs, offX, offY)
	}
	if g.debug {
		p.sess.Physics().DrawDebug(p.sess.World(), screen, offX, offY)
	}

	p.drawHUD(screen)

	if p.banner != "" {
		w, h := float32(g.cfg.Window.Width), float32(g.cfg.Window.Height)
		vector.DrawFilledRect(screen, 0, 0, w, h, color.NRGBA{A: 0x80}, false)
		drawTitle(screen, p.banner, float64(w)/2, float64(h)/2-90, 4)
		if p.popup != nil {
			p.popup.Draw(screen)
		}
	}
}

func (p *play) drawHUD(screen *ebiten.Image) {
	g := p.g
	snap := p.sess.State()
	lines := []string{
		fmt.Sprintf("Level %d: %s", p.id, p.name),
		fmt.Sprintf("Birds: %d", snap.Waiting),
		fmt.Sprintf("Pigs: %d", snap.TargetsRemaining),
		fmt.Sprintf("Score: %d", snap.Score),
	}
	switch snap.Ability {
	case levels.AbilitySpeed, levels.AbilityBlast:
		hint := fmt.Sprintf("Ability: %s", snap.Ability)
		if snap.AbilityReady {
			hint += "  [SPACE / click]"
		}
		lines = append(lines, hint)
	}
	for i, l := range lines {
		drawTextAt(screen, l, 16, 14+float64(i)*28, 2, colorText)
	}

	status := "R: restart  ESC: levels  M: mute"
	if g.cues.Muted() {
		status += "  (muted)"
	}
	if g.debug {
		status += fmt.Sprintf("  phase=%s bodies=%d tps=%.0f", snap.Phase, p.sess.Physics().BodyCount(), ebiten.ActualTPS())
	}
	drawTextAt(screen, status, 16, float64(g.cfg.Window.Height)-28, 1, colorText)
}
