// Package game is the ebiten front-end: menus, the level screen and the
// glue between player input, the session and its signals.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/slingshot/assets"
	"github.com/milk9111/slingshot/config"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/system"
	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
	"github.com/milk9111/slingshot/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenSelect
	screenLevel
	screenComplete
)

func (s screen) String() string {
	switch s {
	case screenSelect:
		return "select"
	case screenLevel:
		return "level"
	case screenComplete:
		return "complete"
	default:
		return "menu"
	}
}

var colorSky = color.NRGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF}

// Options configures a Game.
type Options struct {
	Config config.Config
	Store  *storage.Store
	Logger *log.Logger
	// Level opens that level directly when > 0 and unlocked.
	Level int
}

type Game struct {
	cfg    config.Config
	store  *storage.Store
	logger *log.Logger
	ctx    context.Context

	cues    *assets.CuePlayer
	watcher *prefabs.Watcher

	// overlay holds presentation-only entities: the input singleton, the
	// camera and floating text. It outlives level sessions.
	overlay *ecs.World
	systems *ecs.Scheduler
	input   ecs.Entity
	camera  ecs.Entity
	render  *system.RenderSystem

	// ui is the menu panel for every screen but the level, which keeps
	// its own popup. pending is a clicked action run after the UI update.
	ui      *ebitenui.UI
	pending func()

	screen   screen
	ids      []int
	unlocked []int
	best     map[int]int
	play     *play
	debug    bool
	quit     bool
}

func New(opts Options) (*Game, error) {
	if opts.Store == nil {
		return nil, errors.New("game: nil store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	g := &Game{
		cfg:     opts.Config,
		store:   opts.Store,
		logger:  logger.WithPrefix("game"),
		ctx:     context.Background(),
		overlay: ecs.NewWorld(),
		render:  system.NewRenderSystem(),
		ids:     levels.IDs(),
		best:    make(map[int]int),
	}
	g.cues = assets.NewCuePlayer(logger, g.cfg.Audio.Volume, g.cfg.Audio.Mute)
	g.systems = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewCameraSystem(1),
		system.FloatingTextSystem{},
		system.NewTTLSystem(nil),
	)

	g.input = ecs.CreateEntity(g.overlay)
	if err := ecs.Add(g.overlay, g.input, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return nil, fmt.Errorf("game: input: %w", err)
	}
	g.camera = ecs.CreateEntity(g.overlay)
	if err := ecs.Add(g.overlay, g.camera, component.CameraComponent.Kind(), &component.Camera{}); err != nil {
		return nil, fmt.Errorf("game: camera: %w", err)
	}

	if g.cfg.Content.HotReload {
		w, err := prefabs.NewWatcher(g.cfg.Content.LevelsDir, g.cfg.Content.PrefabsDir)
		switch {
		case err != nil:
			g.logger.Warn("hot reload disabled", "err", err)
		case w == nil:
			g.logger.Warn("hot reload needs content.levels_dir or content.prefabs_dir")
		default:
			g.watcher = w
			g.logger.Info("hot reload enabled", "levels", g.cfg.Content.LevelsDir, "prefabs", g.cfg.Content.PrefabsDir)
		}
	}

	if err := g.refreshProgress(); err != nil {
		return nil, err
	}
	g.showMenu()
	if opts.Level > 0 {
		if !slices.Contains(g.unlocked, opts.Level) {
			g.logger.Warn("level locked", "level", opts.Level)
		} else if err := g.startLevel(opts.Level); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) viewport() levels.Viewport {
	return levels.Viewport{Width: float64(g.cfg.Window.Width), Height: float64(g.cfg.Window.Height)}
}

func (g *Game) refreshProgress() error {
	unlocked, err := g.store.UnlockedLevels(g.ctx)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.unlocked = unlocked
	for _, id := range g.ids {
		score, err := g.store.BestScore(g.ctx, id)
		if err != nil {
			return fmt.Errorf("game: %w", err)
		}
		g.best[id] = score
	}
	return nil
}

func (g *Game) inputState() *component.Input {
	in, ok := ecs.Get(g.overlay, g.input, component.InputComponent.Kind())
	if !ok {
		return &component.Input{}
	}
	return in
}

func (g *Game) cameraOffset() (float64, float64) {
	cam, ok := ecs.Get(g.overlay, g.camera, component.CameraComponent.Kind())
	if !ok {
		return 0, 0
	}
	return cam.OffsetX, cam.OffsetY
}

func (g *Game) Update() error {
	g.systems.Update(g.overlay)
	in := g.inputState()

	if in.Mute {
		g.logger.Debug("mute", "muted", g.cues.ToggleMute())
	}
	if in.Debug {
		g.debug = !g.debug
	}
	g.pollReload()

	switch g.screen {
	case screenLevel:
		if err := g.play.update(in); err != nil {
			return err
		}
	default:
		if in.Back && g.screen != screenMenu {
			g.showMenu()
			break
		}
		if g.ui != nil {
			g.ui.Update()
		}
	}
	g.runPending()

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)
	offX, offY := g.cameraOffset()

	switch g.screen {
	case screenLevel:
		g.play.draw(screen, offX, offY)
	case screenMenu:
		drawTitle(screen, "SLINGSHOT", float64(g.cfg.Window.Width)/2, 140, 5)
	case screenSelect:
		drawTitle(screen, "SELECT LEVEL", float64(g.cfg.Window.Width)/2, 120, 4)
	case screenComplete:
		drawTitle(screen, "ALL LEVELS COMPLETE!", float64(g.cfg.Window.Width)/2, 160, 4)
	}

	if g.screen != screenLevel && g.ui != nil {
		g.ui.Draw(screen)
	}
	g.render.DrawFloatingText(g.overlay, screen, assets.Face, offX, offY)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Close stops the watcher and releases audio.
func (g *Game) Close() {
	if g.play != nil {
		g.play.teardown()
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.logger.Warn("close watcher", "err", err)
		}
	}
	g.cues.Close()
}

func (g *Game) clearOverlayText() {
	ecs.ForEach(g.overlay, component.FloatingTextComponent.Kind(), func(e ecs.Entity, _ *component.FloatingText) {
		ecs.DestroyEntity(g.overlay, e)
	})
}

func (g *Game) leaveLevel() {
	if g.play != nil {
		g.play.teardown()
		g.play = nil
	}
	g.clearOverlayText()
}

func (g *Game) showMenu() {
	g.leaveLevel()
	g.screen = screenMenu
	g.ui = newMenuUI(230, nil, []menuItem{
		{label: "Play", enabled: true, action: g.showSelect},
		{label: "Reset Progress", enabled: true, action: g.resetProgress},
		{label: "Quit", enabled: true, action: func() { g.quit = true }},
	}, g.queue)
}

func (g *Game) showSelect() {
	g.leaveLevel()
	if err := g.refreshProgress(); err != nil {
		g.logger.Error("load progress", "err", err)
	}
	g.screen = screenSelect
	items := levelItems(g.ids, g.unlocked, g.best, func(id int) {
		if err := g.startLevel(id); err != nil {
			g.logger.Error("start level", "level", id, "err", err)
		}
	})
	items = append(items, menuItem{label: "Back", enabled: true, action: g.showMenu})
	g.ui = newMenuUI(170, nil, items, g.queue)
}

func (g *Game) showComplete() {
	g.leaveLevel()
	if err := g.refreshProgress(); err != nil {
		g.logger.Error("load progress", "err", err)
	}
	g.screen = screenComplete
	total := 0
	for _, s := range g.best {
		total += s
	}
	g.ui = newMenuUI(240, []string{fmt.Sprintf("Total best score: %d", total)}, []menuItem{
		{label: "Menu", enabled: true, action: g.showMenu},
	}, g.queue)
}

// queue defers a button action until the UI update that fired it is done.
func (g *Game) queue(action func()) {
	g.pending = action
}

func (g *Game) runPending() {
	if a := g.pending; a != nil {
		g.pending = nil
		a()
	}
}

func (g *Game) resetProgress() {
	if err := g.store.ResetProgress(g.ctx); err != nil {
		g.logger.Error("reset progress", "err", err)
		return
	}
	g.logger.Info("progress reset")
	if err := g.refreshProgress(); err != nil {
		g.logger.Error("load progress", "err", err)
	}
	g.spawnText("Progress reset", float64(g.cfg.Window.Width)/2, 220, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, 2)
}

func (g *Game) startLevel(id int) error {
	g.leaveLevel()
	p, err := newPlay(g, id)
	if err != nil {
		return err
	}
	g.play = p
	g.screen = screenLevel
	g.ui = nil
	return nil
}

// maxLevel is the highest bundled level id.
func (g *Game) maxLevel() int {
	if len(g.ids) == 0 {
		return 0
	}
	return g.ids[len(g.ids)-1]
}

// pollReload restarts the current level when an override file changes.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case paths, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Info("content changed", "files", len(paths), "first", paths[0])
			if g.screen == screenLevel && g.play != nil {
				if err := g.startLevel(g.play.id); err != nil {
					g.logger.Error("reload level", "err", err)
					g.showSelect()
				}
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("watch", "err", err)
		default:
			return
		}
	}
}
