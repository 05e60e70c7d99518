package session

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/entity"
	"github.com/milk9111/slingshot/ecs/system"
	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
)

// Frame is one physics frame of session time.
const Frame = time.Second / 60

const (
	// grabSlack widens the grab area around the loaded projectile.
	grabSlack = 10
	// outOfBounds is how far past the viewport a projectile may fly before
	// it counts as settled.
	outOfBounds = 200
)

var (
	ErrStarted  = errors.New("session: already started")
	ErrTornDown = errors.New("session: torn down")
)

// Option configures a Session.
type Option func(*Session)

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger.WithPrefix("session")
		}
	}
}

func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// WithPrefabs replaces the embedded prefab library.
func WithPrefabs(lib prefabs.Library) Option {
	return func(s *Session) { s.lib = lib }
}

// WithSeed seeds the cosmetic randomness.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.seed = seed }
}

// Snapshot is a read-only view of the session state. Waiting counts the
// projectiles not yet placed on the launcher.
type Snapshot struct {
	Level                int
	ProjectilesRemaining int
	Waiting              int
	TargetsRemaining     int
	Score                int
	Active               ecs.Entity
	Phase                Phase
	Outcome              Outcome
	Ability              levels.Ability
	AbilityReady         bool
	Elapsed              time.Duration
}

// Session runs one level: it owns the world, the physics space, the task
// queue and the turn state. It is not safe for concurrent use.
type Session struct {
	bp       *levels.Resolved
	lib      prefabs.Library
	logger   *log.Logger
	listener Listener
	seed     uint64
	rng      *rand.Rand

	world   *ecs.World
	physics *system.PhysicsSystem
	fade    *system.FadeSystem
	ttl     *system.TTLSystem
	post    *ecs.Scheduler

	turn    *turnSequencer
	tasks   TaskQueue
	ability AbilityBehavior
	board   scoreboard

	now      time.Duration
	started  bool
	torn     bool
	launcher ecs.Entity

	projectiles  int
	targets      int
	active       ecs.Entity
	released     bool
	detached     bool
	aim          levels.Point
	loadPending  bool
	scoring      int
	winScheduled bool

	journal []Signal
}

// New prepares a session for r. Nothing is built until Start.
func New(r *levels.Resolved, opts ...Option) *Session {
	s := &Session{
		bp:     r,
		seed:   1,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "session", Level: log.InfoLevel}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lib == nil {
		s.lib = prefabs.MustLoadLibrary()
	}

	s.world = ecs.NewWorld()
	s.physics = system.NewPhysicsSystem(system.Gravity)
	s.ttl = system.NewTTLSystem(s.physics)
	if r != nil {
		s.fade = system.NewFadeSystem(s.physics, r.Tuning.FadeRate)
		s.ability = newAbility(r.Ability, r.Tuning)
	} else {
		s.fade = system.NewFadeSystem(s.physics, 0)
		s.ability = noAbility{}
	}
	s.post = ecs.NewScheduler(s.fade, s.ttl)
	s.turn = newTurnSequencer(s.raiseLoss, func(from, to string) {
		s.logger.Debug("turn", "from", from, "to", to)
	})
	return s
}

// Start materializes the level and schedules the first load.
func (s *Session) Start() error {
	if s.torn {
		return ErrTornDown
	}
	if s.started {
		return ErrStarted
	}
	if s.bp == nil {
		return fmt.Errorf("session: start: %w", entity.ErrNilBlueprint)
	}

	s.rng = rand.New(rand.NewPCG(s.seed, s.seed))
	lvl, err := entity.BuildLevel(s.world, s.physics, s.bp, s.lib)
	if err != nil {
		return fmt.Errorf("session: start: %w", err)
	}
	s.launcher = lvl.Launcher
	s.projectiles = s.bp.Projectiles
	s.targets = len(lvl.Targets)
	s.started = true

	s.logger.Info("level started", "level", s.bp.ID, "name", s.bp.Name, "projectiles", s.projectiles, "targets", s.targets, "ability", s.ability.Kind())
	s.scheduleLoad(s.bp.Tuning.FirstLoadDelay)
	return nil
}

// Step advances session time by dt: due tasks, physics, contacts, then the
// fade and particle systems.
func (s *Session) Step(dt time.Duration) {
	if !s.started || dt <= 0 {
		return
	}
	s.now += dt

	for {
		t, ok := s.tasks.PopDue(s.now)
		if !ok {
			break
		}
		s.run(t)
	}

	frames := float64(dt) / float64(Frame)
	steps := int(math.Ceil(frames))
	for i := 0; i < steps; i++ {
		s.holdAim()
		s.physics.SetFrames(frames / float64(steps))
		s.physics.Update(s.world)
	}
	s.holdAim()
	for _, c := range s.physics.Contacts() {
		s.resolveContact(c)
	}
	s.checkBounds()

	s.fade.SetFrames(frames)
	s.ttl.SetFrames(frames)
	s.post.Update(s.world)
}

func (s *Session) run(t Task) {
	s.logger.Debug("task", "kind", t.Kind, "entity", t.Entity, "at", s.now)
	switch t.Kind {
	case TaskLoad:
		s.load()
	case TaskDetach:
		s.detach(t.Entity)
	case TaskSettle:
		s.resolveSettled(t.Entity)
	case TaskRemoveTarget:
		s.removeTarget(t)
	case TaskScoreTarget:
		s.scoreTarget(t)
	case TaskWinBonus:
		s.award(t.Value, s.bp.Viewport.Width/2, s.bp.Viewport.Height/2)
	case TaskWin:
		s.raiseOutcome(OutcomeWon)
	case TaskBlast:
		if b, ok := s.ability.(blastAbility); ok {
			b.detonate(s, t)
		}
	}
}

// scheduleLoad queues the next load unless one is already pending.
func (s *Session) scheduleLoad(delay time.Duration) bool {
	if s.loadPending {
		return false
	}
	s.loadPending = true
	s.tasks.Push(Task{Kind: TaskLoad, FireAt: s.now + delay})
	return true
}

func (s *Session) load() {
	s.loadPending = false
	if s.board.outcome != OutcomeNone || s.targets == 0 || s.projectiles <= 0 || s.active != 0 {
		return
	}
	if !s.turn.machine.Can(eventLoad) {
		return
	}
	e, err := entity.BuildProjectile(s.world, s.physics, s.bp, s.lib, s.launcher)
	if err != nil {
		s.logger.Error("load projectile", "err", err)
		return
	}
	s.active = e
	s.released = false
	s.detached = false
	s.turn.fire(eventLoad)
	s.logger.Debug("projectile loaded", "entity", e, "remaining", s.projectiles)
}

func (s *Session) detach(e ecs.Entity) {
	if l, ok := ecs.Get(s.world, s.launcher, component.LauncherComponent.Kind()); ok {
		s.physics.Detach(l.Spring)
		l.Spring = nil
	}
	if e == s.active {
		s.detached = true
	}
	if s.projectiles > 0 {
		s.projectiles--
	}
	s.logger.Debug("projectile detached", "entity", e, "remaining", s.projectiles)
}

// resolveSettled ends the turn of a settled projectile.
func (s *Session) resolveSettled(e ecs.Entity) {
	s.removeProjectile(e)
	if e != s.active {
		return
	}
	s.active = 0
	s.turn.fire(eventResolve)
	s.afterResolve(s.bp.Tuning.NextTurnDelay)
}

// afterResolve decides what follows an ended turn.
func (s *Session) afterResolve(delay time.Duration) {
	switch {
	case s.targets > 0 && s.projectiles > 0:
		s.scheduleLoad(delay)
	case s.targets > 0:
		s.turn.fire(eventExhaust)
	}
}

func (s *Session) removeProjectile(e ecs.Entity) {
	if e == s.active {
		if l, ok := ecs.Get(s.world, s.launcher, component.LauncherComponent.Kind()); ok && l.Spring != nil {
			s.physics.Detach(l.Spring)
			l.Spring = nil
		}
	}
	if !ecs.IsAlive(s.world, e) {
		return
	}
	if vis, ok := ecs.Get(s.world, e, component.VisualComponent.Kind()); ok {
		vis.Visible = false
	}
	s.physics.Remove(s.world, e)
	ecs.DestroyEntity(s.world, e)
}

func (s *Session) removeTarget(t Task) {
	if ecs.IsAlive(s.world, t.Entity) {
		if vis, ok := ecs.Get(s.world, t.Entity, component.VisualComponent.Kind()); ok {
			vis.Visible = false
		}
		s.physics.Remove(s.world, t.Entity)
		ecs.DestroyEntity(s.world, t.Entity)
	}
	s.burst(t.X, t.Y, entity.ColorTargetBurst)
	s.cue(CueExplosion)

	s.scoring++
	s.tasks.Push(Task{Kind: TaskScoreTarget, Entity: t.Entity, FireAt: s.now + s.bp.Tuning.ScoreDelay, Value: t.Value, X: t.X, Y: t.Y})
}

func (s *Session) scoreTarget(t Task) {
	s.scoring--
	s.award(t.Value, t.X, t.Y)
	if s.targets > 0 || s.scoring > 0 || s.winScheduled {
		return
	}
	s.winScheduled = true
	if bonus := s.winBonus(); bonus > 0 {
		s.tasks.Push(Task{Kind: TaskWinBonus, FireAt: s.now + s.bp.Tuning.BonusDelay, Value: bonus})
	}
	s.tasks.Push(Task{Kind: TaskWin, FireAt: s.now + s.bp.Tuning.WinDelay})
}

// checkBounds settles a projectile that left the play area without touching
// anything.
func (s *Session) checkBounds() {
	e, ge, ok := s.launchedProjectile()
	if !ok || ge.HasCollided() {
		return
	}
	x, y, _ := s.physics.Position(e)
	vp := s.bp.Viewport
	if x < -outOfBounds || x > vp.Width+outOfBounds || y < -outOfBounds || y > vp.Height+outOfBounds {
		s.settle(e, ge)
	}
}

// launchedProjectile returns the active projectile once the spring has let
// go of it.
func (s *Session) launchedProjectile() (ecs.Entity, *component.GameEntity, bool) {
	if s.active == 0 || !s.released || !s.detached {
		return 0, nil, false
	}
	ge, ok := ecs.Get(s.world, s.active, component.GameEntityComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return s.active, ge, true
}

// Grab picks up the loaded projectile if (x, y) is on it.
func (s *Session) Grab(x, y float64) bool {
	if s.turn.phase() != PhaseLoaded {
		return false
	}
	px, py, ok := s.physics.Position(s.active)
	if !ok {
		return false
	}
	radius := 0.0
	if body, ok := ecs.Get(s.world, s.active, component.PhysicsBodyComponent.Kind()); ok {
		radius = body.Radius
	}
	if math.Hypot(x-px, y-py) > radius+grabSlack {
		return false
	}
	if !s.turn.fire(eventAim) {
		return false
	}
	s.aim = levels.Point{X: px, Y: py}
	return true
}

// Drag moves the grabbed projectile, keeping it within reach of the anchor.
func (s *Session) Drag(x, y float64) bool {
	if s.turn.phase() != PhaseAiming {
		return false
	}
	l, ok := ecs.Get(s.world, s.launcher, component.LauncherComponent.Kind())
	if !ok {
		return false
	}
	dx, dy := x-l.X, y-l.Y
	if d := math.Hypot(dx, dy); l.MaxDrag > 0 && d > l.MaxDrag {
		dx, dy = dx/d*l.MaxDrag, dy/d*l.MaxDrag
	}
	s.aim = levels.Point{X: l.X + dx, Y: l.Y + dy}
	s.holdAim()
	return true
}

// holdAim pins a grabbed projectile to the aim point.
func (s *Session) holdAim() {
	if s.turn.phase() != PhaseAiming {
		return
	}
	s.physics.SetPosition(s.active, s.aim.X, s.aim.Y)
	s.physics.SetVelocity(s.active, 0, 0)
	if tr, ok := ecs.Get(s.world, s.active, component.TransformComponent.Kind()); ok {
		tr.X, tr.Y = s.aim.X, s.aim.Y
	}
}

// Release launches the grabbed projectile toward the anchor. The spring lets
// go after the release delay.
func (s *Session) Release() bool {
	if s.turn.phase() != PhaseAiming {
		return false
	}
	l, ok := ecs.Get(s.world, s.launcher, component.LauncherComponent.Kind())
	if !ok {
		return false
	}
	vx, vy := (l.X-s.aim.X)*l.Power, (l.Y-s.aim.Y)*l.Power
	s.physics.SetPosition(s.active, s.aim.X, s.aim.Y)
	s.physics.SetVelocity(s.active, vx, vy)
	s.released = true
	s.turn.fire(eventRelease)
	s.tasks.Push(Task{Kind: TaskDetach, Entity: s.active, FireAt: s.now + s.bp.Tuning.ReleaseDelay})
	s.cue(CueSlingshot)
	s.logger.Debug("projectile released", "entity", s.active, "vx", vx, "vy", vy)
	return true
}

// TriggerAbility runs the level's ability on the flying projectile.
func (s *Session) TriggerAbility() bool {
	if !s.started || s.board.outcome != OutcomeNone {
		return false
	}
	return s.ability.Trigger(s)
}

// Trajectory predicts n frames of the launch arc from the current aim. It is
// empty unless a projectile is being aimed.
func (s *Session) Trajectory(n int) []levels.Point {
	if s.turn.phase() != PhaseAiming || n <= 0 {
		return nil
	}
	l, ok := ecs.Get(s.world, s.launcher, component.LauncherComponent.Kind())
	if !ok {
		return nil
	}
	_, drag := s.physics.Motion(s.active)
	x, y := s.aim.X, s.aim.Y
	vx, vy := (l.X-x)*l.Power, (l.Y-y)*l.Power

	points := make([]levels.Point, 0, n)
	for i := 0; i < n; i++ {
		vx *= 1 - drag
		vy = vy*(1-drag) + system.Gravity
		x += vx
		y += vy
		points = append(points, levels.Point{X: x, Y: y})
	}
	return points
}

// Reset drops everything the session built and starts the level again.
func (s *Session) Reset() error {
	s.clear()
	s.torn = false
	return s.Start()
}

// Teardown releases the world and the physics space. The session is unusable
// afterwards until Reset.
func (s *Session) Teardown() {
	s.clear()
	s.torn = true
}

func (s *Session) clear() {
	s.tasks.Clear()
	s.physics.Reset()
	s.world.Clear()
	s.turn.reset()

	s.board = scoreboard{}
	s.now = 0
	s.started = false
	s.launcher = 0
	s.projectiles = 0
	s.targets = 0
	s.active = 0
	s.released = false
	s.detached = false
	s.aim = levels.Point{}
	s.loadPending = false
	s.scoring = 0
	s.winScheduled = false
	s.journal = nil
}

func (s *Session) State() Snapshot {
	waiting := s.projectiles
	if s.active != 0 && !s.detached && waiting > 0 {
		waiting--
	}
	snap := Snapshot{
		ProjectilesRemaining: s.projectiles,
		Waiting:              waiting,
		TargetsRemaining:     s.targets,
		Score:                s.board.score,
		Active:               s.active,
		Phase:                s.turn.phase(),
		Outcome:              s.board.outcome,
		Ability:              s.ability.Kind(),
		Elapsed:              s.now,
	}
	if s.bp != nil {
		snap.Level = s.bp.ID
	}
	if _, ge, ok := s.launchedProjectile(); ok && s.ability.Kind() != levels.AbilityNone {
		snap.AbilityReady = !ge.HasUsedAbility() && !(s.ability.Boosts() && ge.HasCollided())
	}
	return snap
}

func (s *Session) Phase() Phase { return s.turn.phase() }

func (s *Session) Outcome() Outcome { return s.board.outcome }

// World and Physics are for reading by the renderer.
func (s *Session) World() *ecs.World { return s.world }

func (s *Session) Physics() *system.PhysicsSystem { return s.physics }

func (s *Session) Blueprint() *levels.Resolved { return s.bp }

func (s *Session) Launcher() ecs.Entity { return s.launcher }

// Journal returns a copy of every signal raised since the last start.
func (s *Session) Journal() []Signal {
	out := make([]Signal, len(s.journal))
	copy(out, s.journal)
	return out
}
