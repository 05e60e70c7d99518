package session

import (
	"math"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/system"
	"github.com/milk9111/slingshot/levels"
)

// AbilityBehavior is the level's special action, chosen once per session.
type AbilityBehavior interface {
	Kind() levels.Ability
	// Trigger runs the ability on the active projectile and reports whether
	// anything happened.
	Trigger(s *Session) bool
	// Boosts reports whether a projectile that used this ability scales
	// damage.
	Boosts() bool
}

func newAbility(kind levels.Ability, t levels.Tuning) AbilityBehavior {
	switch kind {
	case levels.AbilitySpeed:
		return speedAbility{tuning: t.Speed}
	case levels.AbilityBlast:
		return blastAbility{tuning: t.Blast}
	default:
		return noAbility{}
	}
}

type noAbility struct{}

func (noAbility) Kind() levels.Ability { return levels.AbilityNone }

func (noAbility) Trigger(*Session) bool { return false }

func (noAbility) Boosts() bool { return false }

type speedAbility struct {
	tuning levels.SpeedTuning
}

func (speedAbility) Kind() levels.Ability { return levels.AbilitySpeed }

func (speedAbility) Boosts() bool { return true }

func (a speedAbility) Trigger(s *Session) bool {
	e, ge, ok := s.launchedProjectile()
	if !ok || ge.HasCollided() || ge.HasUsedAbility() {
		return false
	}
	ge.MarkUsedAbility()

	if vis, ok := ecs.Get(s.world, e, component.VisualComponent.Kind()); ok {
		vis.State = component.VisualBoosted
		vis.ScaleX, vis.ScaleY = a.tuning.ScaleX, a.tuning.ScaleY
	}
	s.physics.SetDensity(s.world, e, a.tuning.Density)
	s.physics.SetMotion(e, system.MotionBallistic, 0)

	vx, vy, _ := s.physics.Velocity(e)
	angle := 0.0
	if math.Hypot(vx, vy) >= 1 {
		angle = math.Atan2(vy, vx)
	}
	s.physics.SetVelocity(e, math.Cos(angle)*a.tuning.Speed, math.Sin(angle)*a.tuning.Speed)

	s.logger.Debug("speed boost", "entity", e, "angle", angle)
	return true
}

type blastAbility struct {
	tuning levels.BlastTuning
}

func (blastAbility) Kind() levels.Ability { return levels.AbilityBlast }

func (blastAbility) Boosts() bool { return false }

// Trigger charges the blast while the projectile is still in free flight.
// The blast centres on where the projectile was when triggered, not where it
// is at detonation.
func (a blastAbility) Trigger(s *Session) bool {
	e, ge, ok := s.launchedProjectile()
	if !ok || ge.HasCollided() || ge.HasUsedAbility() || s.turn.phase() != PhaseLaunched {
		return false
	}
	ge.MarkUsedAbility()

	if vis, ok := ecs.Get(s.world, e, component.VisualComponent.Kind()); ok {
		vis.State = component.VisualCharging
	}
	x, y, _ := s.physics.Position(e)
	s.tasks.Push(Task{Kind: TaskBlast, Entity: e, FireAt: s.now + a.tuning.ChargeDelay, X: x, Y: y})

	s.logger.Debug("blast charging", "entity", e, "x", x, "y", y)
	return true
}

// detonate resolves a charged blast at its recorded centre.
func (a blastAbility) detonate(s *Session, t Task) {
	s.emit(Signal{Kind: SignalText, Text: "BOOM!", X: t.X, Y: t.Y - 50})
	s.cue(CueExplosion)
	s.emit(Signal{Kind: SignalShake, Duration: blastShakeDuration, Magnitude: blastShakeMagnitude})

	radius := a.tuning.Radius
	hits := 0
	for _, e := range s.physics.Within(t.X, t.Y, radius) {
		if e == t.Entity {
			continue
		}
		ge, ok := ecs.Get(s.world, e, component.GameEntityComponent.Kind())
		if !ok {
			continue
		}
		switch ge.Kind {
		case component.KindTarget, component.KindBlock:
		default:
			continue
		}
		body, ok := ecs.Get(s.world, e, component.PhysicsBodyComponent.Kind())
		if !ok || body.Static || body.NoCollide {
			continue
		}

		x, y, _ := s.physics.Position(e)
		dx, dy := x-t.X, y-t.Y
		d := math.Hypot(dx, dy)
		if d > 0 {
			mag := a.tuning.Impulse * (1 - d/radius)
			s.physics.ApplyImpulse(e, dx/d*mag, dy/d*mag)
		}

		switch {
		case ge.Kind == component.KindTarget && ge.Boss:
			s.hitBoss(e, ge, a.tuning.BlockDamage)
		case ge.Kind == component.KindTarget:
			s.killTarget(e, ge)
		case ge.Kind == component.KindBlock:
			s.damageBlock(e, ge, a.tuning.BlockDamage)
		}
		hits++
	}
	s.logger.Debug("blast", "x", t.X, "y", t.Y, "hits", hits)

	s.removeProjectile(t.Entity)
	if t.Entity == s.active {
		s.active = 0
		s.turn.fire(eventResolve)
		s.afterResolve(a.tuning.ReloadDelay)
	}
}
