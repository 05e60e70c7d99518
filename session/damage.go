package session

import (
	"image/color"
	"math"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/entity"
	"github.com/milk9111/slingshot/ecs/system"
)

const (
	damagedOpacity = 0.7
	bossFadePerHit = 0.5
)

// resolveContact turns one collision-start into game events. Each body in the
// pair is judged in its own role with the other as the attacker.
func (s *Session) resolveContact(c system.Contact) {
	geA, okA := ecs.Get(s.world, c.A, component.GameEntityComponent.Kind())
	geB, okB := ecs.Get(s.world, c.B, component.GameEntityComponent.Kind())
	if !okA || !okB {
		return
	}

	// Settlement ignores the impact floor: any first touch counts.
	s.settle(c.A, geA)
	s.settle(c.B, geB)

	t := s.bp.Tuning
	if c.Impact < t.ImpactFloor {
		return
	}
	if s.now < t.StabilityGrace {
		return
	}

	mult := 1.0
	if (s.boosted(geA) || s.boosted(geB)) && t.Speed.Multiplier > 0 {
		mult = t.Speed.Multiplier
	}

	s.damage(c.A, geA, geB, c.Impact, mult)
	s.damage(c.B, geB, geA, c.Impact, mult)
}

func (s *Session) boosted(ge *component.GameEntity) bool {
	return ge.Kind == component.KindProjectile && ge.HasUsedAbility() && s.ability.Boosts()
}

// settle handles the active projectile's first contact after release.
func (s *Session) settle(e ecs.Entity, ge *component.GameEntity) {
	if ge.Kind != component.KindProjectile || e != s.active || !s.released || ge.HasCollided() {
		return
	}
	ge.MarkCollided()
	s.physics.SetMotion(e, system.MotionNormal, s.bp.Tuning.PostImpactDrag)
	if vis, ok := ecs.Get(s.world, e, component.VisualComponent.Kind()); ok && vis.State == component.VisualBoosted {
		vis.State = component.VisualAlive
		vis.ScaleX, vis.ScaleY = 1, 1
	}
	s.turn.fire(eventCollide)
	s.tasks.Push(Task{Kind: TaskSettle, Entity: e, FireAt: s.now + s.bp.Tuning.SettleDelay})
	s.logger.Debug("projectile settled", "entity", e)
}

func (s *Session) damage(victim ecs.Entity, ge, attacker *component.GameEntity, impact, mult float64) {
	switch ge.Kind {
	case component.KindTarget, component.KindBlock:
	default:
		return
	}
	if ge.Spent() {
		return
	}
	if ge.Debounced(s.now, s.bp.Tuning.Debounce) {
		return
	}
	ge.RecordHit(s.now)

	if ge.Kind == component.KindTarget {
		s.damageTarget(victim, ge, attacker, impact*mult)
		return
	}

	threshold := ge.DamageThreshold
	if mult > 1 {
		threshold = s.bp.Tuning.Speed.BlockThreshold
	}
	if impact > threshold {
		s.damageBlock(victim, ge, int(mult))
	}
}

func (s *Session) attackerMultiplier(attacker *component.GameEntity) float64 {
	if attacker.Kind != component.KindBlock {
		return 1
	}
	m := s.bp.Tuning.BlockMultiplier
	if attacker.Heavy {
		m = s.bp.Tuning.HeavyMultiplier
	}
	if m <= 0 {
		return 1
	}
	return m
}

func (s *Session) damageTarget(e ecs.Entity, ge, attacker *component.GameEntity, impact float64) {
	force := impact * s.attackerMultiplier(attacker)

	if ge.Boss {
		if force > ge.DamageThreshold {
			s.hitBoss(e, ge, 1)
		}
		return
	}

	threshold := s.bp.Tuning.TargetThreshold
	if attacker.Kind == component.KindBlock {
		threshold = s.bp.Tuning.TargetBlockThreshold
	}
	if force > threshold {
		s.killTarget(e, ge)
	}
}

// hitBoss adds hits to a boss target, which dies at its limit.
func (s *Session) hitBoss(e ecs.Entity, ge *component.GameEntity, hits int) {
	if ge.IsDying() || hits <= 0 {
		return
	}
	ge.HitCount += hits
	if vis, ok := ecs.Get(s.world, e, component.VisualComponent.Kind()); ok && ge.MaxHits > 0 {
		vis.Opacity = math.Max(0, 1-float64(ge.HitCount)/float64(ge.MaxHits)*bossFadePerHit)
	}
	s.logger.Debug("boss hit", "entity", e, "hits", ge.HitCount, "max", ge.MaxHits)
	if ge.HitCount >= ge.MaxHits {
		s.killTarget(e, ge)
	}
}

// killTarget starts the death sequence: frozen ghost now, removal and score
// later.
func (s *Session) killTarget(e ecs.Entity, ge *component.GameEntity) {
	if ge.IsDying() {
		return
	}
	ge.MarkDying()
	s.physics.Freeze(s.world, e)
	s.physics.SetGhost(s.world, e)
	if vis, ok := ecs.Get(s.world, e, component.VisualComponent.Kind()); ok {
		vis.State = component.VisualDying
	}
	if s.targets > 0 {
		s.targets--
	}

	x, y, _ := s.physics.Position(e)
	s.tasks.Push(Task{Kind: TaskRemoveTarget, Entity: e, FireAt: s.now + s.bp.Tuning.RemoveDelay, Value: ge.Points, X: x, Y: y})
	s.logger.Debug("target killed", "entity", e, "boss", ge.Boss, "remaining", s.targets)
}

// damageBlock adds hits to a block and breaks it at its limit.
func (s *Session) damageBlock(e ecs.Entity, ge *component.GameEntity, hits int) {
	if ge.Spent() || hits <= 0 {
		return
	}
	ge.HitCount += hits
	s.cue(CueWoodSmash)

	vis, _ := ecs.Get(s.world, e, component.VisualComponent.Kind())
	if ge.HitCount < ge.MaxHits {
		if vis != nil {
			vis.State = component.VisualDamaged
			vis.Opacity = damagedOpacity
		}
		return
	}

	ge.MarkBroken()
	s.physics.SetGhost(s.world, e)
	if vis != nil {
		vis.State = component.VisualBroken
	}
	x, y, _ := s.physics.Position(e)
	s.award(ge.Points, x, y)
	s.burst(x, y, entity.ColorBlockBurst)
	s.logger.Debug("block broken", "entity", e, "hits", ge.HitCount)
}

func (s *Session) burst(x, y float64, c color.NRGBA) {
	t := s.bp.Tuning
	if t.Particles <= 0 {
		return
	}
	entity.BuildExplosion(s.world, s.physics, s.rng, x, y, t.Particles, t.ParticleFrames, c)
}
