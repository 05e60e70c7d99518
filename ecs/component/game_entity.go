package component

import "time"

// EntityKind is the game-domain role of an entity.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindProjectile
	KindTarget
	KindBlock
	KindTerrain
	KindParticle
	KindAnchor
)

func (k EntityKind) String() string {
	switch k {
	case KindProjectile:
		return "projectile"
	case KindTarget:
		return "target"
	case KindBlock:
		return "block"
	case KindTerrain:
		return "terrain"
	case KindParticle:
		return "particle"
	case KindAnchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// ParseEntityKind maps blueprint kind names onto EntityKind.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch s {
	case "projectile", "bird":
		return KindProjectile, true
	case "target", "pig":
		return KindTarget, true
	case "block":
		return KindBlock, true
	case "terrain", "ground", "wall":
		return KindTerrain, true
	case "particle":
		return KindParticle, true
	case "anchor":
		return KindAnchor, true
	}
	return KindUnknown, false
}

// GameEntity is the domain record attached to a simulated body. The lifecycle
// flags only move from false to true; use the Mark methods to set them.
type GameEntity struct {
	Kind EntityKind
	Boss bool

	// Heavy blocks hit targets harder and take more hits to break.
	Heavy bool

	HitCount        int
	MaxHits         int
	DamageThreshold float64
	Points          int

	dying       bool
	broken      bool
	fading      bool
	collided    bool
	usedAbility bool
	everHit     bool
	lastHit     time.Duration
}

var GameEntityComponent = NewComponent[GameEntity]()

func (g *GameEntity) IsDying() bool { return g.dying }
func (g *GameEntity) IsBroken() bool { return g.broken }
func (g *GameEntity) IsFading() bool { return g.fading }
func (g *GameEntity) HasCollided() bool { return g.collided }
func (g *GameEntity) HasUsedAbility() bool { return g.usedAbility }

// Spent reports whether the entity is past the point where it can take damage.
func (g *GameEntity) Spent() bool {
	return g.dying || g.broken || g.fading
}

func (g *GameEntity) MarkDying() { g.dying = true }
func (g *GameEntity) MarkBroken() {
	g.broken = true
	g.fading = true
}
func (g *GameEntity) MarkCollided() { g.collided = true }
func (g *GameEntity) MarkUsedAbility() { g.usedAbility = true }

// Debounced reports whether a hit at now falls inside window of the previous
// registered hit. A zero window never debounces.
func (g *GameEntity) Debounced(now, window time.Duration) bool {
	if window <= 0 || !g.everHit {
		return false
	}
	return now-g.lastHit < window
}

func (g *GameEntity) RecordHit(now time.Duration) {
	g.everHit = true
	g.lastHit = now
}
