package levels

import (
	"time"

	"github.com/milk9111/slingshot/prefabs"
)

// Ability selects the per-level special action.
type Ability string

const (
	AbilityNone  Ability = "none"
	AbilitySpeed Ability = "speed"
	AbilityBlast Ability = "blast"
)

func (a Ability) Valid() bool {
	switch a {
	case AbilityNone, AbilitySpeed, AbilityBlast:
		return true
	}
	return false
}

// Placement kinds.
const (
	KindTerrain = "terrain"
	KindBlock   = "block"
	KindTarget  = "target"
	KindAnchor  = "anchor"
)

// Blueprint is the declarative description of a level's starting structure.
type Blueprint struct {
	ID          int                         `yaml:"id"`
	Name        string                      `yaml:"name"`
	Projectiles int                         `yaml:"projectiles"`
	Targets     int                         `yaml:"targets"`
	Ability     Ability                     `yaml:"ability"`
	Launcher    LauncherSpec                `yaml:"launcher"`
	Tuning      Tuning                      `yaml:"tuning"`
	Overrides   map[string]prefabs.Override `yaml:"overrides"`
	Placements  []Placement                 `yaml:"placements"`
	Links       []Link                      `yaml:"links"`
}

type LauncherSpec struct {
	X          Expr    `yaml:"x"`
	Y          Expr    `yaml:"y"`
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
	RestLength float64 `yaml:"rest_length"`
	MaxDrag    float64 `yaml:"max_drag"`
	Power      float64 `yaml:"power"`
	Prefab     string  `yaml:"prefab"`
}

type Placement struct {
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind"`
	Prefab string `yaml:"prefab"`
	X      Expr   `yaml:"x"`
	Y      Expr   `yaml:"y"`
	W      Expr   `yaml:"w"`
	H      Expr   `yaml:"h"`
	Radius Expr   `yaml:"radius"`
	Angle  Expr   `yaml:"angle"`
	Heavy  bool   `yaml:"heavy"`
	Boss   bool   `yaml:"boss"`
	Hidden bool   `yaml:"hidden"`
}

// Link joins two placements with a rope-like damped spring. Anchors are in
// each body's local space.
type Link struct {
	A         string  `yaml:"a"`
	B         string  `yaml:"b"`
	AnchorA   Point   `yaml:"anchor_a"`
	AnchorB   Point   `yaml:"anchor_b"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Tuning carries the per-level constants. Levels do not share a formula for
// these, each one is authored.
type Tuning struct {
	ImpactFloor          float64 `yaml:"impact_floor"`
	TargetThreshold      float64 `yaml:"target_threshold"`
	TargetBlockThreshold float64 `yaml:"target_block_threshold"`
	BlockMultiplier      float64 `yaml:"block_multiplier"`
	HeavyMultiplier      float64 `yaml:"heavy_multiplier"`

	Debounce       time.Duration `yaml:"debounce"`
	StabilityGrace time.Duration `yaml:"stability_grace"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
	NextTurnDelay  time.Duration `yaml:"next_turn_delay"`
	ReleaseDelay   time.Duration `yaml:"release_delay"`
	FirstLoadDelay time.Duration `yaml:"first_load_delay"`
	RemoveDelay    time.Duration `yaml:"remove_delay"`
	ScoreDelay     time.Duration `yaml:"score_delay"`
	BonusDelay     time.Duration `yaml:"bonus_delay"`
	WinDelay       time.Duration `yaml:"win_delay"`

	TargetPoints    int `yaml:"target_points"`
	BossPoints      int `yaml:"boss_points"`
	BlockPoints     int `yaml:"block_points"`
	ProjectileBonus int `yaml:"projectile_bonus"`

	PostImpactDrag float64 `yaml:"post_impact_drag"`
	FadeRate       float64 `yaml:"fade_rate"`
	Particles      int     `yaml:"particles"`
	ParticleFrames int     `yaml:"particle_frames"`

	Speed SpeedTuning `yaml:"speed"`
	Blast BlastTuning `yaml:"blast"`
}

type SpeedTuning struct {
	Speed          float64 `yaml:"speed"`
	Multiplier     float64 `yaml:"multiplier"`
	BlockThreshold float64 `yaml:"block_threshold"`
	Density        float64 `yaml:"density"`
	ScaleX         float64 `yaml:"scale_x"`
	ScaleY         float64 `yaml:"scale_y"`
}

type BlastTuning struct {
	ChargeDelay time.Duration `yaml:"charge_delay"`
	Radius      float64       `yaml:"radius"`
	Impulse     float64       `yaml:"impulse"`
	BlockDamage int           `yaml:"block_damage"`
	ReloadDelay time.Duration `yaml:"reload_delay"`
}

// Viewport is the play area the layout expressions are evaluated against.
type Viewport struct {
	Width  float64
	Height float64
}

// GroundY is the surface the structures stand on.
func (v Viewport) GroundY() float64 {
	return v.Height - 40
}

// Resolved is a blueprint with every expression evaluated.
type Resolved struct {
	ID          int
	Name        string
	Projectiles int
	Targets     int
	Ability     Ability
	Viewport    Viewport
	Launcher    ResolvedLauncher
	Tuning      Tuning
	Overrides   map[string]prefabs.Override
	Placements  []ResolvedPlacement
	Links       []Link
}

type ResolvedLauncher struct {
	X, Y       float64
	Stiffness  float64
	Damping    float64
	RestLength float64
	MaxDrag    float64
	Power      float64
	Prefab     string
}

type ResolvedPlacement struct {
	ID     string
	Kind   string
	Prefab string
	X, Y   float64
	W, H   float64
	Radius float64
	Angle  float64
	Heavy  bool
	Boss   bool
	Hidden bool
}
