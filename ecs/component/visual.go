package component

import "image/color"

// VisualState selects which look the renderer uses for an entity.
type VisualState uint8

const (
	VisualAlive VisualState = iota
	VisualDamaged
	VisualDying
	VisualBroken
	VisualBoosted
	VisualCharging
)

func (s VisualState) String() string {
	switch s {
	case VisualDamaged:
		return "damaged"
	case VisualDying:
		return "dying"
	case VisualBroken:
		return "broken"
	case VisualBoosted:
		return "boosted"
	case VisualCharging:
		return "charging"
	default:
		return "alive"
	}
}

// Visual is written by game logic and only read by the renderer.
type Visual struct {
	Visible bool
	Opacity float64
	State   VisualState
	Sprite  string
	Color   color.NRGBA
	ScaleX  float64
	ScaleY  float64
}

var VisualComponent = NewComponent[Visual]()

func NewVisual(sprite string, c color.NRGBA) *Visual {
	return &Visual{Visible: true, Opacity: 1, Sprite: sprite, Color: c, ScaleX: 1, ScaleY: 1}
}
