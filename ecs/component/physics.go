package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Collision categories.
const (
	CategoryDefault    uint = 0x0001
	CategoryProjectile uint = 0x0002
	CategoryParticle   uint = 0x0004
	CategoryGhost      uint = 0x0008
)

// PhysicsBody describes the collider the physics system builds for an entity
// and holds the live Chipmunk handles once it has.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Circle     bool
	Width      float64
	Height     float64
	Radius     float64
	Angle      float64
	Density    float64
	Friction   float64
	Elasticity float64
	// Drag is the fraction of velocity lost per frame to air resistance.
	Drag   float64
	Static bool
	Sensor bool

	// Category and Mask default to CategoryDefault and all bits when zero.
	Category uint
	Mask     uint
	// NoCollide clears the mask entirely.
	NoCollide bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

func (p *PhysicsBody) Area() float64 {
	if p.Circle {
		return math.Pi * p.Radius * p.Radius
	}
	return p.Width * p.Height
}
