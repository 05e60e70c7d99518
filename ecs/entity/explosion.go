package entity

import (
	"image/color"
	"math/rand/v2"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/system"
)

const (
	particleMinRadius = 3
	particleMaxRadius = 8
	particleSpeed     = 8
	particleDrag      = 0.05
)

var (
	ColorTargetBurst = color.NRGBA{R: 0x32, G: 0xCD, B: 0x32, A: 0xFF}
	ColorBlockBurst  = color.NRGBA{R: 0xE6, G: 0xBD, B: 0x19, A: 0xFF}
)

// BuildExplosion spawns n cosmetic particles around (x, y). They collide
// with nothing and expire after frames.
func BuildExplosion(w *ecs.World, ps *system.PhysicsSystem, rng *rand.Rand, x, y float64, n, frames int, c color.NRGBA) []ecs.Entity {
	out := make([]ecs.Entity, 0, n)
	for i := 0; i < n; i++ {
		e := ecs.CreateEntity(w)
		radius := particleMinRadius + rng.Float64()*(particleMaxRadius-particleMinRadius)

		_ = ecs.Add(w, e, component.GameEntityComponent.Kind(), &component.GameEntity{Kind: component.KindParticle})
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
		_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Circle:    true,
			Radius:    radius,
			Density:   0.001,
			Drag:      particleDrag,
			Category:  component.CategoryParticle,
			NoCollide: true,
		})
		_ = ecs.Add(w, e, component.VisualComponent.Kind(), component.NewVisual("particle", c))
		_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames, Lifetime: frames})

		ps.Build(w, e)
		ps.SetVelocity(e, (rng.Float64()*2-1)*particleSpeed, (rng.Float64()*2-1)*particleSpeed)
		out = append(out, e)
	}
	return out
}
