package system

import (
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

// FadeSystem lowers the opacity of broken blocks each frame and removes them
// once they are fully transparent.
type FadeSystem struct {
	physics *PhysicsSystem
	rate    float64
	frames  float64
}

func NewFadeSystem(physics *PhysicsSystem, rate float64) *FadeSystem {
	return &FadeSystem{physics: physics, rate: rate, frames: 1}
}

func (s *FadeSystem) SetFrames(frames float64) {
	if frames <= 0 {
		return
	}
	s.frames = frames
}

func (s *FadeSystem) Update(w *ecs.World) {
	if w == nil || s.rate <= 0 {
		return
	}

	ecs.ForEach2(w, component.GameEntityComponent.Kind(), component.VisualComponent.Kind(), func(e ecs.Entity, ge *component.GameEntity, vis *component.Visual) {
		if !ge.IsFading() {
			return
		}

		vis.Opacity -= s.rate * s.frames
		if vis.Opacity > 0 {
			return
		}
		vis.Opacity = 0
		vis.Visible = false

		if s.physics != nil {
			s.physics.Remove(w, e)
		}
		ecs.DestroyEntity(w, e)
	})
}
