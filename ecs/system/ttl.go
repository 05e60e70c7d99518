package system

import (
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

// TTLSystem counts down frame-based TTL components and destroys entities when
// the TTL reaches zero.
type TTLSystem struct {
	physics *PhysicsSystem
	frames  float64
	acc     float64
}

func NewTTLSystem(physics *PhysicsSystem) *TTLSystem {
	return &TTLSystem{physics: physics, frames: 1}
}

// SetFrames sets how many 60Hz frames the next Update covers.
func (s *TTLSystem) SetFrames(frames float64) {
	if frames <= 0 {
		return
	}
	s.frames = frames
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.acc += s.frames
	ticks := int(s.acc)
	if ticks == 0 {
		return
	}
	s.acc -= float64(ticks)

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Frames -= ticks
		if ttl.Frames > 0 {
			if vis, ok := ecs.Get(w, e, component.VisualComponent.Kind()); ok && ttl.Lifetime > 0 {
				vis.Opacity = float64(ttl.Frames) / float64(ttl.Lifetime)
			}
			return
		}

		if s.physics != nil {
			s.physics.Remove(w, e)
		}
		ecs.DestroyEntity(w, e)
	})
}
