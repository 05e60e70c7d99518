package system

import (
	"math/rand/v2"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

// CameraSystem turns shake requests into a decaying random offset on the
// camera.
type CameraSystem struct {
	rng *rand.Rand
}

func NewCameraSystem(seed uint64) *CameraSystem {
	return &CameraSystem{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.CameraComponent.Kind(), func(e ecs.Entity, cam *component.Camera) {
		if req, ok := ecs.Get(w, e, component.CameraShakeRequestComponent.Kind()); ok {
			// A stronger request replaces a weaker one in progress.
			if req.Frames > 0 && req.Intensity >= cam.ShakeIntensity*cam.Decay() {
				cam.ShakeFrames = req.Frames
				cam.ShakeTotal = req.Frames
				cam.ShakeIntensity = req.Intensity
			}
			ecs.Remove(w, e, component.CameraShakeRequestComponent.Kind())
		}

		if cam.ShakeFrames <= 0 {
			cam.OffsetX, cam.OffsetY = 0, 0
			return
		}
		mag := cam.ShakeIntensity * cam.Decay()
		cam.OffsetX = (cs.rng.Float64()*2 - 1) * mag
		cam.OffsetY = (cs.rng.Float64()*2 - 1) * mag
		cam.ShakeFrames--
	})
}
