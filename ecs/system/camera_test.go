package system

import (
	"image/color"
	"math"
	"testing"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

func TestCameraShakeDecays(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	cam := &component.Camera{}
	if err := ecs.Add(w, e, component.CameraComponent.Kind(), cam); err != nil {
		t.Fatalf("add camera: %v", err)
	}
	if err := ecs.Add(w, e, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{Frames: 10, Intensity: 5}); err != nil {
		t.Fatalf("add request: %v", err)
	}

	cs := NewCameraSystem(7)
	cs.Update(w)
	if ecs.Has(w, e, component.CameraShakeRequestComponent.Kind()) {
		t.Fatalf("expected request consumed")
	}
	if cam.ShakeFrames != 9 {
		t.Fatalf("expected 9 frames left, got %d", cam.ShakeFrames)
	}
	if math.Abs(cam.OffsetX) > 5 || math.Abs(cam.OffsetY) > 5 {
		t.Fatalf("offset exceeds intensity: %.2f,%.2f", cam.OffsetX, cam.OffsetY)
	}

	for i := 0; i < 10; i++ {
		cs.Update(w)
	}
	if cam.OffsetX != 0 || cam.OffsetY != 0 || cam.Decay() != 0 {
		t.Fatalf("expected shake finished, got offset %.2f,%.2f", cam.OffsetX, cam.OffsetY)
	}
}

func TestCameraShakeWeakerRequestIgnored(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	cam := &component.Camera{ShakeFrames: 20, ShakeTotal: 20, ShakeIntensity: 25}
	_ = ecs.Add(w, e, component.CameraComponent.Kind(), cam)
	_ = ecs.Add(w, e, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{Frames: 5, Intensity: 2})

	NewCameraSystem(1).Update(w)
	if cam.ShakeIntensity != 25 || cam.ShakeTotal != 20 {
		t.Fatalf("expected stronger shake kept, got intensity %.0f total %d", cam.ShakeIntensity, cam.ShakeTotal)
	}
}

func TestFloatingTextRisesAndExpires(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	tr := &component.Transform{X: 10, Y: 100}
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), tr)
	_ = ecs.Add(w, e, component.FloatingTextComponent.Kind(), &component.FloatingText{Text: "+150", Rise: 2})
	_ = ecs.Add(w, e, component.VisualComponent.Kind(), component.NewVisual("text", color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}))
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 3, Lifetime: 3})

	sched := ecs.NewScheduler(FloatingTextSystem{}, NewTTLSystem(nil))
	sched.Update(w)
	if tr.Y != 98 {
		t.Fatalf("expected text to rise to 98, got %.1f", tr.Y)
	}
	sched.Update(w)
	sched.Update(w)
	if ecs.IsAlive(w, e) {
		t.Fatalf("expected text destroyed after its ttl")
	}
}
