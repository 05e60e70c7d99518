package system

import (
	"image/color"
	"testing"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

func TestTTLSystem(t *testing.T) {
	cases := []struct {
		name      string
		frames    int
		stepSize  float64
		steps     int
		wantAlive bool
	}{
		{"expires after lifetime", 40, 1, 40, false},
		{"alive before lifetime", 40, 1, 39, true},
		{"large steps", 40, 4, 10, false},
		{"fractional steps accumulate", 2, 0.5, 3, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			s := NewTTLSystem(nil)
			s.SetFrames(c.stepSize)
			e := ecs.CreateEntity(w)
			if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: c.frames}); err != nil {
				t.Fatal(err)
			}

			for i := 0; i < c.steps; i++ {
				s.Update(w)
			}

			if got := ecs.IsAlive(w, e); got != c.wantAlive {
				t.Fatalf("alive = %v, want %v", got, c.wantAlive)
			}
		})
	}
}

func TestFadeSystemRemovesFadedBlocks(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(Gravity)
	s := NewFadeSystem(ps, 0.1)

	fading := spawnBall(t, w, 0, 0)
	solid := spawnBall(t, w, 100, 0)
	for _, e := range []ecs.Entity{fading, solid} {
		if err := ecs.Add(w, e, component.GameEntityComponent.Kind(), &component.GameEntity{Kind: component.KindBlock}); err != nil {
			t.Fatal(err)
		}
		if err := ecs.Add(w, e, component.VisualComponent.Kind(), component.NewVisual("block", colorBlock)); err != nil {
			t.Fatal(err)
		}
	}
	ps.Update(w)
	ge, _ := ecs.Get(w, fading, component.GameEntityComponent.Kind())
	ge.MarkBroken()

	for i := 0; i < 5; i++ {
		s.Update(w)
	}
	vis, _ := ecs.Get(w, fading, component.VisualComponent.Kind())
	if vis.Opacity > 0.51 || vis.Opacity < 0.49 {
		t.Fatalf("expected half opacity, got %v", vis.Opacity)
	}

	for i := 0; i < 6; i++ {
		s.Update(w)
	}
	if ecs.IsAlive(w, fading) {
		t.Fatalf("faded block should be destroyed")
	}
	if ps.Contains(fading) {
		t.Fatalf("faded block body should be removed")
	}
	if !ecs.IsAlive(w, solid) {
		t.Fatalf("untouched block should survive")
	}
}

var colorBlock = color.NRGBA{R: 160, G: 110, B: 60, A: 255}
