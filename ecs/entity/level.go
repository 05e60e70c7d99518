package entity

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/system"
	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
)

var (
	colorTerrain = color.NRGBA{R: 0x5D, G: 0x40, B: 0x37, A: 0xFF}
	colorAnchor  = color.NRGBA{R: 0x3E, G: 0x27, B: 0x23, A: 0xFF}
	colorBlock   = color.NRGBA{R: 0xA1, G: 0x88, B: 0x7F, A: 0xFF}
	colorTarget  = color.NRGBA{R: 0x7C, G: 0xB3, B: 0x42, A: 0xFF}
	colorBird    = color.NRGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xFF}
)

var ErrNilBlueprint = errors.New("entity: nil blueprint")

// Level is what BuildLevel created for one load.
type Level struct {
	Launcher ecs.Entity
	Targets  []ecs.Entity
	ByID     map[string]ecs.Entity
}

// BuildLevel materializes every placement of r as one entity with one body,
// then realizes the links between them. A link naming a placement that was
// not created panics.
func BuildLevel(w *ecs.World, ps *system.PhysicsSystem, r *levels.Resolved, lib prefabs.Library) (*Level, error) {
	if r == nil {
		return nil, ErrNilBlueprint
	}
	if w == nil || ps == nil {
		panic("entity: build level without world or physics")
	}

	lvl := &Level{ByID: make(map[string]ecs.Entity, len(r.Placements))}

	for _, p := range r.Placements {
		e, err := buildPlacement(w, r, lib, p)
		if err != nil {
			return nil, err
		}
		if ps.Build(w, e) == nil {
			return nil, fmt.Errorf("entity: placement %s: no body", p.ID)
		}
		lvl.ByID[p.ID] = e
		if p.Kind == levels.KindTarget {
			lvl.Targets = append(lvl.Targets, e)
		}
	}

	for _, l := range r.Links {
		a, okA := lvl.ByID[l.A]
		b, okB := lvl.ByID[l.B]
		if !okA || !okB {
			panic(fmt.Sprintf("entity: link %s-%s references a placement that was not created", l.A, l.B))
		}
		c := ps.Link(ps.Body(a), ps.Body(b), cp.Vector{X: l.AnchorA.X, Y: l.AnchorA.Y}, cp.Vector{X: l.AnchorB.X, Y: l.AnchorB.Y}, l.Stiffness, l.Damping)
		rope, ok := ecs.Get(w, b, component.RopeComponent.Kind())
		if !ok {
			rope = &component.Rope{}
			if err := ecs.Add(w, b, component.RopeComponent.Kind(), rope); err != nil {
				return nil, fmt.Errorf("entity: link %s-%s: %w", l.A, l.B, err)
			}
		}
		rope.Constraints = append(rope.Constraints, c)
	}

	launcher, err := buildLauncher(w, r)
	if err != nil {
		return nil, err
	}
	lvl.Launcher = launcher

	return lvl, nil
}

func buildLauncher(w *ecs.World, r *levels.Resolved) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := add(w, e, component.TransformComponent, &component.Transform{X: r.Launcher.X, Y: r.Launcher.Y}); err != nil {
		return 0, fmt.Errorf("entity: launcher: %w", err)
	}
	l := &component.Launcher{
		X:          r.Launcher.X,
		Y:          r.Launcher.Y,
		Stiffness:  r.Launcher.Stiffness,
		Damping:    r.Launcher.Damping,
		RestLength: r.Launcher.RestLength,
		MaxDrag:    r.Launcher.MaxDrag,
		Power:      r.Launcher.Power,
	}
	if err := add(w, e, component.LauncherComponent, l); err != nil {
		return 0, fmt.Errorf("entity: launcher: %w", err)
	}
	return e, nil
}

func buildPlacement(w *ecs.World, r *levels.Resolved, lib prefabs.Library, p levels.ResolvedPlacement) (ecs.Entity, error) {
	var (
		ge   component.GameEntity
		body component.PhysicsBody
		vis  *component.Visual
	)

	switch p.Kind {
	case levels.KindTerrain, levels.KindAnchor:
		kind, fill := component.KindTerrain, colorTerrain
		if p.Kind == levels.KindAnchor {
			kind, fill = component.KindAnchor, colorAnchor
		}
		ge = component.GameEntity{Kind: kind}
		body = component.PhysicsBody{Width: p.W, Height: p.H, Angle: p.Angle, Friction: 1, Static: true}
		vis = component.NewVisual(p.Kind, fill)

	case levels.KindBlock:
		name := p.Prefab
		if name == "" {
			name = prefabs.Block
			if p.Heavy {
				name = prefabs.BlockHeavy
			}
		}
		spec, err := resolveSpec(r, lib, name)
		if err != nil {
			return 0, fmt.Errorf("entity: placement %s: %w", p.ID, err)
		}
		width, height := p.W, p.H
		if width <= 0 {
			width = spec.Width
		}
		if height <= 0 {
			height = spec.Height
		}
		ge = component.GameEntity{
			Kind:            component.KindBlock,
			Heavy:           p.Heavy,
			MaxHits:         spec.MaxHits,
			DamageThreshold: spec.DamageThreshold,
			Points:          r.Tuning.BlockPoints,
		}
		body = component.PhysicsBody{
			Width:      width,
			Height:     height,
			Angle:      p.Angle,
			Density:    spec.Density,
			Friction:   spec.Friction,
			Elasticity: spec.Elasticity,
			Drag:       spec.Drag,
		}
		vis = component.NewVisual(spec.Sprite, spec.NRGBA(colorBlock))

	case levels.KindTarget:
		name := p.Prefab
		if name == "" {
			name = prefabs.Pig
			if p.Boss {
				name = prefabs.PigBoss
			}
		}
		spec, err := resolveSpec(r, lib, name)
		if err != nil {
			return 0, fmt.Errorf("entity: placement %s: %w", p.ID, err)
		}
		radius := p.Radius
		if radius <= 0 {
			radius = spec.Radius
		}
		ge = component.GameEntity{
			Kind:            component.KindTarget,
			Boss:            p.Boss,
			MaxHits:         spec.MaxHits,
			DamageThreshold: spec.DamageThreshold,
			Points:          r.Tuning.TargetPoints,
		}
		if p.Boss {
			ge.Points = r.Tuning.BossPoints
		}
		body = component.PhysicsBody{
			Circle:     true,
			Radius:     radius,
			Density:    spec.Density,
			Friction:   spec.Friction,
			Elasticity: spec.Elasticity,
			Drag:       spec.Drag,
		}
		vis = component.NewVisual(spec.Sprite, spec.NRGBA(colorTarget))

	default:
		return 0, fmt.Errorf("entity: placement %s: unknown kind %q", p.ID, p.Kind)
	}

	if p.Hidden {
		vis.Visible = false
	}

	e := ecs.CreateEntity(w)
	err := errors.Join(
		add(w, e, component.GameEntityComponent, &ge),
		add(w, e, component.TransformComponent, &component.Transform{X: p.X, Y: p.Y, Rotation: p.Angle}),
		add(w, e, component.PhysicsBodyComponent, &body),
		add(w, e, component.VisualComponent, vis),
	)
	if err != nil {
		return 0, fmt.Errorf("entity: placement %s: %w", p.ID, err)
	}
	return e, nil
}

// add attaches v to e and names the component on failure.
func add[T any](w *ecs.World, e ecs.Entity, h component.ComponentHandle[T], v *T) error {
	if err := ecs.Add(w, e, h.Kind(), v); err != nil {
		return fmt.Errorf("add %s: %w", h.Kind(), err)
	}
	return nil
}

// resolveSpec looks up a prefab and applies the level's override for it.
func resolveSpec(r *levels.Resolved, lib prefabs.Library, name string) (prefabs.BodySpec, error) {
	spec, ok := lib.Get(name)
	if !ok {
		return prefabs.BodySpec{}, fmt.Errorf("unknown prefab %q", name)
	}
	if o, ok := r.Overrides[name]; ok {
		spec = spec.Apply(o)
	}
	return spec, nil
}
