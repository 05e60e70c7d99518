package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
	"github.com/milk9111/slingshot/ecs/system"
	"github.com/milk9111/slingshot/levels"
	"github.com/milk9111/slingshot/prefabs"
)

// BuildProjectile spawns a projectile at the launcher anchor and binds it to
// the launcher with the spring.
func BuildProjectile(w *ecs.World, ps *system.PhysicsSystem, r *levels.Resolved, lib prefabs.Library, launcher ecs.Entity) (ecs.Entity, error) {
	l, ok := ecs.Get(w, launcher, component.LauncherComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("entity: projectile: launcher %v missing", launcher)
	}

	name := r.Launcher.Prefab
	if name == "" {
		name = prefabs.Bird
	}
	spec, err := resolveSpec(r, lib, name)
	if err != nil {
		return 0, fmt.Errorf("entity: projectile: %w", err)
	}

	e := ecs.CreateEntity(w)
	body := &component.PhysicsBody{
		Circle:     true,
		Radius:     spec.Radius,
		Density:    spec.Density,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Drag:       spec.Drag,
		Category:   component.CategoryProjectile,
	}
	err = errors.Join(
		add(w, e, component.GameEntityComponent, &component.GameEntity{Kind: component.KindProjectile}),
		add(w, e, component.TransformComponent, &component.Transform{X: l.X, Y: l.Y}),
		add(w, e, component.PhysicsBodyComponent, body),
		add(w, e, component.VisualComponent, component.NewVisual(spec.Sprite, spec.NRGBA(colorBird))),
	)
	if err != nil {
		return 0, fmt.Errorf("entity: projectile: %w", err)
	}

	b := ps.Build(w, e)
	l.Spring = ps.AttachSpring(b, l.X, l.Y, l.RestLength, l.Stiffness, l.Damping)
	return e, nil
}
