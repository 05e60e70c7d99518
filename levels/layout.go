package levels

import (
	"context"
	"fmt"
	"maps"
)

// Layout evaluates every expression in b against vp.
func (b *Blueprint) Layout(ctx context.Context, vp Viewport) (*Resolved, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	r := &Resolved{
		ID:          b.ID,
		Name:        b.Name,
		Projectiles: b.Projectiles,
		Targets:     b.Targets,
		Ability:     b.Ability,
		Viewport:    vp,
		Tuning:      b.Tuning,
		Overrides:   maps.Clone(b.Overrides),
		Placements:  make([]ResolvedPlacement, 0, len(b.Placements)),
		Links:       append([]Link(nil), b.Links...),
	}

	x, err := b.Launcher.X.Eval(ctx, vp)
	if err != nil {
		return nil, fmt.Errorf("levels: launcher x: %w", err)
	}
	y, err := b.Launcher.Y.Eval(ctx, vp)
	if err != nil {
		return nil, fmt.Errorf("levels: launcher y: %w", err)
	}
	r.Launcher = ResolvedLauncher{
		X:          x,
		Y:          y,
		Stiffness:  b.Launcher.Stiffness,
		Damping:    b.Launcher.Damping,
		RestLength: b.Launcher.RestLength,
		MaxDrag:    b.Launcher.MaxDrag,
		Power:      b.Launcher.Power,
		Prefab:     b.Launcher.Prefab,
	}

	for _, p := range b.Placements {
		rp := ResolvedPlacement{
			ID:     p.ID,
			Kind:   p.Kind,
			Prefab: p.Prefab,
			Heavy:  p.Heavy,
			Boss:   p.Boss,
			Hidden: p.Hidden,
		}
		fields := []struct {
			name string
			expr Expr
			dst  *float64
		}{
			{"x", p.X, &rp.X},
			{"y", p.Y, &rp.Y},
			{"w", p.W, &rp.W},
			{"h", p.H, &rp.H},
			{"radius", p.Radius, &rp.Radius},
			{"angle", p.Angle, &rp.Angle},
		}
		for _, f := range fields {
			v, err := f.expr.Eval(ctx, vp)
			if err != nil {
				return nil, fmt.Errorf("levels: placement %s %s: %w", p.ID, f.name, err)
			}
			*f.dst = v
		}
		r.Placements = append(r.Placements, rp)
	}

	return r, nil
}

// Placement returns the resolved placement with id.
func (r *Resolved) Placement(id string) (ResolvedPlacement, bool) {
	for _, p := range r.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return ResolvedPlacement{}, false
}
