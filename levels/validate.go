package levels

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID    = errors.New("levels: duplicate placement id")
	ErrUnknownLink    = errors.New("levels: link references unknown placement")
	ErrTargetCount    = errors.New("levels: target count does not match placements")
	ErrNoProjectiles  = errors.New("levels: at least one projectile is required")
	ErrUnknownAbility = errors.New("levels: unknown ability")
	ErrUnknownKind    = errors.New("levels: unknown placement kind")
)

// Validate rejects blueprints the materializer cannot build faithfully.
func (b *Blueprint) Validate() error {
	if b == nil {
		return errors.New("levels: nil blueprint")
	}
	if b.Projectiles < 1 {
		return fmt.Errorf("%w: level %d has %d", ErrNoProjectiles, b.ID, b.Projectiles)
	}
	if !b.Ability.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAbility, b.Ability)
	}

	ids := make(map[string]struct{}, len(b.Placements))
	targets := 0
	for i, p := range b.Placements {
		if p.ID == "" {
			return fmt.Errorf("levels: placement %d has no id", i)
		}
		if _, ok := ids[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		ids[p.ID] = struct{}{}

		switch p.Kind {
		case KindTarget:
			targets++
		case KindTerrain, KindBlock, KindAnchor:
		default:
			return fmt.Errorf("%w: %s has %q", ErrUnknownKind, p.ID, p.Kind)
		}
	}
	if targets != b.Targets {
		return fmt.Errorf("%w: declared %d, placed %d", ErrTargetCount, b.Targets, targets)
	}

	for _, l := range b.Links {
		if _, ok := ids[l.A]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLink, l.A)
		}
		if _, ok := ids[l.B]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLink, l.B)
		}
	}
	return nil
}
