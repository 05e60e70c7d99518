package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

var debugKindColors = map[component.EntityKind]cp.FColor{
	component.KindProjectile: {R: 1, G: 0.3, B: 0.3, A: 0.9},
	component.KindTarget:     {R: 0.3, G: 1, B: 0.3, A: 0.9},
	component.KindBlock:      {R: 1, G: 0.8, B: 0.2, A: 0.9},
	component.KindTerrain:    {R: 0.6, G: 0.6, B: 0.6, A: 0.9},
	component.KindAnchor:     {R: 0.6, G: 0.6, B: 0.6, A: 0.9},
	component.KindParticle:   {R: 0.4, G: 0.4, B: 1, A: 0.5},
}

// DrawDebug outlines every shape and constraint in the space, coloured by the
// kind of entity that owns it and shifted by (offX, offY).
func (ps *PhysicsSystem) DrawDebug(w *ecs.World, screen *ebiten.Image, offX, offY float64) {
	if ps == nil || screen == nil {
		return
	}
	cp.DrawSpace(ps.space, &debugDrawer{ps: ps, w: w, screen: screen, offX: float32(offX), offY: float32(offY)})
}

// debugDrawer implements cp.Drawer with ebiten vector strokes.
type debugDrawer struct {
	ps         *PhysicsSystem
	w          *ecs.World
	screen     *ebiten.Image
	offX, offY float32
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, _ cp.FColor, _ interface{}) {
	if radius <= 0 {
		return
	}
	c := debugColor(outline)
	x, y := d.point(pos)
	vector.StrokeCircle(d.screen, x, y, float32(radius), 1, c, true)
	// Spoke so rotation is visible.
	ex, ey := d.point(pos.Add(cp.ForAngle(angle).Mult(radius)))
	vector.StrokeLine(d.screen, x, y, ex, ey, 1, c, true)
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, _ interface{}) {
	d.line(a, b, 1, fill)
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, _ cp.FColor, _ interface{}) {
	d.line(a, b, float32(max(1, radius*2)), outline)
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, _ float64, outline, _ cp.FColor, _ interface{}) {
	if count < 2 || len(verts) < count {
		return
	}
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], 1, outline)
	}
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, _ interface{}) {
	x, y := d.point(pos)
	vector.DrawFilledCircle(d.screen, x, y, float32(max(2, size/2)), debugColor(fill), true)
}

func (d *debugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS
}

func (d *debugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor is used as the outline for each shape.
func (d *debugDrawer) ShapeColor(shape *cp.Shape, _ interface{}) cp.FColor {
	e, ok := d.ps.EntityOf(shape.Body())
	if !ok {
		return d.OutlineColor()
	}
	if ge, ok := ecs.Get(d.w, e, component.GameEntityComponent.Kind()); ok {
		if c, ok := debugKindColors[ge.Kind]; ok {
			return c
		}
	}
	return d.OutlineColor()
}

func (d *debugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *debugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *debugDrawer) Data() interface{} { return nil }

func (d *debugDrawer) point(v cp.Vector) (float32, float32) {
	return float32(v.X) + d.offX, float32(v.Y) + d.offY
}

func (d *debugDrawer) line(a, b cp.Vector, width float32, c cp.FColor) {
	x1, y1 := d.point(a)
	x2, y2 := d.point(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, width, debugColor(c), true)
}

func debugColor(c cp.FColor) color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float32) uint8 {
	return uint8(min(max(v, 0), 1) * 255)
}
