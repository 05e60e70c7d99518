package system

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

const ellipseSegments = 24

var (
	colorRope    = color.NRGBA{R: 0x5C, G: 0x3A, B: 0x1E, A: 0xFF}
	colorBand    = color.NRGBA{R: 0x3B, G: 0x22, B: 0x10, A: 0xFF}
	colorOutline = color.NRGBA{A: 0xB0}
	colorCrown   = color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	colorCharge  = color.NRGBA{R: 0xFF, G: 0x45, B: 0x00, A: 0xFF}
)

// RenderSystem draws every visible body as flat vector shapes. It reads the
// world and never writes to it.
type RenderSystem struct {
	frame int
	white *ebiten.Image
	vs    []ebiten.Vertex
	is    []uint16
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) whitePixel() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}

type drawItem struct {
	e     ecs.Entity
	layer int
}

func layerOf(kind component.EntityKind) int {
	switch kind {
	case component.KindTerrain:
		return 0
	case component.KindBlock:
		return 1
	case component.KindTarget:
		return 2
	case component.KindProjectile:
		return 3
	case component.KindParticle:
		return 4
	default:
		return 0
	}
}

// Draw renders w offset by (offX, offY).
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, offX, offY float64) {
	if r == nil || w == nil || screen == nil {
		return
	}
	r.frame++

	r.drawRopes(w, screen, offX, offY)

	var items []drawItem
	ecs.ForEach2(w, component.VisualComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, vis *component.Visual, _ *component.Transform) {
		if !vis.Visible || vis.Opacity <= 0 {
			return
		}
		layer := 0
		if ge, ok := ecs.Get(w, e, component.GameEntityComponent.Kind()); ok {
			layer = layerOf(ge.Kind)
		}
		items = append(items, drawItem{e: e, layer: layer})
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	for _, it := range items {
		r.drawEntity(w, screen, it.e, offX, offY)
	}
}

func (r *RenderSystem) drawEntity(w *ecs.World, screen *ebiten.Image, e ecs.Entity, offX, offY float64) {
	vis, _ := ecs.Get(w, e, component.VisualComponent.Kind())
	t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}

	fill := fade(vis.Color, vis.Opacity)
	outline := fade(colorOutline, vis.Opacity)
	x, y := t.X+offX, t.Y+offY

	if body.Circle {
		rx, ry := body.Radius*vis.ScaleX, body.Radius*vis.ScaleY
		pts := ellipse(x, y, rx, ry, t.Rotation)
		r.fillPolygon(screen, pts, fill)
		strokePolygon(screen, pts, 2, outline)
	} else {
		pts := rect(x, y, body.Width*vis.ScaleX, body.Height*vis.ScaleY, t.Rotation)
		r.fillPolygon(screen, pts, fill)
		strokePolygon(screen, pts, 2, outline)
		if vis.State == component.VisualDamaged {
			vector.StrokeLine(screen, float32(pts[0].X), float32(pts[0].Y), float32(pts[2].X), float32(pts[2].Y), 2, outline, true)
		}
	}

	ge, ok := ecs.Get(w, e, component.GameEntityComponent.Kind())
	if !ok {
		return
	}
	if ge.Kind == component.KindTarget && ge.Boss {
		r.drawCrown(screen, x, y-body.Radius, body.Radius*0.6, fade(colorCrown, vis.Opacity))
	}
	if vis.State == component.VisualCharging {
		pulse := 0.5 + 0.5*math.Sin(float64(r.frame)*0.5)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(body.Radius+4+4*pulse), 3, fade(colorCharge, pulse), true)
	}
}

func (r *RenderSystem) drawCrown(screen *ebiten.Image, cx, baseY, half float64, c color.NRGBA) {
	pts := []cp.Vector{
		{X: cx - half, Y: baseY},
		{X: cx - half, Y: baseY - half},
		{X: cx - half/2, Y: baseY - half/2},
		{X: cx, Y: baseY - half*1.2},
		{X: cx + half/2, Y: baseY - half/2},
		{X: cx + half, Y: baseY - half},
		{X: cx + half, Y: baseY},
	}
	r.fillPolygon(screen, pts, c)
}

// drawRopes draws structural links and the launcher band.
func (r *RenderSystem) drawRopes(w *ecs.World, screen *ebiten.Image, offX, offY float64) {
	ecs.ForEach(w, component.RopeComponent.Kind(), func(_ ecs.Entity, rope *component.Rope) {
		for _, c := range rope.Constraints {
			if a, b, ok := springEnds(c); ok {
				vector.StrokeLine(screen, float32(a.X+offX), float32(a.Y+offY), float32(b.X+offX), float32(b.Y+offY), 3, colorRope, true)
			}
		}
	})
	ecs.ForEach(w, component.LauncherComponent.Kind(), func(_ ecs.Entity, l *component.Launcher) {
		// Fork posts either side of the anchor.
		for _, dx := range []float64{-12, 12} {
			vector.StrokeLine(screen, float32(l.X+dx+offX), float32(l.Y+offY), float32(l.X+offX), float32(l.Y+70+offY), 8, colorBand, true)
		}
		if a, b, ok := springEnds(l.Spring); ok {
			for _, dx := range []float64{-12, 12} {
				vector.StrokeLine(screen, float32(a.X+dx+offX), float32(a.Y+offY), float32(b.X+offX), float32(b.Y+offY), 4, colorBand, true)
			}
		}
	})
}

func springEnds(c *cp.Constraint) (cp.Vector, cp.Vector, bool) {
	if c == nil {
		return cp.Vector{}, cp.Vector{}, false
	}
	spring, ok := c.Class.(*cp.DampedSpring)
	if !ok {
		return cp.Vector{}, cp.Vector{}, false
	}
	return c.BodyA().LocalToWorld(spring.AnchorA), c.BodyB().LocalToWorld(spring.AnchorB), true
}

// DrawTrajectory draws a dotted launch preview that fades with distance.
func (r *RenderSystem) DrawTrajectory(screen *ebiten.Image, pts []cp.Vector, offX, offY float64) {
	for i, p := range pts {
		if i%2 == 1 {
			continue
		}
		alpha := 1 - float64(i)/float64(len(pts))
		vector.DrawFilledCircle(screen, float32(p.X+offX), float32(p.Y+offY), 3, fade(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, alpha), true)
	}
}

// DrawFloatingText draws every FloatingText entity in w.
func (r *RenderSystem) DrawFloatingText(w *ecs.World, screen *ebiten.Image, face text.Face, offX, offY float64) {
	ecs.ForEach3(w, component.FloatingTextComponent.Kind(), component.TransformComponent.Kind(), component.VisualComponent.Kind(), func(_ ecs.Entity, ft *component.FloatingText, t *component.Transform, vis *component.Visual) {
		scale := ft.Scale
		if scale <= 0 {
			scale = 1
		}
		tw, th := text.Measure(ft.Text, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(-tw/2, -th/2)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(t.X+offX, t.Y+offY)
		op.ColorScale.ScaleWithColor(fade(ft.Color, vis.Opacity))
		text.Draw(screen, ft.Text, face, op)
	})
}

// FloatingTextSystem drifts floating text upward.
type FloatingTextSystem struct{}

func (FloatingTextSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.FloatingTextComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, ft *component.FloatingText, t *component.Transform) {
		t.Y -= ft.Rise
	})
}

func (r *RenderSystem) fillPolygon(screen *ebiten.Image, pts []cp.Vector, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	r.vs, r.is = path.AppendVerticesAndIndicesForFilling(r.vs[:0], r.is[:0])
	cr, cg, cb, ca := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	for i := range r.vs {
		r.vs[i].SrcX, r.vs[i].SrcY = 1, 1
		r.vs[i].ColorR = cr
		r.vs[i].ColorG = cg
		r.vs[i].ColorB = cb
		r.vs[i].ColorA = ca
	}
	screen.DrawTriangles(r.vs, r.is, r.whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func strokePolygon(screen *ebiten.Image, pts []cp.Vector, width float32, c color.NRGBA) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, c, true)
	}
}

func ellipse(cx, cy, rx, ry, rot float64) []cp.Vector {
	pts := make([]cp.Vector, 0, ellipseSegments)
	sin, cos := math.Sincos(rot)
	for i := 0; i < ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		x, y := math.Cos(a)*rx, math.Sin(a)*ry
		pts = append(pts, cp.Vector{X: cx + x*cos - y*sin, Y: cy + x*sin + y*cos})
	}
	return pts
}

func rect(cx, cy, w, h, rot float64) []cp.Vector {
	sin, cos := math.Sincos(rot)
	corners := [4][2]float64{{-w / 2, -h / 2}, {w / 2, -h / 2}, {w / 2, h / 2}, {-w / 2, h / 2}}
	pts := make([]cp.Vector, 0, 4)
	for _, c := range corners {
		pts = append(pts, cp.Vector{X: cx + c[0]*cos - c[1]*sin, Y: cy + c[0]*sin + c[1]*cos})
	}
	return pts
}

func fade(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}
