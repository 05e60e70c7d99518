package game

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/slingshot/assets"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

const (
	buttonWidth   = 260
	buttonHeight  = 40
	buttonSpacing = 12
)

var (
	colorButton   = color.NRGBA{R: 0x8B, G: 0x45, B: 0x13, A: 0xFF}
	colorPressed  = color.NRGBA{R: 0x6B, G: 0x33, B: 0x0D, A: 0xFF}
	colorHover    = color.NRGBA{R: 0xA0, G: 0x55, B: 0x1C, A: 0xFF}
	colorDisabled = color.NRGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xC0}
	colorPanel    = color.NRGBA{A: 0xB0}
	colorText     = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorMuted    = color.NRGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
	colorScore    = color.NRGBA{R: 0xFF, G: 0xE0, B: 0x40, A: 0xFF}
	colorBoom     = color.NRGBA{R: 0xFF, G: 0x60, B: 0x10, A: 0xFF}
)

// menuItem is one button of a menu panel. Disabled items are shown greyed
// and cannot be clicked.
type menuItem struct {
	label   string
	enabled bool
	action  func()
}

// levelItems builds one item per level. Locked levels are disabled.
func levelItems(ids, unlocked []int, best map[int]int, start func(int)) []menuItem {
	out := make([]menuItem, 0, len(ids))
	for _, id := range ids {
		open := slices.Contains(unlocked, id)
		label := fmt.Sprintf("Level %d  (locked)", id)
		if open {
			label = fmt.Sprintf("Level %d", id)
			if s := best[id]; s > 0 {
				label = fmt.Sprintf("Level %d  best %d", id, s)
			}
		}
		out = append(out, menuItem{label: label, enabled: open, action: func() { start(id) }})
	}
	return out
}

// newMenuUI builds a panel of text lines and buttons centred horizontally,
// top pixels from the top of the screen. Clicks go through queue so screen
// changes happen after the UI has finished updating.
func newMenuUI(top int, lines []string, items []menuItem, queue func(func())) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(colorPanel)
	btnImage := &widget.ButtonImage{
		Idle:     imageui.NewNineSliceColor(colorButton),
		Hover:    imageui.NewNineSliceColor(colorHover),
		Pressed:  imageui.NewNineSliceColor(colorPressed),
		Disabled: imageui.NewNineSliceColor(colorDisabled),
	}
	btnText := &widget.ButtonTextColor{Idle: colorText, Disabled: colorMuted}
	face := assets.Face
	centre := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(buttonSpacing),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(centre),
	)
	for _, l := range lines {
		panel.AddChild(widget.NewText(
			widget.TextOpts.Text(l, &face, colorText),
			widget.TextOpts.WidgetOpts(centre),
		))
	}
	for _, it := range items {
		action := it.action
		btn := widget.NewButton(
			widget.ButtonOpts.Image(btnImage),
			widget.ButtonOpts.Text(it.label, &face, btnText),
			widget.ButtonOpts.WidgetOpts(centre, widget.WidgetOpts.MinSize(buttonWidth, buttonHeight)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if action != nil {
					queue(action)
				}
			}),
		)
		btn.GetWidget().Disabled = !it.enabled
		panel.AddChild(btn)
	}

	spacer := widget.NewContainer(widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(1, top)))
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		)),
	)
	root.AddChild(spacer)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

// drawText draws s centred on (cx, cy) at scale.
func drawText(screen *ebiten.Image, s string, cx, cy, scale float64, c color.Color) {
	w, h := text.Measure(s, assets.Face, assets.LineHeight)
	op := &text.DrawOptions{}
	op.LineSpacing = assets.LineHeight
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, assets.Face, op)
}

// drawTextAt draws s with its top-left corner at (x, y).
func drawTextAt(screen *ebiten.Image, s string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.LineSpacing = assets.LineHeight
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, assets.Face, op)
}

// drawTitle draws a shadowed heading.
func drawTitle(screen *ebiten.Image, s string, cx, cy, scale float64) {
	drawText(screen, s, cx+3, cy+3, scale, color.NRGBA{A: 0x90})
	drawText(screen, s, cx, cy, scale, colorText)
}

// spawnText adds floating text to the overlay.
func (g *Game) spawnText(s string, x, y float64, c color.NRGBA, scale float64) {
	const frames = 60
	e := ecs.CreateEntity(g.overlay)
	_ = ecs.Add(g.overlay, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(g.overlay, e, component.FloatingTextComponent.Kind(), &component.FloatingText{Text: s, Color: c, Rise: 1, Scale: scale})
	_ = ecs.Add(g.overlay, e, component.VisualComponent.Kind(), component.NewVisual("text", c))
	_ = ecs.Add(g.overlay, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames, Lifetime: frames})
}

// shake asks the camera for a shake.
func (g *Game) shake(frames int, intensity float64) {
	_ = ecs.Add(g.overlay, g.camera, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{Frames: frames, Intensity: intensity})
}
