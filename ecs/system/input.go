package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

// InputSystem samples mouse, touch and keyboard into every Input component.
// The first active touch behaves like the left mouse button.
type InputSystem struct {
	touch    ebiten.TouchID
	touching bool
	touches  []ebiten.TouchID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	press := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	held := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	release := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	if !i.touching {
		i.touches = inpututil.AppendJustPressedTouchIDs(i.touches[:0])
		if len(i.touches) > 0 {
			i.touch = i.touches[0]
			i.touching = true
			press = true
		}
	}
	if i.touching {
		if inpututil.IsTouchJustReleased(i.touch) {
			i.touching = false
			release = true
			tx, ty := inpututil.TouchPositionInPreviousTick(i.touch)
			x, y = float64(tx), float64(ty)
		} else {
			tx, ty := ebiten.TouchPosition(i.touch)
			x, y = float64(tx), float64(ty)
			held = true
		}
	}

	ability := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	reset := inpututil.IsKeyJustPressed(ebiten.KeyR)
	back := inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	mute := inpututil.IsKeyJustPressed(ebiten.KeyM)
	debug := inpututil.IsKeyJustPressed(ebiten.KeyF3)

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.CursorX = x
		input.CursorY = y
		input.Press = press
		input.Held = held
		input.Release = release
		input.Ability = ability
		input.Reset = reset
		input.Back = back
		input.Mute = mute
		input.Debug = debug
	})
}
