// Package assets holds the runtime resources the front-end draws and plays:
// the HUD font faces and the cue players.
package assets

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Face is the HUD font. basicfont glyphs are 7x13.
var Face text.Face = text.NewGoXFace(basicfont.Face7x13)

// LineHeight is the vertical advance for Face.
const LineHeight = 16

// Measure returns the drawn width of s in Face.
func Measure(s string) float64 {
	w, _ := text.Measure(s, Face, LineHeight)
	return w
}
