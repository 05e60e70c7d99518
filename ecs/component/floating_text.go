package component

import "image/color"

// FloatingText is screen text that drifts upward while its TTL runs.
type FloatingText struct {
	Text  string
	Color color.NRGBA
	Rise  float64
	Scale float64
}

var FloatingTextComponent = NewComponent[FloatingText]()
