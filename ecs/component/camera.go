package component

// Camera offsets the world when drawing. The camera system writes the shake
// offset each frame.
type Camera struct {
	OffsetX float64
	OffsetY float64

	ShakeFrames    int
	ShakeTotal     int
	ShakeIntensity float64
}

var CameraComponent = NewComponent[Camera]()

// Decay is the remaining share of the current shake, 1 when it starts and 0
// once it is over.
func (c *Camera) Decay() float64 {
	if c.ShakeTotal <= 0 || c.ShakeFrames <= 0 {
		return 0
	}
	return float64(c.ShakeFrames) / float64(c.ShakeTotal)
}
