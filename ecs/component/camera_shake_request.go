package component

// CameraShakeRequest asks the camera system to apply a short shake effect.
// Intensity is the peak offset in pixels.
type CameraShakeRequest struct {
	Frames    int
	Intensity float64
}

var CameraShakeRequestComponent = NewComponent[CameraShakeRequest]()
