package component

import "github.com/jakecoffman/cp"

// Launcher is the slingshot anchor. Spring holds the loaded projectile until
// it is detached after release.
type Launcher struct {
	X, Y       float64
	Stiffness  float64
	Damping    float64
	RestLength float64
	MaxDrag    float64
	Power      float64

	Spring *cp.Constraint
}

var LauncherComponent = NewComponent[Launcher]()

// Rope holds the constraints realizing a structural link, kept for drawing.
type Rope struct {
	Constraints []*cp.Constraint
}

var RopeComponent = NewComponent[Rope]()
