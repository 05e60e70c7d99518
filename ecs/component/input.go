package component

// Input stores per-frame pointer and key state. The input system overwrites
// it every update.
type Input struct {
	CursorX float64
	CursorY float64

	// Press and Release are edges, Held is the level.
	Press   bool
	Held    bool
	Release bool

	Ability bool
	Reset   bool
	Back    bool
	Mute    bool
	Debug   bool
}

var InputComponent = NewComponent[Input]()
