package component

// Input stores the per-frame player intent. Move is -1, 0 or 1; the
// Released flags are set on the frame a direction key goes up.
type Input struct {
	Move          int
	LeftReleased  bool
	RightReleased bool
	Drop          bool
	Restart       bool
}

var InputComponent = NewComponent[Input]()
