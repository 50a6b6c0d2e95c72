package common

import "github.com/jakecoffman/cp"

// Boundary labels reported with contacts.
const (
	LabelGround  = "ground"
	LabelWall    = "wall"
	LabelTopLine = "topLine"
)

// Field describes the play area in world units (y grows downwards).
type Field struct {
	Width         float64
	Height        float64
	WallThickness float64
	GroundHeight  float64
	TopLineY      float64
	TopLineHeight float64
	Spawn         cp.Vector
}

// DefaultField mirrors the classic 620x850 board.
func DefaultField() Field {
	return Field{
		Width:         620,
		Height:        850,
		WallThickness: 30,
		GroundHeight:  60,
		TopLineY:      150,
		TopLineHeight: 2,
		Spawn:         cp.Vector{X: 300, Y: 30},
	}
}

// HorizontalRange is the interval a body center of radius r may occupy
// without its edge crossing the interior face of either wall.
func (f Field) HorizontalRange(r float64) (float64, float64) {
	return f.WallThickness + r, f.Width - f.WallThickness - r
}

// IsBoundaryLabel reports whether label names a static field body.
func IsBoundaryLabel(label string) bool {
	switch label {
	case LabelGround, LabelWall, LabelTopLine:
		return true
	}
	return false
}
