package component

import "image/color"

// Fill is the flat color a body is drawn with. Glyph, when set, is printed
// at the body center.
type Fill struct {
	Color color.Color
	Glyph string
}

var FillComponent = NewComponent[Fill]()
