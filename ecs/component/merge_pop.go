package component

import "image/color"

// MergePop is a short expanding ring drawn where two fruits merged. The
// entity is destroyed when Frames reaches zero.
type MergePop struct {
	Radius float64
	Color  color.Color
	Frames int
	Total  int
}

var MergePopComponent = NewComponent[MergePop]()
