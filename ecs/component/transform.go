package component

// Transform is the world-space center of an entity. Physics writes it back
// after every step; renderers only read it.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
