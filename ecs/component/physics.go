package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Label is the contact label reported to collision consumers: a fruit tier
// name, or one of the boundary labels.
type PhysicsBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Label      string
	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
	Sensor     bool
	// Inert bodies are kinematic: they ignore gravity until woken.
	Inert bool
	// InSpace is false for preview bodies that exist only to be drawn.
	InSpace bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
