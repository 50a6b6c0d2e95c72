package component

// CurrentTag marks the fruit the player is still steering.
type CurrentTag struct{}

var CurrentTagComponent = NewComponent[CurrentTag]()

// PreviewTag marks a current fruit that has not been admitted to the space
// yet (post-drop cooldown).
type PreviewTag struct{}

var PreviewTagComponent = NewComponent[PreviewTag]()

// BoundaryTag marks the static walls, the ground and the top sensor.
type BoundaryTag struct{}

var BoundaryTagComponent = NewComponent[BoundaryTag]()
