package component

// Render layers used by the field. Lower indices draw first.
const (
	LayerBoundary = 0
	LayerFruit    = 10
	LayerPreview  = 20
)

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
