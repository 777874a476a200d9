package component

// RenderLayer sorts draw order; higher indices draw on top.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
