package component

// RepulsionLayer lets enemies push apart when they bunch up. Category is
// this entity's bit (zero means 1) and Mask the bits it repels (zero means
// all).
type RepulsionLayer struct {
	Category uint32
	Mask     uint32
	Radius   float64
	Strength float64
}

var RepulsionLayerComponent = NewComponent[RepulsionLayer]()
