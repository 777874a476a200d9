package component

// Transform is the world position of an entity. For physics bodies it is the
// body centre unless the body is AlignTopLeft.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
