package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are owned by the physics system and are nil until the first
// sync after the component is added.
type PhysicsBody struct {
	Body         *cp.Body
	Shape        *cp.Shape
	Width        float64
	Height       float64
	Mass         float64
	Friction     float64
	Elasticity   float64
	Static       bool
	AlignTopLeft bool
	OffsetX      float64
	OffsetY      float64
	// Disabled removes the shape from the space until cleared (open gates).
	Disabled bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
