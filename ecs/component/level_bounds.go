package component

// LevelBounds stores the world-space bounds of the current level. Anything
// falling KillMargin below the bottom edge is in the pit.
type LevelBounds struct {
	Width      float64
	Height     float64
	KillMargin float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
