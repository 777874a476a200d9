package component

// AABB is an axis-aligned bounding box.
// X/Y are offsets relative to the owning entity's Transform.
type AABB struct {
	X float64
	Y float64
	W float64
	H float64
}

// Goal ends the level when the player enters Bounds. After DelayFrames the
// goal requests NextLevel; an empty NextLevel means the run is complete.
type Goal struct {
	ID          string
	NextLevel   string
	Bounds      AABB
	DelayFrames int

	Reached bool
	Timer   int
}

var GoalComponent = NewComponent[Goal]()
