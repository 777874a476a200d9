package component

const (
	WallNone  = 0
	WallLeft  = 1
	WallRight = 2
)

// GroundContact is rebuilt from physics contacts every step for any body
// that carries it (the player and walking enemies).
type GroundContact struct {
	Grounded bool
	// GroundGrace counts down after leaving the ground; coyote time reads it.
	GroundGrace int
	// Wall is one of WallNone, WallLeft, WallRight.
	Wall int
}

var GroundContactComponent = NewComponent[GroundContact]()
