package common

const (
	BaseWidth  = 960
	BaseHeight = 540

	// TPS is the fixed update rate; all frame counts in prefabs assume it.
	TPS = 60

	// Physics runs with a unit step, so velocities are pixels per frame and
	// gravity is pixels per frame squared.
	Gravity = 0.55

	TileSize = 32.0
)
