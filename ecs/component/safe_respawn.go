package component

// SafeRespawn stores the last position where the player stood on solid
// ground away from hazards. Non-lethal pit falls return here.
type SafeRespawn struct {
	X           float64
	Y           float64
	Initialized bool
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()
