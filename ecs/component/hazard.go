package component

// Hazard damages the player on overlap. Bounds are expressed in world units
// relative to Transform (top-left origin).
type Hazard struct {
	Width     float64
	Height    float64
	OffsetX   float64
	OffsetY   float64
	Damage    int
	Strong    bool
	Instakill bool
	// Respawn sends a surviving player back to the last safe ground.
	Respawn bool
	// Inactive hazards (retracted spikes) are skipped.
	Inactive bool
}

var HazardComponent = NewComponent[Hazard]()
