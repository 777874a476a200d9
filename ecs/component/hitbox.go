package component

// Hitbox represents an offensive AABB relative to the entity transform.
// With Anim set it is only live while that animation shows one of Frames
// (all frames when Frames is empty). HitTargets is cleared every time the
// box goes live, so each activation hits a target at most once.
type Hitbox struct {
	Width     float64
	Height    float64
	OffsetX   float64
	OffsetY   float64
	Damage    int
	Strong    bool
	Anim      string
	Frames    []int
	AlwaysOn  bool

	Live       bool
	HitTargets map[uint64]bool
}

var HitboxComponent = NewComponent[[]Hitbox]()
