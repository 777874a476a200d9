package component

// HitEvent is added to an attacker for the frame its hitbox lands, so the
// attacker can react (hit sound, pogo, combo extension).
type HitEvent struct {
	Target uint64
	Damage int
}

var HitEventComponent = NewComponent[HitEvent]()
