package component

// TrapCycle switches the entity's Hazard on and off: OnFrames active, then
// OffFrames inactive, starting Offset frames into the cycle.
type TrapCycle struct {
	OnFrames  int
	OffFrames int
	Offset    int
	Timer     int
}

// ArrowTrap fires a projectile every IntervalFrames.
type ArrowTrap struct {
	IntervalFrames int
	Timer          int
	Speed          float64
	DirX           float64
	DirY           float64
	Damage         int
	LifetimeFrames int
}

// FallingTrap hangs until the player passes within TriggerWidth below it,
// waits DelayFrames, then falls as a hazard.
type FallingTrap struct {
	TriggerWidth float64
	DelayFrames  int
	FallSpeed    float64

	Triggered bool
	Delay     int
	Falling   bool
}

var TrapCycleComponent = NewComponent[TrapCycle]()
var ArrowTrapComponent = NewComponent[ArrowTrap]()
var FallingTrapComponent = NewComponent[FallingTrap]()
