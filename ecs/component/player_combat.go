package component

// PlayerCombat carries the per-frame movement and attack gates plus the
// counters they are derived from. The player controller recomputes the gates
// at the start of every frame.
type PlayerCombat struct {
	CanMove   bool
	CanAttack bool
	CanJump   bool

	ComboStep      int
	ComboTimer     int
	AttackTimer    int
	AttackCooldown int
	HurtStun       int
	JumpBuffer     int
	JumpHold       int
	Coyote         int
	WallJumpLock   int
	WallJumpDir    float64
	AirJumpsUsed   int
	Dead           bool
}

var PlayerCombatComponent = NewComponent[PlayerCombat]()
