package component

// Player holds the movement and combat tunables loaded from the player
// prefab. All durations are in frames.
type Player struct {
	MoveSpeed        float64
	AirControl       float64
	JumpSpeed        float64
	JumpHoldFrames   int
	JumpHoldBoost    float64
	MaxFallSpeed     float64
	CoyoteFrames     int
	JumpBufferFrames int

	WallSlideSpeed float64
	WallJumpPush   float64
	WallJumpFrames int

	AttackFrames    int
	AirAttackFrames int
	AttackCooldown  int
	ComboMax        int
	ComboWindow     int

	HurtStunFrames       int
	InvulnFrames         int
	HitFreezeFrames      int
	DamageShakeFrames    int
	DamageShakeIntensity float64
	RespawnDelayFrames   int
}

var PlayerComponent = NewComponent[Player]()
