package component

// Gates are the permissions a player state grants. The controller combines
// them with timers and ground contact to produce PlayerCombat's gates.
type Gates struct {
	Move   bool
	Attack bool
	Jump   bool
}

// PlayerState defines the interface for player state machine states.
// Each state owns its own enter/exit, input handling, and update logic.
type PlayerState interface {
	Name() string
	Gates() Gates
	Enter(ctx *PlayerStateContext)
	Exit(ctx *PlayerStateContext)
	HandleInput(ctx *PlayerStateContext)
	Update(ctx *PlayerStateContext)
}

// PlayerStateContext provides controlled access to input and physics for a state.
// It intentionally uses callbacks to avoid tight coupling to the ECS package.
type PlayerStateContext struct {
	Input     *Input
	Player    *Player
	Combat    *PlayerCombat
	Abilities *Abilities

	GetVelocity       func() (x, y float64)
	SetVelocity       func(x, y float64)
	IsGrounded        func() bool
	WallSide          func() int
	ChangeState       func(state PlayerState)
	ChangeAnimation   func(animation string)
	AnimationFinished func() bool
	FacingLeft        func(facingLeft bool)
	Emit              func(event string)
}

// PlayerStateMachine stores the active and pending states for the player.
type PlayerStateMachine struct {
	State   PlayerState
	Pending PlayerState
}

var PlayerStateMachineComponent = NewComponent[PlayerStateMachine]()
