package system

import (
	"strconv"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs/component"
)

// Player state singletons (avoid allocations on transitions).
var (
	playerStateIdle      component.PlayerState = &playerIdleState{}
	playerStateRun       component.PlayerState = &playerRunState{}
	playerStateJump      component.PlayerState = &playerJumpState{}
	playerStateFall      component.PlayerState = &playerFallState{}
	playerStateAttack    component.PlayerState = &playerAttackState{}
	playerStateAirAttack component.PlayerState = &playerAirAttackState{}
	playerStateHurt      component.PlayerState = &playerHurtState{}
	playerStateDead      component.PlayerState = &playerDeadState{}
)

var playerStatesByName = map[string]component.PlayerState{
	"idle":       playerStateIdle,
	"run":        playerStateRun,
	"jump":       playerStateJump,
	"fall":       playerStateFall,
	"attack":     playerStateAttack,
	"air_attack": playerStateAirAttack,
	"hurt":       playerStateHurt,
	"dead":       playerStateDead,
}

var (
	gatesFree   = component.Gates{Move: true, Attack: true, Jump: true}
	gatesLocked = component.Gates{}
)

type playerIdleState struct{}

type playerRunState struct{}

type playerJumpState struct{}

type playerFallState struct{}

type playerAttackState struct{}

type playerAirAttackState struct{}

type playerHurtState struct{}

type playerDeadState struct{}

// tryJump consumes a buffered jump press. Ground and coyote jumps come
// first, then wall jumps, then the double jump.
func tryJump(ctx *component.PlayerStateContext) bool {
	c := ctx.Combat
	if c.JumpBuffer <= 0 || !c.CanJump {
		return false
	}
	switch {
	case ctx.IsGrounded() || c.Coyote > 0:
	case ctx.Abilities != nil && ctx.Abilities.WallJump && ctx.WallSide() != component.WallNone:
		c.WallJumpDir = 1
		if ctx.WallSide() == component.WallRight {
			c.WallJumpDir = -1
		}
		c.WallJumpLock = ctx.Player.WallJumpFrames
	case ctx.Abilities != nil && ctx.Abilities.DoubleJump && c.AirJumpsUsed < 1:
		c.AirJumpsUsed++
	default:
		return false
	}
	c.JumpBuffer = 0
	c.Coyote = 0
	ctx.ChangeState(playerStateJump)
	return true
}

func tryAttack(ctx *component.PlayerStateContext) bool {
	if !ctx.Input.AttackPressed || !ctx.Combat.CanAttack {
		return false
	}
	if ctx.IsGrounded() {
		ctx.ChangeState(playerStateAttack)
	} else {
		ctx.ChangeState(playerStateAirAttack)
	}
	return true
}

func faceInput(ctx *component.PlayerStateContext) {
	if !ctx.Combat.CanMove {
		return
	}
	if ctx.Input.MoveX > 0 {
		ctx.FacingLeft(false)
	} else if ctx.Input.MoveX < 0 {
		ctx.FacingLeft(true)
	}
}

// airMove steers toward the input direction; wall-jump lock overrides input
// for a few frames so the push off the wall is not cancelled instantly.
func airMove(ctx *component.PlayerStateContext) {
	x, y := ctx.GetVelocity()
	c := ctx.Combat
	if c.WallJumpLock > 0 {
		c.WallJumpLock--
		x = c.WallJumpDir * ctx.Player.WallJumpPush
	} else if c.CanMove {
		target := ctx.Input.MoveX * ctx.Player.MoveSpeed
		control := ctx.Player.AirControl
		if control <= 0 {
			control = 1
		}
		x = common.Lerp(x, target, control)
	}
	if limit := ctx.Player.MaxFallSpeed; limit > 0 && y > limit {
		y = limit
	}
	ctx.SetVelocity(x, y)
}

func landState(ctx *component.PlayerStateContext) component.PlayerState {
	if ctx.Input.MoveX != 0 && ctx.Combat.CanMove {
		return playerStateRun
	}
	return playerStateIdle
}

func (playerIdleState) Name() string           { return "idle" }
func (playerIdleState) Gates() component.Gates { return gatesFree }
func (playerIdleState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation("idle")
}
func (playerIdleState) Exit(ctx *component.PlayerStateContext) {}
func (playerIdleState) HandleInput(ctx *component.PlayerStateContext) {
	if tryAttack(ctx) || tryJump(ctx) {
		return
	}
	if ctx.Input.MoveX != 0 && ctx.Combat.CanMove {
		ctx.ChangeState(playerStateRun)
	}
}
func (playerIdleState) Update(ctx *component.PlayerStateContext) {
	x, y := ctx.GetVelocity()
	ctx.SetVelocity(common.Approach(x, 0, ctx.Player.MoveSpeed/3), y)
	if !ctx.IsGrounded() {
		ctx.ChangeState(playerStateFall)
	}
}

func (playerRunState) Name() string           { return "run" }
func (playerRunState) Gates() component.Gates { return gatesFree }
func (playerRunState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation("run")
}
func (playerRunState) Exit(ctx *component.PlayerStateContext) {}
func (playerRunState) HandleInput(ctx *component.PlayerStateContext) {
	if tryAttack(ctx) || tryJump(ctx) {
		return
	}
	if ctx.Input.MoveX == 0 || !ctx.Combat.CanMove {
		ctx.ChangeState(playerStateIdle)
		return
	}
	faceInput(ctx)
}
func (playerRunState) Update(ctx *component.PlayerStateContext) {
	_, y := ctx.GetVelocity()
	ctx.SetVelocity(ctx.Input.MoveX*ctx.Player.MoveSpeed, y)
	if !ctx.IsGrounded() {
		ctx.ChangeState(playerStateFall)
	}
}

func (playerJumpState) Name() string           { return "jump" }
func (playerJumpState) Gates() component.Gates { return gatesFree }
func (playerJumpState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation("jump")
	x, _ := ctx.GetVelocity()
	if ctx.Combat.WallJumpLock > 0 {
		x = ctx.Combat.WallJumpDir * ctx.Player.WallJumpPush
		ctx.FacingLeft(ctx.Combat.WallJumpDir < 0)
	}
	ctx.SetVelocity(x, -ctx.Player.JumpSpeed)
	ctx.Combat.JumpHold = ctx.Player.JumpHoldFrames
	ctx.Emit("player_jump")
}
func (playerJumpState) Exit(ctx *component.PlayerStateContext) {
	ctx.Combat.JumpHold = 0
}
func (playerJumpState) HandleInput(ctx *component.PlayerStateContext) {
	if tryAttack(ctx) || tryJump(ctx) {
		return
	}
	if ctx.Input.JumpReleased {
		// Variable height: releasing early cuts the rise.
		ctx.Combat.JumpHold = 0
		x, y := ctx.GetVelocity()
		if y < 0 {
			ctx.SetVelocity(x, y*0.5)
		}
	}
	faceInput(ctx)
}
func (playerJumpState) Update(ctx *component.PlayerStateContext) {
	if ctx.Input.Jump && ctx.Combat.JumpHold > 0 {
		x, y := ctx.GetVelocity()
		ctx.SetVelocity(x, y-ctx.Player.JumpHoldBoost)
		ctx.Combat.JumpHold--
	}
	airMove(ctx)
	if _, y := ctx.GetVelocity(); y >= 0 {
		ctx.ChangeState(playerStateFall)
	}
}

func (playerFallState) Name() string           { return "fall" }
func (playerFallState) Gates() component.Gates { return gatesFree }
func (playerFallState) Enter(ctx *component.PlayerStateContext) {
	ctx.ChangeAnimation("fall")
}
func (playerFallState) Exit(ctx *component.PlayerStateContext) {}
func (playerFallState) HandleInput(ctx *component.PlayerStateContext) {
	if tryAttack(ctx) || tryJump(ctx) {
		return
	}
	faceInput(ctx)
}
func (playerFallState) Update(ctx *component.PlayerStateContext) {
	airMove(ctx)
	wall := ctx.WallSide()
	pushing := (wall == component.WallLeft && ctx.Input.MoveX < 0) || (wall == component.WallRight && ctx.Input.MoveX > 0)
	if pushing && ctx.Abilities != nil && ctx.Abilities.WallJump && ctx.Player.WallSlideSpeed > 0 {
		if x, y := ctx.GetVelocity(); y > ctx.Player.WallSlideSpeed {
			ctx.SetVelocity(x, ctx.Player.WallSlideSpeed)
		}
	}
	if ctx.IsGrounded() {
		if tryJump(ctx) {
			return
		}
		ctx.ChangeState(landState(ctx))
	}
}

func attackAnimation(step int) string {
	return "attack" + strconv.Itoa(step)
}

func (playerAttackState) Name() string { return "attack" }
func (playerAttackState) Gates() component.Gates {
	return component.Gates{}
}
func (playerAttackState) Enter(ctx *component.PlayerStateContext) {
	c := ctx.Combat
	comboMax := max(ctx.Player.ComboMax, 1)
	if c.ComboTimer > 0 && c.ComboStep < comboMax {
		c.ComboStep++
	} else {
		c.ComboStep = 1
	}
	c.ComboTimer = 0
	c.AttackTimer = max(ctx.Player.AttackFrames, 1)
	ctx.ChangeAnimation(attackAnimation(c.ComboStep))
	_, y := ctx.GetVelocity()
	ctx.SetVelocity(0, y)
	ctx.Emit("player_attack")
}
func (playerAttackState) Exit(ctx *component.PlayerStateContext) {
	c := ctx.Combat
	if c.ComboStep >= max(ctx.Player.ComboMax, 1) {
		c.ComboStep = 0
		c.ComboTimer = 0
		c.AttackCooldown = ctx.Player.AttackCooldown
		return
	}
	c.ComboTimer = ctx.Player.ComboWindow
}
func (playerAttackState) HandleInput(ctx *component.PlayerStateContext) {}
func (playerAttackState) Update(ctx *component.PlayerStateContext) {
	x, y := ctx.GetVelocity()
	ctx.SetVelocity(common.Approach(x, 0, 0.5), y)
	ctx.Combat.AttackTimer--
	if ctx.Combat.AttackTimer > 0 {
		return
	}
	if !ctx.IsGrounded() {
		ctx.ChangeState(playerStateFall)
		return
	}
	ctx.ChangeState(landState(ctx))
}

func (playerAirAttackState) Name() string { return "air_attack" }

// Air attacks keep drift control but cannot chain or jump.
func (playerAirAttackState) Gates() component.Gates {
	return component.Gates{Move: true}
}
func (playerAirAttackState) Enter(ctx *component.PlayerStateContext) {
	ctx.Combat.AttackTimer = max(ctx.Player.AirAttackFrames, 1)
	ctx.Combat.ComboStep = 0
	ctx.Combat.ComboTimer = 0
	ctx.ChangeAnimation("air_attack")
	ctx.Emit("player_attack")
}
func (playerAirAttackState) Exit(ctx *component.PlayerStateContext) {
	ctx.Combat.AttackCooldown = ctx.Player.AttackCooldown
}
func (playerAirAttackState) HandleInput(ctx *component.PlayerStateContext) {}
func (playerAirAttackState) Update(ctx *component.PlayerStateContext) {
	airMove(ctx)
	ctx.Combat.AttackTimer--
	if ctx.IsGrounded() {
		ctx.ChangeState(landState(ctx))
		return
	}
	if ctx.Combat.AttackTimer <= 0 {
		ctx.ChangeState(playerStateFall)
	}
}

func (playerHurtState) Name() string           { return "hurt" }
func (playerHurtState) Gates() component.Gates { return gatesLocked }
func (playerHurtState) Enter(ctx *component.PlayerStateContext) {
	c := ctx.Combat
	c.HurtStun = max(ctx.Player.HurtStunFrames, 1)
	c.ComboStep = 0
	c.ComboTimer = 0
	c.AttackTimer = 0
	c.WallJumpLock = 0
	ctx.ChangeAnimation("hurt")
}
func (playerHurtState) Exit(ctx *component.PlayerStateContext) {}
func (playerHurtState) HandleInput(ctx *component.PlayerStateContext) {}
func (playerHurtState) Update(ctx *component.PlayerStateContext) {
	if ctx.Combat.HurtStun > 0 {
		return
	}
	if !ctx.IsGrounded() {
		ctx.ChangeState(playerStateFall)
		return
	}
	ctx.ChangeState(playerStateIdle)
}

func (playerDeadState) Name() string           { return "dead" }
func (playerDeadState) Gates() component.Gates { return gatesLocked }
func (playerDeadState) Enter(ctx *component.PlayerStateContext) {
	ctx.Combat.Dead = true
	ctx.Combat.ComboStep = 0
	ctx.Combat.JumpBuffer = 0
	ctx.ChangeAnimation("death")
	ctx.Emit("player_died")
}
func (playerDeadState) Exit(ctx *component.PlayerStateContext) {
	ctx.Combat.Dead = false
}
func (playerDeadState) HandleInput(ctx *component.PlayerStateContext) {}
func (playerDeadState) Update(ctx *component.PlayerStateContext) {
	_, y := ctx.GetVelocity()
	ctx.SetVelocity(0, y)
}
