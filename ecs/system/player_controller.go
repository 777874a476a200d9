package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// PlayerControllerSystem runs the player state machine. Each frame it ticks
// the combat timers, applies interrupts, recomputes the CanMove, CanAttack
// and CanJump gates, then lets the active state handle input and update.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach5(w,
		component.PlayerTagComponent.Kind(),
		component.InputComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.PlayerCombatComponent.Kind(),
		component.PlayerStateMachineComponent.Kind(),
		func(e ecs.Entity, _ *component.PlayerTag, rawInput *component.Input, player *component.Player, combat *component.PlayerCombat, sm *component.PlayerStateMachine) {
			body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if !ok || body.Body == nil {
				return
			}
			p.step(w, e, rawInput, player, combat, sm)
		})
}

func (p *PlayerControllerSystem) step(w *ecs.World, e ecs.Entity, rawInput *component.Input, player *component.Player, combat *component.PlayerCombat, sm *component.PlayerStateMachine) {
	input := *rawInput
	if input.Disabled || combat.Dead {
		input = component.Input{Disabled: input.Disabled}
	}

	contact, _ := ecs.Get(w, e, component.GroundContactComponent.Kind())
	grounded := contact != nil && contact.Grounded
	wall := component.WallNone
	if contact != nil {
		wall = contact.Wall
	}
	abilities, _ := ecs.Get(w, e, component.AbilitiesComponent.Kind())

	tickCombatTimers(combat, player, input, grounded)

	ctx := &component.PlayerStateContext{
		Input:     &input,
		Player:    player,
		Combat:    combat,
		Abilities: abilities,
		GetVelocity: func() (float64, float64) {
			return entityVelocity(w, e)
		},
		SetVelocity: func(x, y float64) {
			setEntityVelocity(w, e, x, y)
		},
		IsGrounded: func() bool { return grounded },
		WallSide:   func() int { return wall },
		ChangeState: func(state component.PlayerState) {
			sm.Pending = state
		},
		ChangeAnimation: func(name string) {
			if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
				if _, has := anim.Defs[name]; has || len(anim.Defs) == 0 {
					anim.Play(name, true)
				}
			}
		},
		AnimationFinished: func() bool {
			anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
			return !ok || anim.Finished
		},
		FacingLeft: func(left bool) {
			if s, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
				s.FacingLeft = left
			}
		},
		Emit: func(event string) { EmitGameEvent(w, event) },
	}

	if interrupt, ok := ecs.Get(w, e, component.PlayerStateInterruptComponent.Kind()); ok {
		ecs.Remove(w, e, component.PlayerStateInterruptComponent.Kind())
		if next, ok := playerStatesByName[interrupt.State]; ok {
			// Death is final until the scene reloads; only "idle" revives.
			if sm.State != playerStateDead || next == playerStateIdle {
				sm.Pending = next
			}
		}
	}

	if sm.State == nil {
		sm.State = playerStateIdle
		sm.State.Enter(ctx)
	}
	p.applyPending(w, e, sm, ctx)

	computeGates(combat, sm.State.Gates(), abilities, grounded, wall, input.Disabled)

	sm.State.HandleInput(ctx)
	p.applyPending(w, e, sm, ctx)
	sm.State.Update(ctx)
	p.applyPending(w, e, sm, ctx)
}

func (p *PlayerControllerSystem) applyPending(w *ecs.World, e ecs.Entity, sm *component.PlayerStateMachine, ctx *component.PlayerStateContext) {
	// Bounded so two states bouncing on the same frame cannot spin.
	for i := 0; i < 4 && sm.Pending != nil; i++ {
		next := sm.Pending
		sm.Pending = nil
		if next == sm.State && next != playerStateAttack && next != playerStateHurt {
			continue
		}
		sm.State.Exit(ctx)
		sm.State = next
		sm.State.Enter(ctx)
		if next == playerStateDead {
			delay := ctx.Player.RespawnDelayFrames
			if delay <= 0 {
				delay = 90
			}
			_ = ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{DelayFrames: delay})
		}
		computeGates(ctx.Combat, sm.State.Gates(), ctx.Abilities, ctx.IsGrounded(), ctx.WallSide(), ctx.Input.Disabled)
	}
}

func tickCombatTimers(c *component.PlayerCombat, player *component.Player, input component.Input, grounded bool) {
	if c.AttackCooldown > 0 {
		c.AttackCooldown--
	}
	if c.HurtStun > 0 {
		c.HurtStun--
	}
	if c.ComboTimer > 0 {
		c.ComboTimer--
		if c.ComboTimer == 0 {
			c.ComboStep = 0
		}
	}
	if c.JumpBuffer > 0 {
		c.JumpBuffer--
	}
	if input.JumpPressed {
		c.JumpBuffer = max(player.JumpBufferFrames, 1)
	}
	if grounded {
		c.Coyote = player.CoyoteFrames
		c.AirJumpsUsed = 0
		c.WallJumpLock = 0
	} else if c.Coyote > 0 {
		c.Coyote--
	}
}

// computeGates combines what the active state allows with the timers and
// contacts that can veto it.
func computeGates(c *component.PlayerCombat, g component.Gates, abilities *component.Abilities, grounded bool, wall int, disabled bool) {
	blocked := c.Dead || disabled || c.HurtStun > 0
	c.CanMove = g.Move && !blocked
	c.CanAttack = g.Attack && !blocked && c.AttackCooldown == 0

	jumpSource := grounded || c.Coyote > 0
	if abilities != nil {
		if abilities.WallJump && wall != component.WallNone {
			jumpSource = true
		}
		if abilities.DoubleJump && c.AirJumpsUsed < 1 {
			jumpSource = true
		}
	}
	c.CanJump = g.Jump && !blocked && jumpSource
}
