package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type damageSource struct {
	entity    ecs.Entity
	x         float64
	y         float64
	damage    int
	strong    bool
	instakill bool
}

// applyDamage is the single path for hitboxes, projectiles and hazards. It
// reports whether any damage was dealt. Invulnerable or already dead targets
// are ignored.
func applyDamage(w *ecs.World, target ecs.Entity, src damageSource) bool {
	health, ok := ecs.Get(w, target, component.HealthComponent.Kind())
	if !ok || health.Dead() {
		return false
	}
	if ecs.Has(w, target, component.InvulnerableComponent.Kind()) {
		return false
	}
	dmg := src.damage
	if src.instakill {
		dmg = health.Current
	}
	if dmg <= 0 {
		return false
	}
	health.Current -= dmg
	if health.Current < 0 {
		health.Current = 0
	}

	_ = ecs.Add(w, target, component.DamageKnockbackRequestComponent.Kind(), &component.DamageKnockback{
		SourceX:      src.x,
		SourceY:      src.y,
		Strong:       src.strong,
		SourceEntity: uint64(src.entity),
	})

	if ecs.Has(w, target, component.PlayerTagComponent.Kind()) {
		damagePlayer(w, target, health)
	} else {
		damageEnemy(w, target, health, src)
	}

	if src.entity != 0 && ecs.IsAlive(w, src.entity) {
		_ = ecs.Add(w, src.entity, component.HitEventComponent.Kind(), &component.HitEvent{Target: uint64(target), Damage: dmg})
	}
	return true
}

func damagePlayer(w *ecs.World, player ecs.Entity, health *component.Health) {
	cfg, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
	invuln, freeze, shakeFrames, shake := 60, 4, 10, 3.0
	if cfg != nil {
		invuln, freeze, shakeFrames, shake = cfg.InvulnFrames, cfg.HitFreezeFrames, cfg.DamageShakeFrames, cfg.DamageShakeIntensity
	}

	EmitGameEvent(w, "player_damaged")
	requestHitFreeze(w, freeze)
	requestCameraShake(w, shakeFrames, shake)
	playSound(w, player, "hurt")

	if health.Dead() {
		_ = ecs.Add(w, player, component.PlayerStateInterruptComponent.Kind(), &component.PlayerStateInterrupt{State: "dead"})
		return
	}
	grantInvulnerable(w, player, invuln)
	addWhiteFlash(w, player, invuln, 4)
	_ = ecs.Add(w, player, component.PlayerStateInterruptComponent.Kind(), &component.PlayerStateInterrupt{State: "hurt"})
}

func damageEnemy(w *ecs.World, enemy ecs.Entity, health *component.Health, src damageSource) {
	addWhiteFlash(w, enemy, 8, 2)
	playSound(w, enemy, "hurt")

	// Being hit always aggroes, even from outside the follow range.
	if src.entity != 0 && ecs.Has(w, src.entity, component.PlayerTagComponent.Kind()) {
		engage(w, enemy)
	}

	EmitGameEvent(w, "enemy_damaged")
	if health.Dead() {
		enqueueAIEvent(w, enemy, "died")
		EmitGameEvent(w, "enemy_killed")
		return
	}
	enqueueAIEvent(w, enemy, "damaged")
}
