package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// HazardSystem applies overlap damage from hazards, tracks the player's
// last safe position and enforces the kill plane below the level.
type HazardSystem struct{}

func NewHazardSystem() *HazardSystem { return &HazardSystem{} }

type hazardHitSource struct {
	bounds aabb
	entity ecs.Entity
	hazard *component.Hazard
}

func hazardBounds(w *ecs.World, e ecs.Entity, h *component.Hazard, t *component.Transform) (aabb, bool) {
	if h == nil || t == nil || h.Width <= 0 || h.Height <= 0 {
		return aabb{}, false
	}
	x := t.X + facingAdjustedOffsetX(w, e, h.OffsetX, h.Width, true)
	return aabb{X: x, Y: t.Y + h.OffsetY, W: h.Width, H: h.Height}, true
}

func (s *HazardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var hazards []hazardHitSource
	ecs.ForEach2(w, component.HazardComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, h *component.Hazard, t *component.Transform) {
		if h.Inactive {
			return
		}
		if b, ok := hazardBounds(w, e, h, t); ok {
			hazards = append(hazards, hazardHitSource{bounds: b, entity: e, hazard: h})
		}
	})

	if player, ok := playerEntity(w); ok {
		s.updatePlayer(w, player, hazards)
	}
	s.updateEnemies(w, hazards)
}

func (s *HazardSystem) updatePlayer(w *ecs.World, player ecs.Entity, hazards []hazardHitSource) {
	t, tok := ecs.Get(w, player, component.TransformComponent.Kind())
	body, bok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !tok || !bok {
		return
	}
	playerBox, ok := bodyAABB(w, player, t, body)
	if !ok {
		return
	}

	overHazard := false
	for _, hz := range hazards {
		if hz.entity == player || !overlapsAABB(playerBox, hz.bounds) {
			continue
		}
		overHazard = true
		dealt := applyDamage(w, player, damageSource{
			entity:    hz.entity,
			x:         hz.bounds.CenterX(),
			y:         hz.bounds.CenterY(),
			damage:    hz.hazard.Damage,
			strong:    hz.hazard.Strong,
			instakill: hz.hazard.Instakill,
		})
		if dealt && hz.hazard.Respawn {
			requestSafeRespawn(w, player)
		}
		break
	}

	if s.belowKillPlane(w, playerBox) {
		overHazard = true
		if health, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && !health.Dead() {
			// Pits ignore invulnerability; otherwise a hurt player falls forever.
			ecs.Remove(w, player, component.InvulnerableComponent.Kind())
			applyDamage(w, player, damageSource{x: playerBox.CenterX(), y: playerBox.Y + playerBox.H*2, damage: 1})
			requestSafeRespawn(w, player)
		}
	}

	safe, hasSafe := ecs.Get(w, player, component.SafeRespawnComponent.Kind())
	if !hasSafe {
		safe = &component.SafeRespawn{}
		_ = ecs.Add(w, player, component.SafeRespawnComponent.Kind(), safe)
	}
	if !safe.Initialized {
		safe.X, safe.Y, safe.Initialized = t.X, t.Y, true
	}
	if gc, ok := ecs.Get(w, player, component.GroundContactComponent.Kind()); ok && gc.Grounded && !overHazard {
		safe.X, safe.Y = t.X, t.Y
	}
}

func (s *HazardSystem) updateEnemies(w *ecs.World, hazards []hazardHitSource) {
	ecs.ForEach3(w, component.EnemyTagComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.EnemyTag, t *component.Transform, body *component.PhysicsBody) {
		box, ok := bodyAABB(w, e, t, body)
		if !ok {
			return
		}
		if s.belowKillPlane(w, box) {
			if health, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !health.Dead() {
				health.Current = 0
				enqueueAIEvent(w, e, "died")
				EmitGameEvent(w, "enemy_killed")
			}
			return
		}
		for _, hz := range hazards {
			if hz.entity == e || ecs.Has(w, hz.entity, component.EnemyTagComponent.Kind()) {
				continue
			}
			if !hz.hazard.Instakill && !hz.hazard.Respawn {
				continue
			}
			if overlapsAABB(box, hz.bounds) {
				applyDamage(w, e, damageSource{entity: hz.entity, x: hz.bounds.CenterX(), y: hz.bounds.CenterY(), instakill: true})
				return
			}
		}
	})
}

func (s *HazardSystem) belowKillPlane(w *ecs.World, box aabb) bool {
	be, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return false
	}
	bounds, _ := ecs.Get(w, be, component.LevelBoundsComponent.Kind())
	if bounds.Height <= 0 {
		return false
	}
	margin := bounds.KillMargin
	if margin <= 0 {
		margin = 64
	}
	return box.Y > bounds.Height+margin
}

func requestSafeRespawn(w *ecs.World, player ecs.Entity) {
	if ecs.Has(w, player, component.RespawnRequestComponent.Kind()) {
		return
	}
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h.Dead() {
		return
	}
	_ = ecs.Add(w, player, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
}
