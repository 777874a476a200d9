package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// CombatSystem resolves hitbox vs hurtbox overlaps between hostile factions.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

func frameActive(frames []int, frame int) bool {
	for _, f := range frames {
		if f == frame {
			return true
		}
	}
	return false
}

// hitboxLive reports whether hb is active for the entity's current
// animation frame.
func hitboxLive(w *ecs.World, e ecs.Entity, hb *component.Hitbox) bool {
	if hb.AlwaysOn {
		return true
	}
	if hb.Anim == "" {
		return false
	}
	anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind())
	if !ok || anim.Current != hb.Anim {
		return false
	}
	return len(hb.Frames) == 0 || frameActive(hb.Frames, anim.Frame)
}

type hurtTarget struct {
	entity ecs.Entity
	team   component.Team
	boxes  []aabb
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var targets []hurtTarget
	ecs.ForEach3(w, component.HurtboxComponent.Kind(), component.TransformComponent.Kind(), component.FactionComponent.Kind(), func(e ecs.Entity, hurt *[]component.Hurtbox, t *component.Transform, f *component.Faction) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead() {
			return
		}
		ht := hurtTarget{entity: e, team: f.Team}
		for i := range *hurt {
			ht.boxes = append(ht.boxes, hurtboxAABB(w, e, t, &(*hurt)[i]))
		}
		targets = append(targets, ht)
	})

	ecs.ForEach3(w, component.HitboxComponent.Kind(), component.TransformComponent.Kind(), component.FactionComponent.Kind(), func(e ecs.Entity, hitboxes *[]component.Hitbox, t *component.Transform, f *component.Faction) {
		attackerDead := false
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead() {
			attackerDead = true
		}
		for i := range *hitboxes {
			hb := &(*hitboxes)[i]
			live := !attackerDead && hitboxLive(w, e, hb)
			if live && !hb.Live {
				hb.HitTargets = make(map[uint64]bool)
			}
			hb.Live = live
			if !live {
				continue
			}

			box := hitboxAABB(w, e, t, hb)
			for _, target := range targets {
				if target.entity == e || !f.Team.Hostile(target.team) || hb.HitTargets[uint64(target.entity)] {
					continue
				}
				if !ecs.IsAlive(w, target.entity) {
					continue
				}
				for _, hurt := range target.boxes {
					if !overlapsAABB(box, hurt) {
						continue
					}
					dealt := applyDamage(w, target.entity, damageSource{
						entity: e,
						x:      box.CenterX(),
						y:      box.CenterY(),
						damage: hb.Damage,
						strong: hb.Strong,
					})
					// Contact boxes rely on the victim's invulnerability instead.
					if dealt && !hb.AlwaysOn {
						hb.HitTargets[uint64(target.entity)] = true
					}
					break
				}
			}
		}
	})
}
