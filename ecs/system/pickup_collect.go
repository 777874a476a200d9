package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const defaultPickupSize = 24.0

// PickupCollectSystem applies a pickup when the player's body overlaps it:
// coins and keys go to the wallet, hearts heal, orbs unlock abilities.
type PickupCollectSystem struct{}

func NewPickupCollectSystem() *PickupCollectSystem { return &PickupCollectSystem{} }

// pickupAABB centres the collision box on the transform.
func pickupAABB(p *component.Pickup, t *component.Transform) aabb {
	kw, kh := p.CollisionWidth, p.CollisionHeight
	if kw <= 0 || kh <= 0 {
		kw, kh = defaultPickupSize, defaultPickupSize
	}
	return aabb{X: t.X - kw/2, Y: t.Y - kh/2, W: kw, H: kh}
}

func (s *PickupCollectSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	player, ok := playerEntity(w)
	if !ok {
		return
	}
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h.Dead() {
		return
	}
	pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	pb, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	pbox, ok := bodyAABB(w, player, pt, pb)
	if !ok {
		return
	}

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, t *component.Transform) {
		if !overlapsAABB(pbox, pickupAABB(pickup, t)) {
			return
		}
		if !applyPickup(w, player, pickup) {
			return
		}

		playSound(w, e, "pickup")
		EmitGameEvent(w, "pickup:"+pickup.Kind)

		// AudioSystem runs before this system, so destroying now would drop
		// the queued sound. Strip the behaviour, hide, destroy shortly after.
		_ = ecs.Remove(w, e, component.PickupComponent.Kind())
		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sprite.Hidden = true
		}
		_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 2})
	})
}

// applyPickup reports false when the pickup should stay in the world, which
// is only a heart touched at full health.
func applyPickup(w *ecs.World, player ecs.Entity, p *component.Pickup) bool {
	amount := p.Amount
	if amount <= 0 {
		amount = 1
	}

	switch p.Kind {
	case component.PickupCoin, component.PickupKey:
		wallet, ok := ecs.Get(w, player, component.WalletComponent.Kind())
		if !ok {
			wallet = &component.Wallet{}
			_ = ecs.Add(w, player, component.WalletComponent.Kind(), wallet)
		}
		if p.Kind == component.PickupCoin {
			wallet.Coins += amount
		} else {
			wallet.Keys += amount
		}
	case component.PickupHeart:
		h, ok := ecs.Get(w, player, component.HealthComponent.Kind())
		if !ok || h.Current >= h.Max {
			return false
		}
		h.Current = min(h.Max, h.Current+amount)
	case component.PickupOrb:
		abilities, ok := ecs.Get(w, player, component.AbilitiesComponent.Kind())
		if !ok {
			abilities = &component.Abilities{}
			_ = ecs.Add(w, player, component.AbilitiesComponent.Kind(), abilities)
		}
		if p.GrantDoubleJump {
			abilities.DoubleJump = true
		}
		if p.GrantWallJump {
			abilities.WallJump = true
		}
	}
	return true
}
