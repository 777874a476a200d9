package system

import (
	"image/color"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const enemyCorpseFrames = 40

var (
	coinColor  = color.RGBA{R: 250, G: 210, B: 60, A: 255}
	heartColor = color.RGBA{R: 230, G: 60, B: 80, A: 255}
)

// DeathSystem turns dead regular enemies into short-lived corpses and drops
// their loot. Bosses resolve their own defeat in BossSystem.
type DeathSystem struct{}

func NewDeathSystem() *DeathSystem { return &DeathSystem{} }

func (s *DeathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.HealthComponent.Kind(), func(e ecs.Entity, _ *component.EnemyTag, h *component.Health) {
		if !h.Dead() || ecs.Has(w, e, component.BossTagComponent.Kind()) || ecs.Has(w, e, component.TTLComponent.Kind()) {
			return
		}

		_ = ecs.Remove(w, e, component.HitboxComponent.Kind())
		_ = ecs.Remove(w, e, component.HurtboxComponent.Kind())
		_ = ecs.Remove(w, e, component.HazardComponent.Kind())
		setEntityVelocity(w, e, 0, 0)
		if a, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
			a.Play("death", true)
		}
		playSound(w, e, "death")
		_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: enemyCorpseFrames})

		if loot, ok := ecs.Get(w, e, component.LootComponent.Kind()); ok {
			if x, y, ok := entityPosition(w, e); ok {
				dropLoot(w, loot, x, y)
			}
		}
	})
}

func dropLoot(w *ecs.World, loot *component.Loot, x, y float64) {
	for i := 0; i < loot.Coins; i++ {
		offset := float64(i-loot.Coins/2) * 14
		spawnPickup(w, component.Pickup{Kind: component.PickupCoin, Amount: 1}, x+offset, y, coinColor)
	}
	if loot.Heart {
		spawnPickup(w, component.Pickup{Kind: component.PickupHeart, Amount: 1}, x, y-20, heartColor)
	}
}

func spawnPickup(w *ecs.World, p component.Pickup, x, y float64, c color.Color) ecs.Entity {
	e := ecs.CreateEntity(w)
	size := 12.0
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	_ = ecs.Add(w, e, component.PickupComponent.Kind(), &p)
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Width:   size,
		Height:  size,
		OriginX: size / 2,
		OriginY: size / 2,
		Color:   c,
	})
	_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 4})
	return e
}
