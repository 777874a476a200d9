package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

func spawnTestPickup(t *testing.T, w *ecs.World, x, y float64, p component.Pickup) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.TransformComponent, &component.Transform{X: x, Y: y})
	add(t, w, e, component.PickupComponent, &p)
	add(t, w, e, component.SpriteComponent, &component.Sprite{})
	return e
}

func TestCollectCoinsAndKeys(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	coin := spawnTestPickup(t, w, 5, 0, component.Pickup{Kind: component.PickupCoin, Amount: 3})
	spawnTestPickup(t, w, -5, 0, component.Pickup{Kind: component.PickupKey})
	far := spawnTestPickup(t, w, 200, 0, component.Pickup{Kind: component.PickupCoin})
	sys := NewPickupCollectSystem()

	sys.Update(w)
	wallet, ok := ecs.Get(w, player, component.WalletComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3, wallet.Coins)
	assert.Equal(t, 1, wallet.Keys)

	events := drainGameEvents(w)
	assert.Contains(t, events, "pickup:coin")
	assert.Contains(t, events, "pickup:key")

	assert.False(t, ecs.Has(w, coin, component.PickupComponent.Kind()))
	sprite, _ := ecs.Get(w, coin, component.SpriteComponent.Kind())
	assert.True(t, sprite.Hidden)
	ttl, ok := ecs.Get(w, coin, component.TTLComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 2, ttl.Frames)

	assert.True(t, ecs.Has(w, far, component.PickupComponent.Kind()))

	sys.Update(w)
	assert.Equal(t, 3, wallet.Coins, "collected once")
}

func TestHeartStaysAtFullHealth(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	heart := spawnTestPickup(t, w, 0, 0, component.Pickup{Kind: component.PickupHeart, Amount: 2})
	sys := NewPickupCollectSystem()

	sys.Update(w)
	assert.True(t, ecs.Has(w, heart, component.PickupComponent.Kind()))
	assert.Empty(t, drainGameEvents(w))

	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	h.Current = 4
	sys.Update(w)
	assert.Equal(t, 5, h.Current, "heals up to max")
	assert.False(t, ecs.Has(w, heart, component.PickupComponent.Kind()))
}

func TestOrbGrantsAbilities(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	spawnTestPickup(t, w, 0, 0, component.Pickup{Kind: component.PickupOrb, GrantDoubleJump: true})

	NewPickupCollectSystem().Update(w)
	abilities, ok := ecs.Get(w, player, component.AbilitiesComponent.Kind())
	require.True(t, ok)
	assert.True(t, abilities.DoubleJump)
	assert.False(t, abilities.WallJump)
	assert.Contains(t, drainGameEvents(w), "pickup:orb")
}

func TestDeadPlayerCollectsNothing(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	coin := spawnTestPickup(t, w, 0, 0, component.Pickup{Kind: component.PickupCoin})
	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	h.Current = 0

	NewPickupCollectSystem().Update(w)
	assert.True(t, ecs.Has(w, coin, component.PickupComponent.Kind()))
}

func TestPickupAABBIsCentred(t *testing.T) {
	box := pickupAABB(&component.Pickup{}, &component.Transform{X: 100, Y: 50})
	assert.Equal(t, aabb{X: 88, Y: 38, W: 24, H: 24}, box)

	box = pickupAABB(&component.Pickup{CollisionWidth: 10, CollisionHeight: 4}, &component.Transform{})
	assert.Equal(t, aabb{X: -5, Y: -2, W: 10, H: 4}, box)
}
