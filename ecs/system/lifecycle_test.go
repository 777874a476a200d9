package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

func TestDeathDropsLootOnce(t *testing.T) {
	w := ecs.NewWorld()
	enemy := spawnEnemy(t, w, 100, 0, component.AI{})
	add(t, w, enemy, component.LootComponent, &component.Loot{Coins: 3, Heart: true})
	add(t, w, enemy, component.HurtboxComponent, &[]component.Hurtbox{{Width: 10, Height: 10}})
	sys := NewDeathSystem()

	sys.Update(w)
	assert.Zero(t, ecs.Count(w, component.PickupComponent.Kind()), "alive")

	h, _ := ecs.Get(w, enemy, component.HealthComponent.Kind())
	h.Current = 0
	sys.Update(w)
	assert.False(t, ecs.Has(w, enemy, component.HurtboxComponent.Kind()))
	ttl, ok := ecs.Get(w, enemy, component.TTLComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, enemyCorpseFrames, ttl.Frames)

	var coins []float64
	var heartY float64
	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Pickup, tr *component.Transform) {
		switch p.Kind {
		case component.PickupCoin:
			coins = append(coins, tr.X)
		case component.PickupHeart:
			heartY = tr.Y
		}
	})
	assert.ElementsMatch(t, []float64{86, 100, 114}, coins)
	assert.Equal(t, -20.0, heartY)

	sys.Update(w)
	assert.Equal(t, 4, ecs.Count(w, component.PickupComponent.Kind()), "corpses drop once")
}

func TestDeathSkipsBosses(t *testing.T) {
	w := ecs.NewWorld()
	boss := spawnEnemy(t, w, 0, 0, component.AI{})
	add(t, w, boss, component.BossTagComponent, &component.BossTag{})
	h, _ := ecs.Get(w, boss, component.HealthComponent.Kind())
	h.Current = 0

	NewDeathSystem().Update(w)
	assert.False(t, ecs.Has(w, boss, component.TTLComponent.Kind()))
}

func TestRespawnToSafeSpot(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 300, 300)
	add(t, w, player, component.SafeRespawnComponent, &component.SafeRespawn{X: 5, Y: 6, Initialized: true})
	add(t, w, player, component.RespawnRequestComponent, &component.RespawnRequest{DelayFrames: 1})
	sys := NewRespawnSystem()

	sys.Update(w)
	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	assert.Equal(t, 300.0, tr.X, "waits out the delay")

	sys.Update(w)
	assert.Equal(t, 5.0, tr.X)
	assert.Equal(t, 6.0, tr.Y)
	assert.False(t, ecs.Has(w, player, component.RespawnRequestComponent.Kind()))
	assert.Contains(t, drainGameEvents(w), "player_respawned")
}

func TestDeadPlayerRespawnReloadsLevel(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	h.Current = 0
	add(t, w, player, component.RespawnRequestComponent, &component.RespawnRequest{})

	NewRespawnSystem().Update(w)
	reqEnt, ok := ecs.First(w, component.LevelChangeRequestComponent.Kind())
	require.True(t, ok)
	req, _ := ecs.Get(w, reqEnt, component.LevelChangeRequestComponent.Kind())
	assert.Equal(t, "respawn", req.Reason)
	assert.Empty(t, req.TargetLevel)
}

func TestRespawnRequestOnNonPlayerIsDropped(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnEnemy(t, w, 0, 0, component.AI{})
	add(t, w, e, component.RespawnRequestComponent, &component.RespawnRequest{})

	NewRespawnSystem().Update(w)
	assert.False(t, ecs.Has(w, e, component.RespawnRequestComponent.Kind()))
}

func TestTTLDestroysAfterFrames(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.TTLComponent, &component.TTL{Frames: 2})
	sys := NewTTLSystem()

	sys.Update(w)
	assert.True(t, ecs.IsAlive(w, e))
	sys.Update(w)
	assert.False(t, ecs.IsAlive(w, e))
}

func TestCooldownInterruptsAI(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnEnemy(t, w, 0, 0, component.AI{})
	add(t, w, e, component.CooldownComponent, &component.Cooldown{Frames: 1})
	sys := NewCooldownSystem()

	sys.Update(w)
	assert.True(t, ecs.Has(w, e, component.CooldownComponent.Kind()))
	sys.Update(w)
	assert.False(t, ecs.Has(w, e, component.CooldownComponent.Kind()))
	interrupt, ok := ecs.Get(w, e, component.AIStateInterruptComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "cooldown_finished", interrupt.Event)
}

func TestHitFreezeTakesLongestRequest(t *testing.T) {
	w := ecs.NewWorld()
	requestHitFreeze(w, 3)
	requestHitFreeze(w, 7)
	requestHitFreeze(w, 0)

	var got []int
	sys := NewHitFreezeSystem(func(frames int) { got = append(got, frames) })
	sys.Update(w)
	assert.Equal(t, []int{7}, got)
	assert.Zero(t, ecs.Count(w, component.HitFreezeRequestComponent.Kind()))

	sys.Update(w)
	assert.Equal(t, []int{7}, got, "nothing pending")
}
