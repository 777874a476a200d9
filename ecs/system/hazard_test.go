package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

func spawnHazard(t *testing.T, w *ecs.World, x, y float64, h component.Hazard) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.TransformComponent, &component.Transform{X: x, Y: y})
	add(t, w, e, component.HazardComponent, &h)
	return e
}

func playerHealth(w *ecs.World, e ecs.Entity) int {
	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	return h.Current
}

func TestHazardDamagesPlayerOnce(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	spawnHazard(t, w, 0, 0, component.Hazard{Width: 10, Height: 10, Damage: 1})
	sys := NewHazardSystem()

	sys.Update(w)
	assert.Equal(t, 4, playerHealth(w, player))
	assert.True(t, ecs.Has(w, player, component.InvulnerableComponent.Kind()))
	interrupt, ok := ecs.Get(w, player, component.PlayerStateInterruptComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "hurt", string(interrupt.State))
	assert.Contains(t, drainGameEvents(w), "player_damaged")
	assert.False(t, ecs.Has(w, player, component.RespawnRequestComponent.Kind()))

	sys.Update(w)
	assert.Equal(t, 4, playerHealth(w, player), "invulnerable")
}

func TestInactiveHazardIsSkipped(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	spawnHazard(t, w, 0, 0, component.Hazard{Width: 10, Height: 10, Damage: 1, Inactive: true})

	NewHazardSystem().Update(w)
	assert.Equal(t, 5, playerHealth(w, player))
}

func TestRespawnHazardRequestsSafeRespawn(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	spawnHazard(t, w, 0, 0, component.Hazard{Width: 10, Height: 10, Damage: 1, Respawn: true})

	NewHazardSystem().Update(w)
	assert.Equal(t, 4, playerHealth(w, player))
	assert.True(t, ecs.Has(w, player, component.RespawnRequestComponent.Kind()))
}

func TestKillPlaneIgnoresInvulnerability(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 200)
	add(t, w, player, component.InvulnerableComponent, &component.Invulnerable{Frames: 30})
	bounds := ecs.CreateEntity(w)
	add(t, w, bounds, component.LevelBoundsComponent, &component.LevelBounds{Width: 100, Height: 100, KillMargin: 10})

	NewHazardSystem().Update(w)
	assert.Equal(t, 4, playerHealth(w, player))
	assert.True(t, ecs.Has(w, player, component.RespawnRequestComponent.Kind()))
}

func TestSafeRespawnTracksGroundedPosition(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 10, 20)
	gc := add(t, w, player, component.GroundContactComponent, &component.GroundContact{})
	sys := NewHazardSystem()

	sys.Update(w)
	safe, ok := ecs.Get(w, player, component.SafeRespawnComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 10.0, safe.X, "first frame seeds the spot")

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.X = 50
	sys.Update(w)
	assert.Equal(t, 10.0, safe.X, "airborne")

	gc.Grounded = true
	sys.Update(w)
	assert.Equal(t, 50.0, safe.X)

	spawnHazard(t, w, 150, 20, component.Hazard{Width: 10, Height: 10})
	pt.X = 150
	sys.Update(w)
	assert.Equal(t, 50.0, safe.X, "standing in a hazard is not safe")
}

func TestEnemiesOnlyDieToLethalHazards(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(t, w, 1000, 0)
	enemy := spawnEnemy(t, w, 0, 0, component.AI{})
	add(t, w, enemy, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 20, Height: 20})
	spikes := spawnHazard(t, w, 0, 0, component.Hazard{Width: 10, Height: 10, Damage: 1})
	sys := NewHazardSystem()

	sys.Update(w)
	h, _ := ecs.Get(w, enemy, component.HealthComponent.Kind())
	assert.Equal(t, 3, h.Current)

	hz, _ := ecs.Get(w, spikes, component.HazardComponent.Kind())
	hz.Instakill = true
	sys.Update(w)
	assert.Zero(t, h.Current)
	assert.Contains(t, drainGameEvents(w), "enemy_killed")
}

func TestEnemyFallsOutOfLevel(t *testing.T) {
	w := ecs.NewWorld()
	enemy := spawnEnemy(t, w, 0, 500, component.AI{})
	add(t, w, enemy, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 20, Height: 20})
	bounds := ecs.CreateEntity(w)
	add(t, w, bounds, component.LevelBoundsComponent, &component.LevelBounds{Width: 100, Height: 100})

	NewHazardSystem().Update(w)
	h, _ := ecs.Get(w, enemy, component.HealthComponent.Kind())
	assert.Zero(t, h.Current)
	assert.Equal(t, []string{"died"}, queuedAIEvents(w, enemy))
}
