package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type testGate struct {
	e      ecs.Entity
	gate   *component.Gate
	body   *component.PhysicsBody
	sprite *component.Sprite
}

func spawnBodyGate(t *testing.T, w *ecs.World, x float64, g component.Gate) testGate {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.TransformComponent, &component.Transform{X: x})
	return testGate{
		e:      e,
		gate:   add(t, w, e, component.GateComponent, &g),
		body:   add(t, w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 16, Height: 64, Static: true}),
		sprite: add(t, w, e, component.SpriteComponent, &component.Sprite{}),
	}
}

func TestGateAppliesStateOnEdges(t *testing.T) {
	w := ecs.NewWorld()
	g := spawnBodyGate(t, w, 0, component.Gate{Group: "arena"})
	sys := NewGateSystem()

	sys.Update(w)
	assert.False(t, g.body.Disabled)
	assert.False(t, g.sprite.Hidden)
	assert.Empty(t, drainGameEvents(w), "initial state is silent")

	setGateGroup(w, "arena", true)
	sys.Update(w)
	assert.True(t, g.body.Disabled)
	assert.True(t, g.sprite.Hidden)
	assert.Equal(t, []string{"gate_opened"}, drainGameEvents(w))

	sys.Update(w)
	assert.Empty(t, drainGameEvents(w))

	setGateGroup(w, "arena", false)
	sys.Update(w)
	assert.False(t, g.body.Disabled)
	assert.Empty(t, drainGameEvents(w))
}

func TestSetGateGroupEmptyIsNoop(t *testing.T) {
	w := ecs.NewWorld()
	g := spawnBodyGate(t, w, 0, component.Gate{})
	setGateGroup(w, "", true)
	assert.False(t, g.gate.Open)
}

func TestKeyedGateConsumesKey(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	// Player spans [-10, 10] and the door [10, 26]: touching, not overlapping.
	door := spawnBodyGate(t, w, 18, component.Gate{NeedsKey: true})
	sys := NewGateSystem()

	sys.Update(w)
	assert.False(t, door.gate.Open, "no key")

	wallet := add(t, w, player, component.WalletComponent, &component.Wallet{Keys: 2})
	sys.Update(w)
	require.True(t, door.gate.Open)
	assert.Equal(t, 1, wallet.Keys)
	events := drainGameEvents(w)
	assert.Contains(t, events, "door_unlocked")
	assert.Contains(t, events, "gate_opened")

	sys.Update(w)
	assert.Equal(t, 1, wallet.Keys, "open doors keep the key")
}
