package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

func add[T any](t *testing.T, w *ecs.World, e ecs.Entity, h component.ComponentHandle[T], v *T) *T {
	t.Helper()
	require.NoError(t, ecs.Add(w, e, h.Kind(), v))
	return v
}

// spawnPlayer places a player with a 20x30 body centred on x, y. No physics
// body is attached; systems fall back to the transform.
func spawnPlayer(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.PlayerTagComponent, &component.PlayerTag{})
	add(t, w, e, component.TransformComponent, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	add(t, w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 20, Height: 30})
	add(t, w, e, component.HealthComponent, &component.Health{Max: 5, Current: 5})
	add(t, w, e, component.FactionComponent, &component.Faction{Team: component.TeamPlayer})
	return e
}

// spawnEnemy places a default-FSM enemy without a physics body.
func spawnEnemy(t *testing.T, w *ecs.World, x, y float64, ai component.AI) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.EnemyTagComponent, &component.EnemyTag{})
	add(t, w, e, component.TransformComponent, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	add(t, w, e, component.AIComponent, &ai)
	add(t, w, e, component.AIStateComponent, &component.AIState{})
	add(t, w, e, component.HealthComponent, &component.Health{Max: 3, Current: 3})
	add(t, w, e, component.FactionComponent, &component.Faction{Team: component.TeamEnemy})
	return e
}

// withBody gives e a live chipmunk body at x, y so velocity reads and writes
// take effect without a physics step.
func withBody(t *testing.T, w *ecs.World, e ecs.Entity, x, y float64) *cp.Body {
	t.Helper()
	body := cp.NewBody(1, cp.INFINITY)
	body.SetPosition(cp.Vector{X: x, Y: y})
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		b = add(t, w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 20, Height: 30})
	}
	b.Body = body
	return body
}

func aiState(w *ecs.World, e ecs.Entity) component.StateID {
	s, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
	return s.Current
}

func queuedAIEvents(w *ecs.World, e ecs.Entity) []string {
	q, ok := ecs.Get(w, e, component.AIEventQueueComponent.Kind())
	if !ok {
		return nil
	}
	return q.Events
}

func drainGameEvents(w *ecs.World) []string {
	out := PendingGameEvents(w)
	ecs.ForEach(w, component.GameEventComponent.Kind(), func(e ecs.Entity, _ *component.GameEvent) {
		ecs.DestroyEntity(w, e)
	})
	return out
}

func updateN(w *ecs.World, n int, systems ...ecs.System) {
	for i := 0; i < n; i++ {
		for _, s := range systems {
			s.Update(w)
		}
	}
}
