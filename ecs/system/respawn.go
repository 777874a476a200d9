package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// RespawnSystem resolves RespawnRequests once their delay runs out. A dead
// player reloads the level; a living one (pit fall, spike bounce) goes back
// to its last safe spot.
type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, req *component.RespawnRequest) {
		if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())
			return
		}
		if req.DelayFrames > 0 {
			req.DelayFrames--
			return
		}
		_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())

		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead() {
			reqEnt := ecs.CreateEntity(w)
			_ = ecs.Add(w, reqEnt, component.LevelChangeRequestComponent.Kind(), &component.LevelChangeRequest{Reason: "respawn"})
			return
		}

		safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind())
		if !ok || !safe.Initialized {
			return
		}
		placeAtTransform(w, e, safe.X, safe.Y)
		EmitGameEvent(w, "player_respawned")
	})
}

// placeAtTransform moves an entity so its transform lands on x, y, keeping
// the physics body in step.
func placeAtTransform(w *ecs.World, e ecs.Entity, x, y float64) {
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || b.AlignTopLeft {
		teleportEntity(w, e, x, y)
		return
	}
	teleportEntity(w, e, x+facingAdjustedOffsetX(w, e, b.OffsetX, b.Width, false), y+b.OffsetY)
}
