package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// GateSystem applies Gate.Open to the gate's collider and sprite, and opens
// keyed gates the player walks into while holding a key.
type GateSystem struct{}

func NewGateSystem() *GateSystem { return &GateSystem{} }

func (s *GateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.unlockKeyed(w)

	ecs.ForEach(w, component.GateComponent.Kind(), func(e ecs.Entity, gate *component.Gate) {
		rt, ok := ecs.Get(w, e, component.GateRuntimeComponent.Kind())
		if !ok {
			rt = &component.GateRuntime{}
			_ = ecs.Add(w, e, component.GateRuntimeComponent.Kind(), rt)
		}
		if rt.Initialized && rt.Applied == gate.Open {
			return
		}

		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			body.Disabled = gate.Open
		}
		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sprite.Hidden = gate.Open
		}
		if rt.Initialized {
			if gate.Open {
				playSound(w, e, "open")
				EmitGameEvent(w, "gate_opened")
			} else {
				playSound(w, e, "close")
			}
		}
		rt.Initialized = true
		rt.Applied = gate.Open
	})
}

func (s *GateSystem) unlockKeyed(w *ecs.World) {
	player, ok := playerEntity(w)
	if !ok {
		return
	}
	wallet, ok := ecs.Get(w, player, component.WalletComponent.Kind())
	if !ok || wallet.Keys <= 0 {
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
	// Grow by a pixel so touching the closed door counts.
	pbox = aabb{X: pbox.X - 1, Y: pbox.Y - 1, W: pbox.W + 2, H: pbox.H + 2}

	ecs.ForEach3(w, component.GateComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, gate *component.Gate, t *component.Transform, b *component.PhysicsBody) {
		if gate.Open || !gate.NeedsKey || wallet.Keys <= 0 {
			return
		}
		box, ok := bodyAABB(w, e, t, b)
		if !ok || !overlapsAABB(pbox, box) {
			return
		}
		wallet.Keys--
		gate.Open = true
		EmitGameEvent(w, "door_unlocked")
	})
}

// setGateGroup opens or closes every gate in group. An empty group is a
// no-op so bosses without an arena leave doors alone.
func setGateGroup(w *ecs.World, group string, open bool) {
	if group == "" {
		return
	}
	ecs.ForEach(w, component.GateComponent.Kind(), func(_ ecs.Entity, gate *component.Gate) {
		if gate.Group == group {
			gate.Open = open
		}
	})
}
