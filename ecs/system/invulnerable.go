package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// InvulnerableSystem counts timed invulnerability down. Frames == 0 means
// held until something removes it (boss blink, scripted states).
type InvulnerableSystem struct{}

func NewInvulnerableSystem() *InvulnerableSystem { return &InvulnerableSystem{} }

func (s *InvulnerableSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.InvulnerableComponent.Kind(), func(e ecs.Entity, inv *component.Invulnerable) {
		if inv.Frames <= 0 {
			return
		}
		inv.Frames--
		if inv.Frames == 0 {
			ecs.Remove(w, e, component.InvulnerableComponent.Kind())
		}
	})
}

// grantInvulnerable never shortens an existing window and never turns a held
// invulnerability into a timed one.
func grantInvulnerable(w *ecs.World, e ecs.Entity, frames int) {
	if cur, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind()); ok {
		if cur.Frames == 0 || cur.Frames >= frames {
			return
		}
		cur.Frames = frames
		return
	}
	_ = ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: frames})
}
