package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// CooldownSystem decrements frame-based cooldowns and notifies AI FSMs
// with a "cooldown_finished" interrupt when one runs out.
type CooldownSystem struct{}

func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		if cd.Frames > 0 {
			cd.Frames--
			return
		}

		ecs.Remove(w, e, component.CooldownComponent.Kind())
		if ecs.Has(w, e, component.AIStateComponent.Kind()) {
			_ = ecs.Add(w, e, component.AIStateInterruptComponent.Kind(), &component.AIStateInterrupt{Event: "cooldown_finished"})
		}
	})
}
