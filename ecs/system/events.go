package system

import (
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// EmitGameEvent spawns a one-frame GameEvent entity. The achievement system
// consumes them; anything else may peek during the same frame.
func EmitGameEvent(w *ecs.World, name string) {
	if w == nil || name == "" {
		return
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.GameEventComponent.Kind(), &component.GameEvent{Name: name}); err != nil {
		common.Logger().Warn("emit game event", "event", name, "err", err)
	}
}

// PendingGameEvents lists the names of undrained events in emission order.
func PendingGameEvents(w *ecs.World) []string {
	var out []string
	ecs.ForEach(w, component.GameEventComponent.Kind(), func(_ ecs.Entity, ev *component.GameEvent) {
		out = append(out, ev.Name)
	})
	return out
}

// enqueueAIEvent appends an FSM event for AISystem to process next tick.
func enqueueAIEvent(w *ecs.World, e ecs.Entity, event string) {
	if event == "" || !ecs.Has(w, e, component.AIStateComponent.Kind()) {
		return
	}
	if q, ok := ecs.Get(w, e, component.AIEventQueueComponent.Kind()); ok {
		q.Events = append(q.Events, event)
		return
	}
	_ = ecs.Add(w, e, component.AIEventQueueComponent.Kind(), &component.AIEventQueue{Events: []string{event}})
}

func playerEntity(w *ecs.World) (ecs.Entity, bool) {
	return ecs.First(w, component.PlayerTagComponent.Kind())
}

func playerPosition(w *ecs.World) (float64, float64, bool) {
	player, ok := playerEntity(w)
	if !ok {
		return 0, 0, false
	}
	return entityPosition(w, player)
}

func requestCameraShake(w *ecs.World, frames int, intensity float64) {
	if frames <= 0 || intensity <= 0 {
		return
	}
	cam, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	_ = ecs.Add(w, cam, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{Frames: frames, Intensity: intensity})
}

func requestHitFreeze(w *ecs.World, frames int) {
	if frames <= 0 {
		return
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.HitFreezeRequestComponent.Kind(), &component.HitFreezeRequest{Frames: frames})
}

func playSound(w *ecs.World, e ecs.Entity, name string) {
	if a, ok := ecs.Get(w, e, component.AudioComponent.Kind()); ok {
		a.Request(name)
	}
}
