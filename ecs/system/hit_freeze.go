package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// HitFreezeSystem collects freeze requests and hands the longest one to the
// game loop, which skips that many gameplay updates.
type HitFreezeSystem struct {
	onFreeze func(frames int)
}

func NewHitFreezeSystem(onFreeze func(frames int)) *HitFreezeSystem {
	return &HitFreezeSystem{onFreeze: onFreeze}
}

func (s *HitFreezeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	maxFrames := 0
	ecs.ForEach(w, component.HitFreezeRequestComponent.Kind(), func(e ecs.Entity, req *component.HitFreezeRequest) {
		if req.Frames > maxFrames {
			maxFrames = req.Frames
		}
		ecs.DestroyEntity(w, e)
	})

	if maxFrames > 0 && s.onFreeze != nil {
		s.onFreeze(maxFrames)
	}
}
