package system

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.AnimationComponent.Kind(), func(e ecs.Entity, anim *component.Animation) {
		def, ok := anim.Defs[anim.Current]
		if !ok || def.FrameCount <= 0 {
			return
		}

		if anim.Playing {
			stepAnimation(anim, def)
		}

		if anim.Sheet == nil {
			return
		}
		sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok {
			return
		}
		x := def.ColStart*def.FrameW + anim.Frame*def.FrameW
		y := def.Row * def.FrameH
		rect := image.Rect(x, y, x+def.FrameW, y+def.FrameH)
		sprite.Image = anim.Sheet.SubImage(rect).(*ebiten.Image)
	})
}

// stepAnimation advances one tick. Non-looping animations hold their last
// frame and report Finished.
func stepAnimation(anim *component.Animation, def component.AnimationDef) {
	ticksPerFrame := 1
	if def.FPS > 0 {
		ticksPerFrame = max(int(float64(common.TPS)/def.FPS), 1)
	}

	anim.FrameTimer++
	if anim.FrameTimer < ticksPerFrame {
		return
	}
	anim.FrameTimer = 0
	anim.Frame++
	if anim.Frame < def.FrameCount {
		return
	}
	if def.Loop {
		anim.Frame = 0
		return
	}
	anim.Frame = def.FrameCount - 1
	anim.Playing = false
	anim.Finished = true
}
