package system

import (
	"math"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type CameraSystem struct {
	camEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update moves the camera transform (the view's top-left corner in world
// space) toward the target, leading in the direction it faces, then applies
// any shake and clamps to the level bounds. A freshly loaded camera snaps.
func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		cs.camEntity = 0
		return
	}
	snap := camEntity != cs.camEntity
	cs.camEntity = camEntity

	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	viewW := common.BaseWidth / zoom
	viewH := common.BaseHeight / zoom

	target := findEntityByNameOrTag(w, cam.TargetName)
	if tx, ty, ok := entityPosition(w, target); ok && target.Valid() {
		lookTarget := cam.LookOffset
		if entityFacingLeft(w, target) {
			lookTarget = -lookTarget
		}
		if snap || cam.LookSmooth <= 0 {
			cam.LookX = lookTarget
		} else {
			cam.LookX = common.Lerp(cam.LookX, lookTarget, cam.LookSmooth)
		}

		goalX := tx + cam.LookX - viewW/2
		goalY := ty - viewH/2
		if snap || cam.Smoothness <= 0 {
			camTransform.X, camTransform.Y = goalX, goalY
		} else {
			camTransform.X = common.Lerp(camTransform.X, goalX, cam.Smoothness)
			camTransform.Y = common.Lerp(camTransform.Y, goalY, cam.Smoothness)
		}
	}

	if bounds, ok := levelBounds(w); ok {
		camTransform.X = clampView(camTransform.X, viewW, bounds.Width)
		camTransform.Y = clampView(camTransform.Y, viewH, bounds.Height)
	}

	if req, ok := ecs.Get(w, camEntity, component.CameraShakeRequestComponent.Kind()); ok {
		if req.Frames > cam.ShakeFrames {
			cam.ShakeFrames = req.Frames
		}
		cam.ShakeIntensity = math.Max(cam.ShakeIntensity, req.Intensity)
		_ = ecs.Remove(w, camEntity, component.CameraShakeRequestComponent.Kind())
	}
	cam.ShakeX, cam.ShakeY = 0, 0
	if cam.ShakeFrames > 0 {
		// Deterministic wobble decaying with the remaining frames.
		f := float64(cam.ShakeFrames)
		cam.ShakeX = math.Sin(f*2.3) * cam.ShakeIntensity
		cam.ShakeY = math.Cos(f*3.1) * cam.ShakeIntensity * 0.6
		cam.ShakeFrames--
		if cam.ShakeFrames == 0 {
			cam.ShakeIntensity = 0
		}
	}
}

func clampView(pos, view, extent float64) float64 {
	if extent <= 0 {
		return pos
	}
	if extent <= view {
		return (extent - view) / 2
	}
	return common.Clamp(pos, 0, extent-view)
}

func levelBounds(w *ecs.World) (*component.LevelBounds, bool) {
	e, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.LevelBoundsComponent.Kind())
}

func findEntityByNameOrTag(w *ecs.World, name string) ecs.Entity {
	if name == "" || name == "player" {
		if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
