package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

var (
	debugHitboxColor  = cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
	debugHurtboxColor = cp.FColor{R: 0.3, G: 0.5, B: 1, A: 0.9}
)

// DrawPhysicsDebug outlines every chipmunk shape plus live hitboxes and
// hurtboxes.
func DrawPhysicsDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil {
		return
	}

	v := cameraView(w)
	drawer := &physicsDebugDrawer{
		screen: screen,
		camX:   v.x,
		camY:   v.y,
		zoom:   v.zoom,
	}
	cp.DrawSpace(space, drawer)

	ecs.ForEach2(w, component.HurtboxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, boxes *[]component.Hurtbox, t *component.Transform) {
		for i := range *boxes {
			drawer.drawRect(hurtboxAABB(w, e, t, &(*boxes)[i]), debugHurtboxColor)
		}
	})
	ecs.ForEach2(w, component.HitboxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, boxes *[]component.Hitbox, t *component.Transform) {
		for i := range *boxes {
			if hb := &(*boxes)[i]; hb.Live {
				drawer.drawRect(hitboxAABB(w, e, t, hb), debugHitboxColor)
			}
		}
	})
}

// DrawStateDebug prints the player's state and labels each AI with its
// current FSM state.
func DrawStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	if player, ok := playerEntity(w); ok {
		stateName := "none"
		if sm, ok := ecs.Get(w, player, component.PlayerStateMachineComponent.Kind()); ok && sm.State != nil {
			stateName = sm.State.Name()
		}
		grounded, wall := false, 0
		if gc, ok := ecs.Get(w, player, component.GroundContactComponent.Kind()); ok {
			grounded = gc.Grounded || gc.GroundGrace > 0
			wall = gc.Wall
		}
		msg := fmt.Sprintf("state: %s\ngrounded: %v\nwall: %d\nentities: %d", stateName, grounded, wall, ecs.EntityCount(w))
		ebitenutil.DebugPrintAt(screen, msg, 10, 80)
	}

	v := cameraView(w)
	ecs.ForEach2(w, component.AIStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.AIState, t *component.Transform) {
		label := string(st.Current)
		if isEngaged(w, e) {
			label += " !"
		}
		ebitenutil.DebugPrintAt(screen, label, int((t.X-v.x)*v.zoom)-12, int((t.Y-v.y)*v.zoom)-40)
	})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: pos.X + math.Cos(t)*radius, Y: pos.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	left := cp.Vector{X: pos.X - half, Y: pos.Y}
	right := cp.Vector{X: pos.X + half, Y: pos.Y}
	up := cp.Vector{X: pos.X, Y: pos.Y - half}
	down := cp.Vector{X: pos.X, Y: pos.Y + half}
	d.drawLine(left, right, fill)
	d.drawLine(up, down, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, color cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(color))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, color cp.FColor) {
	if len(verts) == 0 {
		return
	}
	for i := 0; i < len(verts); i++ {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		d.drawLine(a, b, color)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, color cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, color)
}

func (d *physicsDebugDrawer) drawRect(r aabb, color cp.FColor) {
	d.drawPolygon([]cp.Vector{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}, color)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return (v.X - d.camX) * d.zoom, (v.Y - d.camY) * d.zoom
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
