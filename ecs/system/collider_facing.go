package system

import (
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type aabb = common.Rect

func overlapsAABB(a, b aabb) bool {
	return a.Intersects(b)
}

func entityFacingLeft(w *ecs.World, e ecs.Entity) bool {
	s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
	return ok && s.FacingLeft
}

// facingAdjustedOffsetX mirrors a collider offset around the transform when
// the entity faces left. Top-left boxes also shift by their own width so the
// mirrored box covers the same span.
func facingAdjustedOffsetX(w *ecs.World, e ecs.Entity, offsetX, width float64, alignTopLeft bool) float64 {
	if !entityFacingLeft(w, e) {
		return offsetX
	}
	if alignTopLeft {
		return -offsetX - width
	}
	return -offsetX
}

// bodyAABB is the world box of a physics body. Non-aligned bodies are
// centred on the transform.
func bodyAABB(w *ecs.World, e ecs.Entity, t *component.Transform, b *component.PhysicsBody) (aabb, bool) {
	if t == nil || b == nil || b.Width <= 0 || b.Height <= 0 {
		return aabb{}, false
	}
	if b.AlignTopLeft {
		return aabb{X: t.X + b.OffsetX, Y: t.Y + b.OffsetY, W: b.Width, H: b.Height}, true
	}
	x := t.X + facingAdjustedOffsetX(w, e, b.OffsetX, b.Width, false) - b.Width/2
	return aabb{X: x, Y: t.Y + b.OffsetY - b.Height/2, W: b.Width, H: b.Height}, true
}

func bodyCenter(w *ecs.World, e ecs.Entity, t *component.Transform, b *component.PhysicsBody) (float64, float64) {
	box, ok := bodyAABB(w, e, t, b)
	if !ok {
		if t == nil {
			return 0, 0
		}
		return t.X, t.Y
	}
	return box.CenterX(), box.CenterY()
}

// hitboxAABB and hurtboxAABB treat offsets as the top-left of the box
// relative to the transform, mirrored for left-facing entities.
func hitboxAABB(w *ecs.World, e ecs.Entity, t *component.Transform, hb *component.Hitbox) aabb {
	x := t.X + facingAdjustedOffsetX(w, e, hb.OffsetX, hb.Width, true)
	return aabb{X: x, Y: t.Y + hb.OffsetY, W: hb.Width, H: hb.Height}
}

func hurtboxAABB(w *ecs.World, e ecs.Entity, t *component.Transform, hb *component.Hurtbox) aabb {
	x := t.X + facingAdjustedOffsetX(w, e, hb.OffsetX, hb.Width, true)
	return aabb{X: x, Y: t.Y + hb.OffsetY, W: hb.Width, H: hb.Height}
}

// entityPosition prefers the physics centre and falls back to the transform.
func entityPosition(w *ecs.World, e ecs.Entity) (float64, float64, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		x, y := bodyCenter(w, e, t, b)
		return x, y, true
	}
	return t.X, t.Y, true
}
