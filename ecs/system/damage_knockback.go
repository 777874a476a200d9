package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// Velocities are px/frame, so these are small next to a 4 px/frame run.
const damageKnockbackImpulse = 5.0
const damageKnockbackMaxDeltaV = 7.0

const strongDamageKnockbackImpulse = 9.0
const strongDamageKnockbackMaxDeltaV = 11.0

// DamageKnockbackSystem turns DamageKnockback requests into impulses on
// Knockbackable bodies and clears the requests.
type DamageKnockbackSystem struct{}

func NewDamageKnockbackSystem() *DamageKnockbackSystem { return &DamageKnockbackSystem{} }

func (s *DamageKnockbackSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.DamageKnockbackRequestComponent.Kind(), func(e ecs.Entity, req *component.DamageKnockback) {
		ecs.Remove(w, e, component.DamageKnockbackRequestComponent.Kind())
		kb, ok := ecs.Get(w, e, component.KnockbackableComponent.Kind())
		if !ok {
			return
		}
		scale := 1 - kb.Resist
		if scale <= 0 {
			return
		}
		impulse, maxDV := damageKnockbackImpulse, damageKnockbackMaxDeltaV
		if req.Strong {
			impulse, maxDV = strongDamageKnockbackImpulse, strongDamageKnockbackMaxDeltaV
		}
		applyDamageKnockback(w, e, req.SourceX, req.SourceY, impulse*scale, maxDV*scale)
	})
}

func applyDamageKnockback(w *ecs.World, target ecs.Entity, sourceX, sourceY, impulse, maxDeltaV float64) {
	body, ok := ecs.Get(w, target, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil || body.Static {
		return
	}
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return
	}
	centerX, centerY := bodyCenter(w, target, t, body)

	dx := centerX - sourceX
	dy := centerY - sourceY
	// Side-scroller knockback reads best as a mostly horizontal hop.
	var nx float64
	switch {
	case dx < -1e-6:
		nx = -1
	case dx > 1e-6:
		nx = 1
	case entityFacingLeft(w, target):
		nx = 1
	default:
		nx = -1
	}
	ny := -0.45
	if dy > body.Height/2 {
		ny = 0.2
	}
	l := math.Hypot(nx, ny)
	nx /= l
	ny /= l

	v := body.Body.Velocity()
	// Cancel velocity into the source so the push is never swallowed by a run.
	if v.X*nx < 0 {
		v.X = 0
	}
	if v.Y*ny < 0 {
		v.Y = 0
	}
	body.Body.SetVelocityVector(v)

	mass := body.Body.Mass()
	if mass <= 0 || math.IsInf(mass, 0) {
		mass = 1
	}
	body.Body.ApplyImpulseAtWorldPoint(cp.Vector{X: nx * impulse * mass, Y: ny * impulse * mass}, body.Body.Position())

	// Cap the velocity gained along the push so stacked hits don't launch.
	v = body.Body.Velocity()
	vDot := v.X*nx + v.Y*ny
	if vDot > maxDeltaV {
		tx := v.X - nx*vDot
		ty := v.Y - ny*vDot
		body.Body.SetVelocityVector(cp.Vector{X: tx + nx*maxDeltaV, Y: ty + ny*maxDeltaV})
	}
}
