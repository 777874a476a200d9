package system

import (
	"math"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// TrapSystem drives cycling hazards, arrow launchers and falling traps.
// It runs before HazardSystem so toggles apply the same frame.
type TrapSystem struct{}

func NewTrapSystem() *TrapSystem { return &TrapSystem{} }

func (s *TrapSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.updateCycles(w)
	s.updateArrowTraps(w)
	s.updateFallingTraps(w)
}

// trapCycleActive reports whether a cycle is in its "on" window at timer.
func trapCycleActive(c *component.TrapCycle, timer int) bool {
	period := c.OnFrames + c.OffFrames
	if period <= 0 {
		return true
	}
	phase := (timer + c.Offset) % period
	return phase < c.OnFrames
}

func (s *TrapSystem) updateCycles(w *ecs.World) {
	ecs.ForEach2(w, component.TrapCycleComponent.Kind(), component.HazardComponent.Kind(), func(e ecs.Entity, c *component.TrapCycle, h *component.Hazard) {
		active := trapCycleActive(c, c.Timer)
		c.Timer++
		if h.Inactive == !active {
			return
		}
		h.Inactive = !active
		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sprite.Hidden = !active
		}
		if active {
			playSound(w, e, "trap")
		}
	})
}

func (s *TrapSystem) updateArrowTraps(w *ecs.World) {
	ecs.ForEach2(w, component.ArrowTrapComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, a *component.ArrowTrap, t *component.Transform) {
		if a.IntervalFrames <= 0 {
			return
		}
		a.Timer++
		if a.Timer < a.IntervalFrames {
			return
		}
		a.Timer = 0

		dx, dy := a.DirX, a.DirY
		l := math.Hypot(dx, dy)
		if l == 0 {
			dx, l = 1, 1
		}
		dx, dy = dx/l, dy/l
		speed := a.Speed
		if speed <= 0 {
			speed = 6
		}
		damage := a.Damage
		if damage <= 0 {
			damage = 1
		}
		x, y, _ := entityPosition(w, e)
		spawnProjectile(w, projectileSpawn{
			x:        x + dx*common.TileSize/2,
			y:        y + dy*common.TileSize/2,
			vx:       dx * speed,
			vy:       dy * speed,
			damage:   damage,
			team:     component.TeamEnemy,
			owner:    e,
			lifetime: a.LifetimeFrames,
		})
		playSound(w, e, "shoot")
	})
}

func (s *TrapSystem) updateFallingTraps(w *ecs.World) {
	px, py, hasPlayer := playerPosition(w)

	solids := staticSolids(w)

	ecs.ForEach2(w, component.FallingTrapComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, f *component.FallingTrap, t *component.Transform) {
		switch {
		case !f.Triggered:
			if !hasPlayer || py <= t.Y {
				return
			}
			width := f.TriggerWidth
			if width <= 0 {
				width = common.TileSize * 2
			}
			if math.Abs(px-(t.X+common.TileSize/2)) > width/2 {
				return
			}
			f.Triggered = true
			f.Delay = f.DelayFrames
			playSound(w, e, "trap")
		case !f.Falling:
			if f.Delay > 0 {
				f.Delay--
				// Rattle before the drop.
				if f.Delay%4 < 2 {
					t.X++
				} else {
					t.X--
				}
				return
			}
			f.Falling = true
			if h, ok := ecs.Get(w, e, component.HazardComponent.Kind()); ok {
				h.Inactive = false
			}
		default:
			speed := f.FallSpeed
			if speed <= 0 {
				speed = 9
			}
			t.Y += speed
			h, ok := ecs.Get(w, e, component.HazardComponent.Kind())
			if !ok {
				return
			}
			box, ok := hazardBounds(w, e, h, t)
			if !ok {
				return
			}
			for _, solid := range solids {
				if overlapsAABB(box, solid) {
					EmitGameEvent(w, "trap_landed")
					requestCameraShake(w, 8, 2)
					ecs.DestroyEntity(w, e)
					return
				}
			}
		}
	})
}
