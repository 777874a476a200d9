package system

import (
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const defaultGoalDelayFrames = 45

// GoalSystem detects the player entering a goal volume, freezes input,
// emits level_complete and requests the next level after a short delay.
type GoalSystem struct{}

func NewGoalSystem() *GoalSystem { return &GoalSystem{} }

func goalAABB(g *component.Goal, t *component.Transform) aabb {
	w, h := g.Bounds.W, g.Bounds.H
	if w <= 0 {
		w = common.TileSize
	}
	if h <= 0 {
		h = common.TileSize
	}
	return aabb{X: t.X + g.Bounds.X, Y: t.Y + g.Bounds.Y, W: w, H: h}
}

func (s *GoalSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	player, hasPlayer := playerEntity(w)

	ecs.ForEach2(w, component.GoalComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, g *component.Goal, t *component.Transform) {
		if g.Reached {
			if g.Timer > 0 {
				g.Timer--
				if g.Timer > 0 {
					return
				}
			}
			if g.NextLevel == "" {
				return
			}
			if !ecs.Has(w, e, component.LevelChangeRequestComponent.Kind()) {
				_ = ecs.Add(w, e, component.LevelChangeRequestComponent.Kind(), &component.LevelChangeRequest{
					TargetLevel: g.NextLevel,
					Reason:      "goal",
				})
			}
			return
		}

		if !hasPlayer {
			return
		}
		if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h.Dead() {
			return
		}
		pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
		if !ok {
			return
		}
		pb, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
		if !ok {
			return
		}
		pbox, ok := bodyAABB(w, player, pt, pb)
		if !ok || !overlapsAABB(pbox, goalAABB(g, t)) {
			return
		}

		g.Reached = true
		g.Timer = g.DelayFrames
		if g.Timer <= 0 {
			g.Timer = defaultGoalDelayFrames
		}
		if input, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok {
			input.Disabled = true
		}
		playSound(w, e, "goal")
		EmitGameEvent(w, "level_complete")
		if g.NextLevel == "" {
			EmitGameEvent(w, "game_complete")
			if hudEnt, ok := ecs.First(w, component.HUDComponent.Kind()); ok {
				hud, _ := ecs.Get(w, hudEnt, component.HUDComponent.Kind())
				hud.Banner = "The reach falls silent"
			}
		}
	})
}
