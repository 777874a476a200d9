package entity

import (
	"fmt"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/prefabs"
)

func addLoot(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.LootComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode loot spec: %w", err)
	}
	return ecs.Add(w, e, component.LootComponent.Kind(), &component.Loot{Coins: spec.Coins, Heart: spec.Heart})
}

func addPickup(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PickupComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pickup spec: %w", err)
	}
	switch spec.Kind {
	case component.PickupCoin, component.PickupHeart, component.PickupKey, component.PickupOrb:
	default:
		return fmt.Errorf("unknown pickup kind %q", spec.Kind)
	}
	if spec.Amount <= 0 {
		spec.Amount = 1
	}
	return ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
		Kind:            spec.Kind,
		Amount:          spec.Amount,
		BobAmplitude:    spec.BobAmplitude,
		BobSpeed:        spec.BobSpeed,
		CollisionWidth:  spec.CollisionWidth,
		CollisionHeight: spec.CollisionHeight,
		GrantDoubleJump: spec.GrantDoubleJump,
		GrantWallJump:   spec.GrantWallJump,
	})
}

func addGate(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GateComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode gate spec: %w", err)
	}
	return ecs.Add(w, e, component.GateComponent.Kind(), &component.Gate{
		Group:    spec.Group,
		Open:     spec.Open,
		NeedsKey: spec.NeedsKey,
	})
}

func addGoal(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GoalComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode goal spec: %w", err)
	}
	if spec.Width <= 0 {
		spec.Width = common.TileSize
	}
	if spec.Height <= 0 {
		spec.Height = common.TileSize * 2
	}
	return ecs.Add(w, e, component.GoalComponent.Kind(), &component.Goal{
		ID:          spec.ID,
		NextLevel:   spec.NextLevel,
		Bounds:      component.AABB{X: spec.X, Y: spec.Y, W: spec.Width, H: spec.Height},
		DelayFrames: spec.DelayFrames,
	})
}

func addTrapCycle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TrapCycleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode trap cycle spec: %w", err)
	}
	if spec.OnFrames < 0 || spec.OffFrames < 0 {
		return fmt.Errorf("trap cycle frames must not be negative")
	}
	return ecs.Add(w, e, component.TrapCycleComponent.Kind(), &component.TrapCycle{
		OnFrames:  spec.OnFrames,
		OffFrames: spec.OffFrames,
		Offset:    spec.Offset,
	})
}

func addArrowTrap(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ArrowTrapComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode arrow trap spec: %w", err)
	}
	if spec.IntervalFrames <= 0 {
		return fmt.Errorf("arrow trap needs interval_frames")
	}
	return ecs.Add(w, e, component.ArrowTrapComponent.Kind(), &component.ArrowTrap{
		IntervalFrames: spec.IntervalFrames,
		Timer:          spec.Offset % spec.IntervalFrames,
		Speed:          spec.Speed,
		DirX:           spec.DirX,
		DirY:           spec.DirY,
		Damage:         spec.Damage,
		LifetimeFrames: spec.LifetimeFrames,
	})
}

func addFallingTrap(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FallingTrapComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode falling trap spec: %w", err)
	}
	return ecs.Add(w, e, component.FallingTrapComponent.Kind(), &component.FallingTrap{
		TriggerWidth: spec.TriggerWidth,
		DelayFrames:  spec.DelayFrames,
		FallSpeed:    spec.FallSpeed,
	})
}
