package system

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/ecs/entity"
)

// LevelLoader populates w with the named level.
type LevelLoader func(w *ecs.World, name string) error

// SceneResetter is notified after every load so scene-scoped state (the
// achievement tracker) starts fresh.
type SceneResetter interface {
	ResetScene()
}

// SceneSystem owns level loading. On the first frame and on every
// LevelChangeRequest it tears down non-persistent entities, resets physics,
// loads the level and dedupes persistent singletons against the fresh
// prefabs.
type SceneSystem struct {
	levelName   string
	load        LevelLoader
	physics     *PhysicsSystem
	resetters   []SceneResetter
	initialized bool
	loads       int
	err         error
	log         *log.Logger
}

// NewSceneSystem uses entity.LoadLevel when load is nil.
func NewSceneSystem(initialLevel string, load LevelLoader, physics *PhysicsSystem, resetters ...SceneResetter) *SceneSystem {
	if load == nil {
		load = entity.LoadLevel
	}
	return &SceneSystem{
		levelName: initialLevel,
		load:      load,
		physics:   physics,
		resetters: resetters,
		log:       common.Logger().With("system", "scene"),
	}
}

func (s *SceneSystem) CurrentLevel() string { return s.levelName }

// Loads counts completed loads, including reloads.
func (s *SceneSystem) Loads() int { return s.loads }

// Err is the last load failure. The game loop stops on it.
func (s *SceneSystem) Err() error { return s.err }

func (s *SceneSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.err != nil {
		return
	}

	if !s.initialized {
		s.initialized = true
		s.reload(w, "start")
		return
	}

	reqEnt, ok := ecs.First(w, component.LevelChangeRequestComponent.Kind())
	if !ok {
		return
	}
	req, _ := ecs.Get(w, reqEnt, component.LevelChangeRequestComponent.Kind())
	target, reason := req.TargetLevel, req.Reason
	ecs.ForEach(w, component.LevelChangeRequestComponent.Kind(), func(e ecs.Entity, _ *component.LevelChangeRequest) {
		_ = ecs.Remove(w, e, component.LevelChangeRequestComponent.Kind())
	})

	if target != "" {
		s.levelName = target
	}
	s.reload(w, reason)
}

func (s *SceneSystem) reload(w *ecs.World, reason string) {
	preferred := snapshotPersistent(w)
	prunePersistent(w)

	if s.physics != nil {
		s.physics.Reset()
		s.physics.Forget(w)
	}

	if err := s.load(w, s.levelName); err != nil {
		s.err = fmt.Errorf("scene: load %q: %w", s.levelName, err)
		s.log.Error("load failed", "level", s.levelName, "err", err)
		return
	}

	resolvePersistent(w, preferred)
	if hudEnt, ok := ecs.First(w, component.HUDComponent.Kind()); ok {
		hud, _ := ecs.Get(w, hudEnt, component.HUDComponent.Kind())
		hud.Banner = ""
		hud.BossVisible = false
	}
	if player, ok := playerEntity(w); ok {
		resetPlayerForScene(w, player)
	}

	for _, r := range s.resetters {
		if r != nil {
			r.ResetScene()
		}
	}
	s.loads++
	s.log.Info("level loaded", "level", s.levelName, "reason", reason)
	EmitGameEvent(w, "scene_start")
}

func snapshotPersistent(w *ecs.World) map[string]ecs.Entity {
	preferred := map[string]ecs.Entity{}
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, p *component.Persistent) {
		if p.ID == "" {
			return
		}
		if _, exists := preferred[p.ID]; !exists {
			preferred[p.ID] = e
		}
	})
	return preferred
}

func prunePersistent(w *ecs.World) {
	for _, e := range ecs.Entities(w) {
		if !ecs.Has(w, e, component.PersistentComponent.Kind()) {
			ecs.DestroyEntity(w, e)
		}
	}
}

// resolvePersistent keeps one entity per persistent ID. A survivor from the
// previous scene wins over the freshly loaded prefab, taking over its
// placement.
func resolvePersistent(w *ecs.World, preferred map[string]ecs.Entity) {
	seen := make(map[string]ecs.Entity)
	var dupes []ecs.Entity
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, p *component.Persistent) {
		if p.ID == "" {
			return
		}
		keep, ok := preferred[p.ID]
		if !ok || !ecs.IsAlive(w, keep) {
			if existing, dup := seen[p.ID]; dup && existing != e {
				dupes = append(dupes, e)
				return
			}
			seen[p.ID] = e
			return
		}
		if e == keep {
			return
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			placeAtTransform(w, keep, t.X, t.Y)
		}
		dupes = append(dupes, e)
	})
	for _, e := range dupes {
		ecs.DestroyEntity(w, e)
	}
}

// resetPlayerForScene restores a surviving player to a fresh-spawn state.
// Wallet and abilities are kept.
func resetPlayerForScene(w *ecs.World, player ecs.Entity) {
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok {
		h.Current = h.Max
	}
	if c, ok := ecs.Get(w, player, component.PlayerCombatComponent.Kind()); ok {
		*c = component.PlayerCombat{}
	}
	if sm, ok := ecs.Get(w, player, component.PlayerStateMachineComponent.Kind()); ok {
		*sm = component.PlayerStateMachine{}
	}
	if in, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok {
		in.Disabled = false
	}
	if safe, ok := ecs.Get(w, player, component.SafeRespawnComponent.Kind()); ok {
		safe.Initialized = false
	}
	if sprite, ok := ecs.Get(w, player, component.SpriteComponent.Kind()); ok {
		sprite.Hidden = false
	}
	ecs.Remove(w, player, component.RespawnRequestComponent.Kind())
	ecs.Remove(w, player, component.InvulnerableComponent.Kind())
	ecs.Remove(w, player, component.WhiteFlashComponent.Kind())
	ecs.Remove(w, player, component.PlayerStateInterruptComponent.Kind())
	ecs.Remove(w, player, component.DamageKnockbackRequestComponent.Kind())
}
