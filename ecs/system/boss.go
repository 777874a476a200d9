package system

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	defaultBossEngageRange     = 400.0
	defaultBossPatternCooldown = 90
	bossCorpseFrames           = 90
)

// BossSystem drives data-defined boss fights: it waits for the player to
// come in range, walks phases in order as health drops, fires attack
// patterns on a cooldown and resolves the defeat.
type BossSystem struct {
	log *log.Logger
}

func NewBossSystem() *BossSystem {
	return &BossSystem{log: common.Logger().With("system", "boss")}
}

func (s *BossSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w,
		component.BossComponent.Kind(),
		component.BossRuntimeComponent.Kind(),
		component.HealthComponent.Kind(),
		func(e ecs.Entity, boss *component.Boss, runtime *component.BossRuntime, hp *component.Health) {
			if runtime.Defeated {
				return
			}
			if hp.Dead() {
				s.defeat(w, e, boss, runtime)
				return
			}
			if len(boss.Phases) == 0 {
				return
			}

			if !runtime.Initialized {
				if !s.playerInRange(w, e, boss) {
					return
				}
				s.start(w, e, boss, runtime)
			}

			// Sequential progression: every threshold crossed since the last
			// frame enters its phase, in order.
			for runtime.CurrentPhase+1 < len(boss.Phases) {
				next := &boss.Phases[runtime.CurrentPhase+1]
				if hp.Fraction() > next.HPTrigger {
					break
				}
				runtime.CurrentPhase++
				runtime.PatternIndex = 0
				runtime.Cooldown = 0
				s.log.Debug("phase", "boss", boss.DisplayName, "phase", next.Name)
				EmitGameEvent(w, "boss_phase")
				s.applyActions(w, e, next.OnEnter)
			}

			// Pending delays block pattern selection until they all ran.
			if len(runtime.PendingDelays) > 0 {
				runtime.PendingDelays[0].Frames--
				if runtime.PendingDelays[0].Frames <= 0 {
					acts := runtime.PendingDelays[0].Actions
					runtime.PendingDelays = runtime.PendingDelays[1:]
					s.applyActions(w, e, acts)
				}
				return
			}

			phase := &boss.Phases[runtime.CurrentPhase]
			if runtime.Cooldown > 0 {
				runtime.Cooldown--
				return
			}
			if len(phase.Patterns) == 0 {
				return
			}

			idx := selectPatternIndex(runtime, phase.PatternMode, len(phase.Patterns))
			pattern := phase.Patterns[idx]
			runtime.PatternIndex++

			s.applyActions(w, e, pattern.Actions)

			cooldown := pattern.CooldownFrames
			if cooldown <= 0 {
				cooldown = defaultBossPatternCooldown
			}
			runtime.Cooldown = cooldown
		})
}

func (s *BossSystem) playerInRange(w *ecs.World, e ecs.Entity, boss *component.Boss) bool {
	px, py, ok := playerPosition(w)
	if !ok {
		return false
	}
	bx, by, ok := entityPosition(w, e)
	if !ok {
		return false
	}
	r := boss.EngageRange
	if r <= 0 {
		r = defaultBossEngageRange
	}
	return math.Hypot(px-bx, py-by) <= r
}

func (s *BossSystem) start(w *ecs.World, e ecs.Entity, boss *component.Boss, runtime *component.BossRuntime) {
	runtime.Initialized = true
	runtime.CurrentPhase = 0
	runtime.PatternIndex = 0
	runtime.Cooldown = 0
	if runtime.Seed == 0 {
		runtime.Seed = uint32(e) | 1
	}

	s.log.Info("boss engaged", "boss", boss.DisplayName)
	engage(w, e)
	EmitGameEvent(w, "boss_engaged")
	setGateGroup(w, boss.ArenaGroup, false)
	if boss.MusicTrack != "" {
		requestMusic(w, boss.MusicTrack, true)
	}
	s.applyActions(w, e, boss.Phases[0].OnEnter)
}

func (s *BossSystem) defeat(w *ecs.World, e ecs.Entity, boss *component.Boss, runtime *component.BossRuntime) {
	runtime.Defeated = true
	runtime.PendingDelays = nil
	s.log.Info("boss defeated", "boss", boss.DisplayName)

	EmitGameEvent(w, "boss_defeated")
	requestMusic(w, "", false)
	setGateGroup(w, boss.ArenaGroup, true)

	_ = ecs.Remove(w, e, component.HitboxComponent.Kind())
	_ = ecs.Remove(w, e, component.HurtboxComponent.Kind())
	_ = ecs.Remove(w, e, component.TeleporterComponent.Kind())
	if a, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		a.Play("death", true)
	}
	setEntityVelocity(w, e, 0, 0)
	addWhiteFlash(w, e, bossCorpseFrames, 6)
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: bossCorpseFrames})
}

func selectPatternIndex(runtime *component.BossRuntime, mode string, n int) int {
	if n <= 0 {
		return 0
	}
	if strings.EqualFold(mode, "random") {
		return int(nextRand(&runtime.Seed) % uint32(n))
	}
	if runtime.PatternIndex < 0 {
		runtime.PatternIndex = 0
	}
	return runtime.PatternIndex % n
}

// nextRand is a xorshift32 step; seeds live in components so runs replay.
func nextRand(seed *uint32) uint32 {
	x := *seed
	if x == 0 {
		x = 0x9e3779b9
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	*seed = x
	return x
}

func (s *BossSystem) applyActions(w *ecs.World, e ecs.Entity, actions []map[string]any) {
	for _, entry := range actions {
		for _, key := range entryKeys(entry) {
			s.applyAction(w, e, key, entry[key])
		}
	}
}

func (s *BossSystem) applyAction(w *ecs.World, e ecs.Entity, key string, arg any) {
	switch key {
	case "emit_ai_event":
		enqueueAIEvent(w, e, asString(arg))
	case "emit_ai_events":
		s.queueAIEvents(w, e, arg)
	case "set_ai":
		s.setAIStats(w, e, arg)
	case "set_gates":
		m, ok := arg.(map[string]any)
		if !ok {
			return
		}
		open, ok := asBoolValue(m["open"])
		if !ok {
			return
		}
		setGateGroup(w, asString(m["group"]), open)
	case "stop_player_input", "restore_player_input":
		if p, ok := playerEntity(w); ok {
			if input, ok := ecs.Get(w, p, component.InputComponent.Kind()); ok {
				input.Disabled = key == "stop_player_input"
			}
		}
	case "delay_actions":
		m, ok := arg.(map[string]any)
		if !ok {
			return
		}
		frames, _ := asIntFromMap(m, "frames")
		var acts []map[string]any
		switch v := m["actions"].(type) {
		case []any:
			for _, it := range v {
				if mm, ok := it.(map[string]any); ok {
					acts = append(acts, mm)
				}
			}
		case []map[string]any:
			acts = v
		}
		if frames <= 0 {
			s.applyActions(w, e, acts)
			return
		}
		if rt, ok := ecs.Get(w, e, component.BossRuntimeComponent.Kind()); ok {
			rt.PendingDelays = append(rt.PendingDelays, component.DelayedAction{Frames: frames, Actions: acts})
		}
	case "play_audio":
		playSound(w, e, asString(arg))
	case "play_music":
		requestMusic(w, asString(arg), true)
	case "camera_shake":
		frames, intensity := 60, 3.0
		if m, ok := arg.(map[string]any); ok {
			if v, ok := asIntFromMap(m, "frames"); ok && v > 0 {
				frames = v
			}
			if v, ok := asFloatFromMap(m, "intensity"); ok && v > 0 {
				intensity = v
			}
		}
		requestCameraShake(w, frames, intensity)
	case "set_animation":
		if a, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
			a.Play(asString(arg), true)
		}
	case "print":
		s.log.Debug("print", "msg", asString(arg))
	default:
		// Everything else is an FSM action run against the boss.
		makeAction, ok := actionRegistry[key]
		if !ok {
			s.log.Warn("unsupported boss action", "action", key)
			return
		}
		makeAction(arg)(bossActionContext(w, e))
	}
}

func bossActionContext(w *ecs.World, e ecs.Entity) *AIActionContext {
	ai, _ := ecs.Get(w, e, component.AIComponent.Kind())
	state, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
	aiCtx, _ := ecs.Get(w, e, component.AIContextComponent.Kind())
	cfg, _ := ecs.Get(w, e, component.AIConfigComponent.Kind())
	px, py, found := playerPosition(w)
	return newAIActionContext(w, e, ai, state, aiCtx, cfg, found, px, py, func(ev component.EventID) {
		enqueueAIEvent(w, e, string(ev))
	})
}

func (s *BossSystem) setAIStats(w *ecs.World, e ecs.Entity, arg any) {
	m, ok := arg.(map[string]any)
	if !ok {
		return
	}
	ai, ok := ecs.Get(w, e, component.AIComponent.Kind())
	if !ok {
		return
	}
	if v, ok := asFloatFromMap(m, "move_speed"); ok {
		ai.MoveSpeed = v
	}
	if v, ok := asFloatFromMap(m, "follow_range"); ok {
		ai.FollowRange = v
	}
	if v, ok := asFloatFromMap(m, "attack_range"); ok {
		ai.AttackRange = v
	}
	if v, ok := asIntFromMap(m, "attack_frames"); ok {
		ai.AttackFrames = v
	}
	if tp, ok := ecs.Get(w, e, component.TeleporterComponent.Kind()); ok {
		if v, ok := asIntFromMap(m, "teleport_cooldown"); ok {
			tp.CooldownFrames = v
		}
		if v, ok := asFloatFromMap(m, "panic_distance"); ok {
			tp.PanicDistance = v
		}
		if v, ok := m["teleport_mode"].(string); ok {
			tp.Mode = component.TeleportMode(v)
		}
	}
}

func (s *BossSystem) queueAIEvents(w *ecs.World, e ecs.Entity, arg any) {
	switch v := arg.(type) {
	case []any:
		for _, it := range v {
			enqueueAIEvent(w, e, asString(it))
		}
	case []string:
		for _, it := range v {
			enqueueAIEvent(w, e, it)
		}
	default:
		enqueueAIEvent(w, e, asString(arg))
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asBoolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if strings.EqualFold(b, "true") {
			return true, true
		}
		if strings.EqualFold(b, "false") {
			return false, true
		}
	}
	return false, false
}

func asFloatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asIntValue(v any) (int, bool) {
	if f, ok := asFloatValue(v); ok {
		return int(f), true
	}
	return 0, false
}

func asFloatFromMap(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return asFloatValue(v)
}

func asIntFromMap(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return asIntValue(v)
}
