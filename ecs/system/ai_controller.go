package system

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	defaultLeashFactor     = 1.5
	defaultDisengageFrames = 180
)

// AISystem runs every enemy FSM once per frame: queued events first, then
// sensors, the current state's While actions, condition checkers, and
// finally the accumulated events in order.
type AISystem struct {
	fsmCache    map[string]*FSMDef
	scriptCache map[ecs.Entity]*scriptBrain
	log         *log.Logger
}

func NewAISystem() *AISystem {
	return &AISystem{
		fsmCache: map[string]*FSMDef{
			component.DefaultAIFSMName: DefaultEnemyFSM(),
		},
		scriptCache: map[ecs.Entity]*scriptBrain{},
		log:         common.Logger().With("system", "ai"),
	}
}

func (s *AISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerX, playerY, playerFound := playerPosition(w)
	if player, ok := playerEntity(w); ok {
		if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h.Dead() {
			playerFound = false
		}
	}

	ecs.ForEach3(w, component.AIComponent.Kind(), component.AIStateComponent.Kind(), component.TransformComponent.Kind(), func(ent ecs.Entity, ai *component.AI, state *component.AIState, _ *component.Transform) {
		cfg, ok := ecs.Get(w, ent, component.AIConfigComponent.Kind())
		if !ok {
			cfg = &component.AIConfig{FSM: component.DefaultAIFSMName}
		}
		aiCtx, ok := ecs.Get(w, ent, component.AIContextComponent.Kind())
		if !ok {
			_ = ecs.Add(w, ent, component.AIContextComponent.Kind(), &component.AIContext{})
			aiCtx, _ = ecs.Get(w, ent, component.AIContextComponent.Kind())
		}

		pendingEvents := make([]component.EventID, 0, 8)
		enqueue := func(ev component.EventID) {
			if ev == "" {
				return
			}
			pendingEvents = append(pendingEvents, ev)
		}

		if irq, ok := ecs.Get(w, ent, component.AIStateInterruptComponent.Kind()); ok {
			enqueue(component.EventID(irq.Event))
			_ = ecs.Remove(w, ent, component.AIStateInterruptComponent.Kind())
		}
		if q, ok := ecs.Get(w, ent, component.AIEventQueueComponent.Kind()); ok {
			for _, ev := range q.Events {
				enqueue(component.EventID(ev))
			}
			_ = ecs.Remove(w, ent, component.AIEventQueueComponent.Kind())
		}

		dead := false
		if h, ok := ecs.Get(w, ent, component.HealthComponent.Kind()); ok && h.Dead() {
			dead = true
		}

		ctx := newAIActionContext(w, ent, ai, state, aiCtx, cfg, playerFound, playerX, playerY, enqueue)

		if !dead {
			s.enqueueSensorEvents(w, ent, ai, aiCtx, playerFound, playerX, playerY, enqueue)
		}

		if cfg.Spec != nil && cfg.Spec.ScriptLifecycle {
			s.runScriptBrain(ctx, cfg.Spec, pendingEvents)
			return
		}

		fsm := s.resolveFSM(cfg)
		if fsm == nil {
			return
		}

		if state.Current == "" {
			state.Current = fsm.Initial
			applyActions(fsm.States[state.Current].OnEnter, ctx)
		}

		if !dead {
			// While runs first so it can update timers and enqueue events
			// handled in the same tick.
			applyActions(fsm.States[state.Current].While, ctx)
			for _, ch := range fsm.Checkers {
				if ch.From != state.Current {
					continue
				}
				if ch.Check != nil && ch.Check(ctx) {
					enqueue(ch.Event)
				}
			}
		}

		processEvents(fsm, state, ctx, pendingEvents)
	})

	for ent := range s.scriptCache {
		if !ecs.IsAlive(w, ent) {
			delete(s.scriptCache, ent)
		}
	}
}

// ResetScene drops compiled FSMs and script runtimes so a reload picks up
// edited files and reused entity ids never inherit a stale runtime.
func (s *AISystem) ResetScene() {
	clear(s.scriptCache)
	for key := range s.fsmCache {
		if key != component.DefaultAIFSMName {
			delete(s.fsmCache, key)
		}
	}
}

func newAIActionContext(w *ecs.World, ent ecs.Entity, ai *component.AI, state *component.AIState, aiCtx *component.AIContext, cfg *component.AIConfig, playerFound bool, px, py float64, enqueue func(component.EventID)) *AIActionContext {
	return &AIActionContext{
		World:       w,
		Entity:      ent,
		AI:          ai,
		State:       state,
		Context:     aiCtx,
		Config:      cfg,
		PlayerFound: playerFound,
		PlayerX:     px,
		PlayerY:     py,
		GetPosition: func() (x, y float64) {
			x, y, _ = entityPosition(w, ent)
			return x, y
		},
		GetVelocity: func() (x, y float64) {
			return entityVelocity(w, ent)
		},
		SetVelocity: func(x, y float64) {
			if b, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok && b.Body != nil && !b.Static {
				b.Body.SetVelocityVector(cp.Vector{X: x, Y: y})
			}
		},
		ChangeAnimation: func(name string) {
			anim, ok := ecs.Get(w, ent, component.AnimationComponent.Kind())
			if !ok {
				return
			}
			if _, ok := anim.Defs[name]; !ok {
				return
			}
			anim.Play(name, true)
		},
		FacingLeft: func(facingLeft bool) {
			if sprite, ok := ecs.Get(w, ent, component.SpriteComponent.Kind()); ok {
				sprite.FacingLeft = facingLeft
			}
		},
		EnqueueEvent: enqueue,
	}
}

func (s *AISystem) resolveFSM(cfg *component.AIConfig) *FSMDef {
	if cfg.Spec != nil {
		key := fmt.Sprintf("spec_%p", cfg.Spec)
		if cached, ok := s.fsmCache[key]; ok {
			return cached
		}
		compiled, err := CompileFSMSpec(*cfg.Spec)
		if err != nil {
			s.log.Warn("compile fsm spec", "err", err)
			s.fsmCache[key] = nil
			return nil
		}
		s.fsmCache[key] = compiled
		return compiled
	}
	return s.getFSM(cfg.FSM)
}

func (s *AISystem) getFSM(name string) *FSMDef {
	if name == "" {
		name = component.DefaultAIFSMName
	}
	if s.fsmCache == nil {
		s.fsmCache = map[string]*FSMDef{}
	}
	if fsm, ok := s.fsmCache[name]; ok {
		return fsm
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		fsm, err := LoadFSMFromPrefab(name)
		if err != nil {
			s.log.Warn("load fsm", "path", name, "err", err)
		}
		s.fsmCache[name] = fsm
		return fsm
	}
	return s.fsmCache[component.DefaultAIFSMName]
}

// enqueueSensorEvents emits level-triggered perception events. Engaged
// enemies keep seeing the player out to the leash range and only lose them
// after DisengageFrames consecutive frames beyond it.
func (s *AISystem) enqueueSensorEvents(w *ecs.World, ent ecs.Entity, ai *component.AI, aiCtx *component.AIContext, playerFound bool, px, py float64, enqueue func(ev component.EventID)) {
	if !playerFound {
		aiCtx.LastSeen = false
		aiCtx.LastInRange = false
		if eng, ok := ecs.Get(w, ent, component.EngagementComponent.Kind()); ok {
			eng.Engaged = false
			eng.OutOfLeash = 0
		}
		enqueue("loses_player")
		enqueue("out_attack_range")
		return
	}

	ex, ey, _ := entityPosition(w, ent)
	dist := math.Hypot(px-ex, py-ey)

	seen := false
	if r := senseRange(w, ent, ai); r > 0 {
		eng, hasEng := ecs.Get(w, ent, component.EngagementComponent.Kind())
		switch {
		case dist <= r:
			seen = true
			if hasEng {
				eng.OutOfLeash = 0
				if !eng.Engaged {
					engage(w, ent)
				}
			}
		case hasEng && eng.Engaged:
			eng.OutOfLeash++
			if eng.OutOfLeash >= disengageFrames(eng) {
				disengage(w, ent)
			} else {
				seen = true
			}
		}
	}

	aiCtx.LastSeen = seen
	if seen {
		enqueue("sees_player")
	} else {
		enqueue("loses_player")
	}

	inRange := ai.AttackRange > 0 && dist <= ai.AttackRange
	aiCtx.LastInRange = inRange
	if inRange {
		enqueue("in_attack_range")
	} else if ai.AttackRange > 0 {
		enqueue("out_attack_range")
	}
}

// senseRange is the follow range, stretched by the leash while engaged.
func senseRange(w *ecs.World, e ecs.Entity, ai *component.AI) float64 {
	if ai == nil {
		return 0
	}
	r := ai.FollowRange
	if w == nil {
		return r
	}
	if eng, ok := ecs.Get(w, e, component.EngagementComponent.Kind()); ok && eng.Engaged {
		factor := eng.LeashFactor
		if factor <= 0 {
			factor = defaultLeashFactor
		}
		r *= factor
	}
	return r
}

func disengageFrames(eng *component.Engagement) int {
	if eng.DisengageFrames > 0 {
		return eng.DisengageFrames
	}
	return defaultDisengageFrames
}

func isEngaged(w *ecs.World, e ecs.Entity) bool {
	if w == nil {
		return false
	}
	eng, ok := ecs.Get(w, e, component.EngagementComponent.Kind())
	return ok && eng.Engaged
}

// engage puts an AI entity into aggro. Entities without an Engagement get
// one with default leash settings so a hit from afar still sticks.
func engage(w *ecs.World, e ecs.Entity) {
	if !ecs.Has(w, e, component.AIComponent.Kind()) {
		return
	}
	eng, ok := ecs.Get(w, e, component.EngagementComponent.Kind())
	if !ok {
		_ = ecs.Add(w, e, component.EngagementComponent.Kind(), &component.Engagement{
			LeashFactor:     defaultLeashFactor,
			DisengageFrames: defaultDisengageFrames,
		})
		eng, _ = ecs.Get(w, e, component.EngagementComponent.Kind())
	}
	eng.OutOfLeash = 0
	if eng.Engaged {
		return
	}
	eng.Engaged = true
	enqueueAIEvent(w, e, "engaged")
	EmitGameEvent(w, "enemy_engaged")
}

func disengage(w *ecs.World, e ecs.Entity) {
	eng, ok := ecs.Get(w, e, component.EngagementComponent.Kind())
	if !ok || !eng.Engaged {
		return
	}
	eng.Engaged = false
	eng.OutOfLeash = 0
	enqueueAIEvent(w, e, "disengaged")
}

func processEvents(fsm *FSMDef, state *component.AIState, ctx *AIActionContext, events []component.EventID) {
	if fsm == nil || state == nil || ctx == nil {
		return
	}
	for _, ev := range events {
		transitions, ok := fsm.Transitions[state.Current]
		if !ok {
			continue
		}
		next, ok := transitions[ev]
		if !ok || next == state.Current {
			continue
		}
		applyActions(fsm.States[state.Current].OnExit, ctx)
		state.Current = next
		applyActions(fsm.States[state.Current].OnEnter, ctx)
	}
}

func applyActions(actions []Action, ctx *AIActionContext) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}
