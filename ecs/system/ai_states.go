package system

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/prefabs"
)

type Action func(ctx *AIActionContext)

type AIActionContext struct {
	World           *ecs.World
	Entity          ecs.Entity
	AI              *component.AI
	State           *component.AIState
	Context         *component.AIContext
	Config          *component.AIConfig
	PlayerFound     bool
	PlayerX         float64
	PlayerY         float64
	GetPosition     func() (x, y float64)
	GetVelocity     func() (x, y float64)
	SetVelocity     func(x, y float64)
	ChangeAnimation func(name string)
	FacingLeft      func(facingLeft bool)
	EnqueueEvent    func(ev component.EventID)
}

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

type FSMDef struct {
	Initial     component.StateID
	States      map[component.StateID]StateDef
	Transitions map[component.StateID]map[component.EventID]component.StateID
	Checkers    []TransitionCheckerDef
}

type RawFSM struct {
	Initial string              `yaml:"initial"`
	States  map[string]RawState `yaml:"states"`
	// Transitions can be either map[from]map[event]to or
	// map[from][]map[condition]value where condition names are looked up in
	// the transition registry.
	Transitions map[string]any `yaml:"transitions"`
}

type RawState struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

const aiTickSeconds = 1.0 / common.TPS

var actionRegistry map[string]func(any) Action

func init() {
	actionRegistry = map[string]func(any) Action{
		"print": func(arg any) Action {
			msg := fmt.Sprint(arg)
			return func(ctx *AIActionContext) {
				if ctx == nil {
					return
				}
				common.Logger().Debug("ai print", "entity", ctx.Entity, "msg", msg)
			}
		},
		"set_animation": func(arg any) Action {
			name := fmt.Sprint(arg)
			return func(ctx *AIActionContext) {
				if ctx != nil && ctx.ChangeAnimation != nil {
					ctx.ChangeAnimation(name)
				}
			}
		},
		"stop_x": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.GetVelocity == nil || ctx.SetVelocity == nil {
					return
				}
				_, y := ctx.GetVelocity()
				ctx.SetVelocity(0, y)
			}
		},
		"stop": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx != nil && ctx.SetVelocity != nil {
					ctx.SetVelocity(0, 0)
				}
			}
		},
		"patrol":              makePatrolAction,
		"move_towards_player": makeMoveTowardsPlayerAction,
		"face_player": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx == nil || !ctx.PlayerFound || ctx.GetPosition == nil || ctx.FacingLeft == nil {
					return
				}
				ex, _ := ctx.GetPosition()
				ctx.FacingLeft(ctx.PlayerX < ex)
			}
		},
		"start_timer": func(arg any) Action {
			seconds := asFloat(arg)
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.Context == nil {
					return
				}
				ctx.Context.Timer = seconds
			}
		},
		"start_attack_timer": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.Context == nil || ctx.AI == nil {
					return
				}
				frames := ctx.AI.AttackFrames
				if frames <= 0 {
					frames = 20
				}
				ctx.Context.AttackTimer = frames
				ctx.Context.Timer = float64(frames) * aiTickSeconds
			}
		},
		"tick_timer": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.Context == nil || ctx.EnqueueEvent == nil {
					return
				}
				ctx.Context.Timer -= aiTickSeconds
				if ctx.Context.AttackTimer > 0 {
					ctx.Context.AttackTimer--
				}
				// Float drift would otherwise leave a hair of time after N ticks.
				if ctx.Context.Timer <= 1e-9 {
					ctx.EnqueueEvent(component.EventID("timer_expired"))
				}
			}
		},
		"start_cooldown": func(arg any) Action {
			frames := int(asFloat(arg))
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.World == nil || frames <= 0 {
					return
				}
				_ = ecs.Add(ctx.World, ctx.Entity, component.CooldownComponent.Kind(), &component.Cooldown{Frames: frames})
			}
		},
		"emit_event": func(arg any) Action {
			name := fmt.Sprint(arg)
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.EnqueueEvent == nil {
					return
				}
				ctx.EnqueueEvent(component.EventID(name))
			}
		},
		"emit_game_event": func(arg any) Action {
			name := fmt.Sprint(arg)
			return func(ctx *AIActionContext) {
				if ctx != nil {
					EmitGameEvent(ctx.World, name)
				}
			}
		},
		"play_sound": func(arg any) Action {
			name := fmt.Sprint(arg)
			return func(ctx *AIActionContext) {
				if ctx != nil && ctx.World != nil {
					playSound(ctx.World, ctx.Entity, name)
				}
			}
		},
		"fire_projectile": makeFireProjectileAction,
		"melee_strike": func(arg any) Action {
			anim := "attack"
			if s, ok := arg.(string); ok && s != "" {
				anim = s
			}
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.World == nil {
					return
				}
				if a, ok := ecs.Get(ctx.World, ctx.Entity, component.AnimationComponent.Kind()); ok {
					a.Play(anim, true)
				}
				playSound(ctx.World, ctx.Entity, "attack")
			}
		},
		"teleport": func(arg any) Action {
			mode := component.TeleportMode("")
			if s, ok := arg.(string); ok {
				mode = component.TeleportMode(s)
			}
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.World == nil {
					return
				}
				requestTeleport(ctx.World, ctx.Entity, mode)
			}
		},
		"add_white_flash": func(arg any) Action {
			frames := 30
			if arg != nil {
				if v := int(asFloat(arg)); v > 0 {
					frames = v
				}
			}
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.World == nil {
					return
				}
				addWhiteFlash(ctx.World, ctx.Entity, frames, 5)
			}
		},
		"add_invulnerable": func(arg any) Action {
			frames := int(asFloat(arg))
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.World == nil {
					return
				}
				_ = ecs.Add(ctx.World, ctx.Entity, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: frames})
			}
		},
		"remove_invulnerable": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx == nil || ctx.World == nil {
					return
				}
				_ = ecs.Remove(ctx.World, ctx.Entity, component.InvulnerableComponent.Kind())
			}
		},
		"engage": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx != nil && ctx.World != nil {
					engage(ctx.World, ctx.Entity)
				}
			}
		},
		"disengage": func(_ any) Action {
			return func(ctx *AIActionContext) {
				if ctx != nil && ctx.World != nil {
					disengage(ctx.World, ctx.Entity)
				}
			}
		},
	}
}

func makePatrolAction(_ any) Action {
	return func(ctx *AIActionContext) {
		if ctx == nil || ctx.AI == nil || ctx.Context == nil || ctx.GetPosition == nil || ctx.GetVelocity == nil || ctx.SetVelocity == nil {
			return
		}
		c := ctx.Context
		x, _ := ctx.GetPosition()
		if !c.HomeSet {
			c.HomeX = x
			c.HomeSet = true
		}
		if c.PatrolDir == 0 {
			c.PatrolDir = 1
			if ctx.World != nil && entityFacingLeft(ctx.World, ctx.Entity) {
				c.PatrolDir = -1
			}
		}

		if ctx.World != nil {
			if nav, ok := ecs.Get(ctx.World, ctx.Entity, component.AINavigationComponent.Kind()); ok {
				if c.PatrolDir > 0 && (!nav.GroundAheadRight || nav.WallRight) {
					c.PatrolDir = -1
				} else if c.PatrolDir < 0 && (!nav.GroundAheadLeft || nav.WallLeft) {
					c.PatrolDir = 1
				}
			}
		}
		if r := ctx.AI.PatrolRadius; r > 0 {
			if c.PatrolDir > 0 && x >= c.HomeX+r {
				c.PatrolDir = -1
			} else if c.PatrolDir < 0 && x <= c.HomeX-r {
				c.PatrolDir = 1
			}
		}

		speed := ctx.AI.PatrolSpeed
		if speed <= 0 {
			speed = ctx.AI.MoveSpeed / 2
		}
		_, vy := ctx.GetVelocity()
		ctx.SetVelocity(c.PatrolDir*speed, vy)
		if ctx.FacingLeft != nil {
			ctx.FacingLeft(c.PatrolDir < 0)
		}
	}
}

// makeMoveTowardsPlayerAction chases horizontally and stops at ledges. With
// arg "fly" it steers in both axes instead, following the A* path when the
// entity has one.
func makeMoveTowardsPlayerAction(arg any) Action {
	fly := fmt.Sprint(arg) == "fly"
	return func(ctx *AIActionContext) {
		if ctx == nil || ctx.AI == nil || !ctx.PlayerFound || ctx.GetPosition == nil || ctx.GetVelocity == nil || ctx.SetVelocity == nil {
			return
		}
		ex, ey := ctx.GetPosition()
		dx := ctx.PlayerX - ex
		dy := ctx.PlayerY - ey

		if fly {
			if ctx.World != nil {
				if node, ok := nextPathNode(ctx.World, ctx.Entity); ok {
					dx, dy = node.X-ex, node.Y-ey
				}
			}
			dist := math.Hypot(dx, dy)
			if dist < 0.001 {
				ctx.SetVelocity(0, 0)
				return
			}
			ctx.SetVelocity(dx/dist*ctx.AI.MoveSpeed, dy/dist*ctx.AI.MoveSpeed)
			return
		}

		dir := 0.0
		if math.Abs(dx) > 0.001 {
			dir = common.Sign(dx)
		}
		if ctx.World != nil {
			if nav, ok := ecs.Get(ctx.World, ctx.Entity, component.AINavigationComponent.Kind()); ok {
				if (dir > 0 && (!nav.GroundAheadRight || nav.WallRight)) || (dir < 0 && (!nav.GroundAheadLeft || nav.WallLeft)) {
					dir = 0
				}
			}
		}
		_, y := ctx.GetVelocity()
		ctx.SetVelocity(dir*ctx.AI.MoveSpeed, y)
	}
}

// makeFireProjectileAction accepts a map with speed, damage, offset_x,
// offset_y, lifetime and aim. Without aim the shot flies along the facing.
func makeFireProjectileAction(arg any) Action {
	speed, damage, offX, offY, lifetime, aim := 6.0, 1, 16.0, 0.0, 0, false
	if m, ok := arg.(map[string]any); ok {
		if v, ok := m["speed"]; ok {
			speed = asFloat(v)
		}
		if v, ok := m["damage"]; ok {
			damage = int(asFloat(v))
		}
		if v, ok := m["offset_x"]; ok {
			offX = asFloat(v)
		}
		if v, ok := m["offset_y"]; ok {
			offY = asFloat(v)
		}
		if v, ok := m["lifetime"]; ok {
			lifetime = int(asFloat(v))
		}
		if v, ok := m["aim"].(bool); ok {
			aim = v
		}
	}
	return func(ctx *AIActionContext) {
		if ctx == nil || ctx.World == nil || ctx.GetPosition == nil {
			return
		}
		w := ctx.World
		x, y := ctx.GetPosition()
		dir := 1.0
		if entityFacingLeft(w, ctx.Entity) {
			dir = -1
		}
		sx, sy := x+dir*offX, y+offY

		vx, vy := dir*speed, 0.0
		if aim && ctx.PlayerFound {
			dx, dy := ctx.PlayerX-sx, ctx.PlayerY-sy
			if d := math.Hypot(dx, dy); d > 0.001 {
				vx, vy = dx/d*speed, dy/d*speed
			}
		}

		team := component.TeamEnemy
		if f, ok := ecs.Get(w, ctx.Entity, component.FactionComponent.Kind()); ok {
			team = f.Team
		}
		spawnProjectile(w, projectileSpawn{
			x: sx, y: sy,
			vx: vx, vy: vy,
			damage:   damage,
			team:     team,
			owner:    ctx.Entity,
			lifetime: lifetime,
		})
		playSound(w, ctx.Entity, "shoot")
	}
}

type TransitionChecker func(ctx *AIActionContext) bool

type TransitionCheckerDef struct {
	From  component.StateID
	Event component.EventID
	Check TransitionChecker
}

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return true }
	},
	"sees_player": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.AI == nil || ctx.GetPosition == nil || !ctx.PlayerFound {
				return false
			}
			r := senseRange(ctx.World, ctx.Entity, ctx.AI)
			if r <= 0 {
				return false
			}
			ex, ey := ctx.GetPosition()
			return math.Hypot(ctx.PlayerX-ex, ctx.PlayerY-ey) <= r
		}
	},
	"loses_player": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.AI == nil || ctx.GetPosition == nil {
				return false
			}
			if !ctx.PlayerFound {
				return true
			}
			if isEngaged(ctx.World, ctx.Entity) {
				return false
			}
			r := senseRange(ctx.World, ctx.Entity, ctx.AI)
			if r <= 0 {
				return false
			}
			ex, ey := ctx.GetPosition()
			return math.Hypot(ctx.PlayerX-ex, ctx.PlayerY-ey) > r
		}
	},
	"in_attack_range": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.AI == nil || ctx.GetPosition == nil || !ctx.PlayerFound || ctx.AI.AttackRange <= 0 {
				return false
			}
			ex, ey := ctx.GetPosition()
			return math.Hypot(ctx.PlayerX-ex, ctx.PlayerY-ey) <= ctx.AI.AttackRange
		}
	},
	"timer_expired": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.Context == nil {
				return false
			}
			return ctx.Context.Timer <= 1e-9
		}
	},
	"animation_finished": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.World == nil {
				return false
			}
			a, ok := ecs.Get(ctx.World, ctx.Entity, component.AnimationComponent.Kind())
			return ok && a.Finished
		}
	},
	"health_below": func(arg any) TransitionChecker {
		limit := asFloat(arg)
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.World == nil {
				return false
			}
			h, ok := ecs.Get(ctx.World, ctx.Entity, component.HealthComponent.Kind())
			return ok && h.Fraction() <= limit
		}
	},
	"engaged": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx != nil && isEngaged(ctx.World, ctx.Entity)
		}
	},
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

// entryKeys returns the keys of a YAML entry in sorted order, so an entry
// holding several actions or transitions always runs them the same way.
func entryKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func CompileFSM(raw RawFSM) (*FSMDef, error) {
	if raw.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}
	if _, ok := raw.States[raw.Initial]; !ok {
		return nil, fmt.Errorf("fsm: initial state %q is not defined", raw.Initial)
	}

	states := map[component.StateID]StateDef{}
	build := func(list []map[string]any) ([]Action, error) {
		if len(list) == 0 {
			return nil, nil
		}
		out := make([]Action, 0, len(list))
		for _, e := range list {
			for _, k := range entryKeys(e) {
				v := e[k]
				makeAction, ok := actionRegistry[k]
				if !ok {
					return nil, fmt.Errorf("fsm: unknown action %q", k)
				}
				out = append(out, makeAction(v))
			}
		}
		return out, nil
	}

	for name, s := range raw.States {
		onEnter, err := build(s.OnEnter)
		if err != nil {
			return nil, err
		}
		while, err := build(s.While)
		if err != nil {
			return nil, err
		}
		onExit, err := build(s.OnExit)
		if err != nil {
			return nil, err
		}
		states[component.StateID(name)] = StateDef{
			OnEnter: onEnter,
			While:   while,
			OnExit:  onExit,
		}
	}

	transitions := map[component.StateID]map[component.EventID]component.StateID{}
	var checkers []TransitionCheckerDef

	conditionTarget := func(val any) (string, any) {
		if m, ok := val.(map[string]any); ok {
			to, _ := m["to"].(string)
			return to, m["arg"]
		}
		s, _ := val.(string)
		return s, nil
	}

	for from, rawVal := range raw.Transitions {
		fromID := component.StateID(from)
		transitions[fromID] = map[component.EventID]component.StateID{}

		switch v := rawVal.(type) {
		case map[string]any:
			for _, evName := range entryKeys(v) {
				toVal := v[evName]
				maker, isCondition := transitionRegistry[evName]
				if !isCondition {
					toStr, ok := toVal.(string)
					if !ok {
						return nil, fmt.Errorf("fsm: invalid transition value for %s.%s", from, evName)
					}
					transitions[fromID][component.EventID(evName)] = component.StateID(toStr)
					continue
				}
				toState, arg := conditionTarget(toVal)
				if toState == "" {
					return nil, fmt.Errorf("fsm: missing to state for transition %s.%s", from, evName)
				}
				// Sensor events and checkers share names; the event mapping
				// covers both, the checker only adds same-tick evaluation.
				transitions[fromID][component.EventID(evName)] = component.StateID(toState)
				eid := component.EventID(fmt.Sprintf("__cond_%s_%s", from, evName))
				transitions[fromID][eid] = component.StateID(toState)
				checkers = append(checkers, TransitionCheckerDef{From: fromID, Event: eid, Check: maker(arg)})
			}
		case []any:
			for i, item := range v {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("fsm: invalid transition entry %v", item)
				}
				for _, key := range entryKeys(m) {
					val := m[key]
					maker, isCondition := transitionRegistry[key]
					if !isCondition {
						toState, ok := val.(string)
						if !ok {
							return nil, fmt.Errorf("fsm: invalid transition mapping for %s -> %v", key, val)
						}
						transitions[fromID][component.EventID(key)] = component.StateID(toState)
						continue
					}
					toState, arg := conditionTarget(val)
					if toState == "" {
						return nil, fmt.Errorf("fsm: missing to state for transition %s", key)
					}
					eid := component.EventID(fmt.Sprintf("__cond_%s_%d_%s", from, i, key))
					transitions[fromID][eid] = component.StateID(toState)
					checkers = append(checkers, TransitionCheckerDef{From: fromID, Event: eid, Check: maker(arg)})
				}
			}
		default:
			return nil, fmt.Errorf("fsm: invalid transitions type for state %s", from)
		}
	}

	for from, evs := range transitions {
		for ev, to := range evs {
			if _, ok := states[to]; !ok {
				return nil, fmt.Errorf("fsm: transition %s.%s targets unknown state %q", from, ev, to)
			}
		}
	}

	return &FSMDef{
		Initial:     component.StateID(raw.Initial),
		States:      states,
		Transitions: transitions,
		Checkers:    checkers,
	}, nil
}

func LoadFSMFromPrefab(path string) (*FSMDef, error) {
	raw, err := prefabs.LoadSpec[RawFSM](path)
	if err != nil {
		return nil, fmt.Errorf("fsm: %w", err)
	}
	return CompileFSM(raw)
}

// DefaultEnemyFSM is a melee walker: patrol until the player is seen, chase,
// strike in range, recover on a cooldown.
func DefaultEnemyFSM() *FSMDef {
	act := func(name string, arg any) Action { return actionRegistry[name](arg) }
	hit := map[component.EventID]component.StateID{
		"damaged": "hurt",
		"died":    "dead",
	}
	with := func(extra map[component.EventID]component.StateID) map[component.EventID]component.StateID {
		out := map[component.EventID]component.StateID{}
		for k, v := range hit {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	return &FSMDef{
		Initial: "patrol",
		States: map[component.StateID]StateDef{
			"patrol": {
				OnEnter: []Action{act("set_animation", "walk")},
				While:   []Action{act("patrol", nil)},
			},
			"chase": {
				OnEnter: []Action{act("set_animation", "run")},
				While: []Action{
					act("move_towards_player", nil),
					act("face_player", nil),
				},
			},
			"attack": {
				OnEnter: []Action{
					act("stop_x", nil),
					act("face_player", nil),
					act("melee_strike", "attack"),
					act("start_attack_timer", nil),
				},
				While: []Action{
					act("stop_x", nil),
					act("tick_timer", nil),
				},
			},
			"recover": {
				OnEnter: []Action{
					act("set_animation", "idle"),
					act("start_cooldown", 30),
				},
				While: []Action{act("stop_x", nil)},
			},
			"hurt": {
				OnEnter: []Action{
					act("set_animation", "hurt"),
					act("start_timer", 0.25),
				},
				While: []Action{act("tick_timer", nil)},
			},
			"dead": {
				OnEnter: []Action{
					act("stop_x", nil),
					act("set_animation", "death"),
				},
			},
		},
		Transitions: map[component.StateID]map[component.EventID]component.StateID{
			"patrol": with(map[component.EventID]component.StateID{"sees_player": "chase"}),
			"chase": with(map[component.EventID]component.StateID{
				"in_attack_range": "attack",
				"loses_player":    "patrol",
			}),
			"attack": {
				"timer_expired": "recover",
				"died":          "dead",
			},
			"recover": with(map[component.EventID]component.StateID{
				"cooldown_finished": "chase",
				"loses_player":      "patrol",
			}),
			"hurt": {
				"timer_expired": "chase",
				"died":          "dead",
			},
		},
	}
}

func CompileFSMSpec(spec component.AIFSMSpec) (*FSMDef, error) {
	raw := RawFSM{
		Initial:     spec.Initial,
		States:      map[string]RawState{},
		Transitions: map[string]any{},
	}
	for from, entries := range spec.Transitions {
		list := make([]any, 0, len(entries))
		for _, entry := range entries {
			list = append(list, entry)
		}
		raw.Transitions[from] = list
	}
	for name, s := range spec.States {
		raw.States[name] = RawState{
			OnEnter: s.OnEnter,
			While:   s.While,
			OnExit:  s.OnExit,
		}
	}
	return CompileFSM(raw)
}
