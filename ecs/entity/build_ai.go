package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/prefabs"
)

func addAI(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AIComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode AI spec: %w", err)
	}
	return ecs.Add(w, e, component.AIComponent.Kind(), &component.AI{
		MoveSpeed:    spec.MoveSpeed,
		PatrolSpeed:  spec.PatrolSpeed,
		PatrolRadius: spec.PatrolRadius,
		FollowRange:  spec.FollowRange,
		AttackRange:  spec.AttackRange,
		AttackFrames: spec.AttackFrames,
	})
}

func addEngagement(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.EngagementComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode engagement spec: %w", err)
	}
	return ecs.Add(w, e, component.EngagementComponent.Kind(), &component.Engagement{
		LeashFactor:     spec.LeashFactor,
		DisengageFrames: spec.DisengageFrames,
	})
}

var errNoDeclarativeScriptFSM = errors.New("no declarative script fsm")

func addAIConfig(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AIConfigComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode AI config spec: %w", err)
	}

	var outSpec *component.AIFSMSpec
	switch {
	case spec.Script != "":
		parsed, err := loadAIFSMSpecFromScript(spec.Script)
		switch {
		case errors.Is(err, errNoDeclarativeScriptFSM):
			// No fsm globals: the script drives the entity through its
			// onEnter/update/onExit lifecycle instead.
			outSpec = &component.AIFSMSpec{ScriptPath: spec.Script, ScriptLifecycle: true}
		case err != nil:
			return fmt.Errorf("load AI FSM script %q: %w", spec.Script, err)
		default:
			outSpec = parsed
		}
	case spec.Spec != nil:
		states := make(map[string]component.AIFSMStateSpec, len(spec.Spec.States))
		for name, st := range spec.Spec.States {
			states[name] = component.AIFSMStateSpec{OnEnter: st.OnEnter, While: st.While, OnExit: st.OnExit}
		}
		outSpec = &component.AIFSMSpec{
			Initial:     spec.Spec.Initial,
			States:      states,
			Transitions: spec.Spec.Transitions,
		}
	}

	return ecs.Add(w, e, component.AIConfigComponent.Kind(), &component.AIConfig{FSM: spec.FSM, Spec: outSpec})
}

func loadAIFSMSpecFromScript(scriptName string) (*component.AIFSMSpec, error) {
	scriptBytes, err := prefabs.LoadScript(scriptName)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(scriptBytes)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Run()
	if err != nil {
		return nil, err
	}

	raw, err := extractScriptFSMRaw(compiled)
	if err != nil {
		return nil, err
	}

	return decodeAIFSMSpec(raw)
}

func extractScriptFSMRaw(compiled *tengo.Compiled) (map[string]any, error) {
	if compiled == nil {
		return nil, fmt.Errorf("script compile returned nil program")
	}

	if fsm := compiled.Get("fsm"); fsm != nil && !fsm.IsUndefined() {
		m, ok := toStringAnyMap(fsm.Value())
		if !ok {
			return nil, fmt.Errorf("script global 'fsm' must be a map")
		}
		return m, nil
	}

	initial := compiled.Get("initial")
	states := compiled.Get("states")
	transitions := compiled.Get("transitions")
	if initial == nil || states == nil || transitions == nil || initial.IsUndefined() || states.IsUndefined() || transitions.IsUndefined() {
		return nil, errNoDeclarativeScriptFSM
	}

	return map[string]any{
		"initial":     initial.Value(),
		"states":      states.Value(),
		"transitions": transitions.Value(),
	}, nil
}

func decodeAIFSMSpec(raw map[string]any) (*component.AIFSMSpec, error) {
	initial, _ := raw["initial"].(string)
	if strings.TrimSpace(initial) == "" {
		return nil, fmt.Errorf("missing 'initial' state")
	}

	statesRaw, ok := toStringAnyMap(raw["states"])
	if !ok {
		return nil, fmt.Errorf("'states' must be a map")
	}

	transitionsRaw, ok := toStringAnyMap(raw["transitions"])
	if !ok {
		return nil, fmt.Errorf("'transitions' must be a map")
	}

	states := make(map[string]component.AIFSMStateSpec, len(statesRaw))
	for name, stateAny := range statesRaw {
		stateMap, ok := toStringAnyMap(stateAny)
		if !ok {
			return nil, fmt.Errorf("state %q must be a map", name)
		}

		onEnter, err := toActionList(stateMap["on_enter"])
		if err != nil {
			return nil, fmt.Errorf("state %q on_enter: %w", name, err)
		}
		whileActions, err := toActionList(stateMap["while"])
		if err != nil {
			return nil, fmt.Errorf("state %q while: %w", name, err)
		}
		onExit, err := toActionList(stateMap["on_exit"])
		if err != nil {
			return nil, fmt.Errorf("state %q on_exit: %w", name, err)
		}

		states[name] = component.AIFSMStateSpec{
			OnEnter: onEnter,
			While:   whileActions,
			OnExit:  onExit,
		}
	}

	transitions := make(map[string][]map[string]any, len(transitionsRaw))
	for from, listAny := range transitionsRaw {
		entries, err := toTransitionList(listAny)
		if err != nil {
			return nil, fmt.Errorf("transitions.%s: %w", from, err)
		}
		transitions[from] = entries
	}

	return &component.AIFSMSpec{
		Initial:     initial,
		States:      states,
		Transitions: transitions,
	}, nil
}

func toActionList(v any) ([]map[string]any, error) {
	if v == nil {
		return nil, nil
	}

	items, ok := toAnySlice(v)
	if !ok {
		return nil, fmt.Errorf("must be an array")
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := toStringAnyMap(item)
		if !ok {
			return nil, fmt.Errorf("entry %v must be a map", item)
		}
		out = append(out, m)
	}

	return out, nil
}

func toTransitionList(v any) ([]map[string]any, error) {
	if v == nil {
		return nil, nil
	}

	if m, ok := toStringAnyMap(v); ok {
		out := make([]map[string]any, 0, len(m))
		for k, val := range m {
			out = append(out, map[string]any{k: val})
		}
		return out, nil
	}

	items, ok := toAnySlice(v)
	if !ok {
		return nil, fmt.Errorf("must be an array or a map")
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := toStringAnyMap(item)
		if !ok {
			return nil, fmt.Errorf("entry %v must be a map", item)
		}
		out = append(out, m)
	}

	return out, nil
}

func toStringAnyMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

func toAnySlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	default:
		return nil, false
	}
}

func addTeleporter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TeleporterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode teleporter spec: %w", err)
	}
	mode := component.TeleportMode(strings.ToLower(spec.Mode))
	switch mode {
	case "":
		mode = component.TeleportFarthest
	case component.TeleportFarthest, component.TeleportRandom, component.TeleportBehindPlayer:
	default:
		return fmt.Errorf("unknown teleport mode %q", spec.Mode)
	}
	anchors := make([]component.Point, 0, len(spec.Anchors))
	for _, a := range spec.Anchors {
		anchors = append(anchors, component.Point{X: a.X, Y: a.Y})
	}
	return ecs.Add(w, e, component.TeleporterComponent.Kind(), &component.Teleporter{
		Anchors:        anchors,
		Mode:           mode,
		CooldownFrames: spec.CooldownFrames,
		PanicDistance:  spec.PanicDistance,
		BlinkFrames:    spec.BlinkFrames,
		BehindOffset:   spec.BehindOffset,
		Seed:           uint32(e) | 1,
	})
}

func addBoss(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BossComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode boss spec: %w", err)
	}
	if len(spec.Phases) == 0 {
		return fmt.Errorf("boss needs at least one phase")
	}

	phases := make([]component.BossPhase, 0, len(spec.Phases))
	for i, p := range spec.Phases {
		if i > 0 && p.HPTrigger > spec.Phases[i-1].HPTrigger {
			return fmt.Errorf("phase %q: hp_trigger %.2f above previous phase", p.Name, p.HPTrigger)
		}
		patterns := make([]component.BossAttackPattern, 0, len(p.Patterns))
		for _, pat := range p.Patterns {
			patterns = append(patterns, component.BossAttackPattern{
				Name:           pat.Name,
				CooldownFrames: pat.CooldownFrames,
				Actions:        pat.Actions,
			})
		}
		trigger := p.HPTrigger
		if i == 0 && trigger == 0 {
			trigger = 1
		}
		phases = append(phases, component.BossPhase{
			Name:        p.Name,
			HPTrigger:   trigger,
			PatternMode: p.PatternMode,
			OnEnter:     p.OnEnter,
			Patterns:    patterns,
		})
	}

	if err := ecs.Add(w, e, component.BossComponent.Kind(), &component.Boss{
		DisplayName: spec.DisplayName,
		MusicTrack:  spec.MusicTrack,
		EngageRange: spec.EngageRange,
		ArenaGroup:  spec.ArenaGroup,
		Phases:      phases,
	}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.BossRuntimeComponent.Kind(), &component.BossRuntime{})
}

func addPathfinding(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PathfindingComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pathfinding spec: %w", err)
	}
	return ecs.Add(w, e, component.PathfindingComponent.Kind(), &component.Pathfinding{
		GridSize:     spec.GridSize,
		RepathFrames: spec.RepathFrames,
	})
}

func addRepulsionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RepulsionLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode repulsion layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RepulsionLayerComponent.Kind(), &component.RepulsionLayer{
		Category: spec.Category,
		Mask:     spec.Mask,
		Radius:   spec.Radius,
		Strength: spec.Strength,
	})
}
