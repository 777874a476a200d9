package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/prefabs"
)

// loadAIScript is swapped in tests to feed inline sources.
var loadAIScript = prefabs.LoadScript

// A scripted brain replaces the YAML state graph. The script defines
// onEnter, update and onExit, each called as fn(engine, state, current):
// engine is the API table below, state is a map that lives as long as the
// entity, current is the state name. A global initial_state picks the
// starting state (default "idle").
//
// The engine table holds transition, consume_event, is_engaged and
// health_fraction, plus every FSM action and condition under its YAML name.
type scriptBrain struct {
	path    string
	prog    *tengo.Compiled
	memory  *tengo.Map
	initial component.StateID
	started bool
	next    component.StateID
}

const scriptHookDispatch = `
if __hook == "enter" {
	onEnter(__engine, __memory, __current)
} else if __hook == "update" {
	update(__engine, __memory, __current)
} else if __hook == "exit" {
	onExit(__engine, __memory, __current)
}
`

func loadScriptBrain(path string) (*scriptBrain, error) {
	src, err := loadAIScript(path)
	if err != nil {
		return nil, fmt.Errorf("ai: load script %s: %w", path, err)
	}

	script := tengo.NewScript(append(append([]byte{}, src...), "\n"+scriptHookDispatch...))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, name := range []string{"__hook", "__current"} {
		_ = script.Add(name, "")
	}
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__memory", map[string]any{})

	prog, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile script %s: %w", path, err)
	}

	b := &scriptBrain{
		path:    path,
		prog:    prog,
		memory:  &tengo.Map{Value: map[string]tengo.Object{}},
		initial: "idle",
	}
	// One run with no hook evaluates the top level so globals are readable.
	if err := b.call("", b.initial, nil); err != nil {
		return nil, fmt.Errorf("ai: run script %s: %w", path, err)
	}
	if v := prog.Get("initial_state"); !v.IsUndefined() {
		if name := strings.TrimSpace(v.String()); name != "" {
			b.initial = component.StateID(name)
		}
	}
	return b, nil
}

func (b *scriptBrain) call(hook string, current component.StateID, engine *tengo.ImmutableMap) error {
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	for name, v := range map[string]any{
		"__hook":    hook,
		"__engine":  engine,
		"__memory":  b.memory,
		"__current": string(current),
	} {
		if err := b.prog.Set(name, v); err != nil {
			return err
		}
	}
	return b.prog.Run()
}

// runScriptBrain runs enter on the first frame, then update, then at most
// one transition (exit old, enter new) requested during update.
func (s *AISystem) runScriptBrain(ctx *AIActionContext, spec *component.AIFSMSpec, events []component.EventID) {
	if ctx == nil || ctx.State == nil || spec == nil {
		return
	}
	b, err := s.brainFor(ctx.Entity, spec)
	if err != nil {
		s.log.Warn("scripted ai unavailable", "entity", ctx.Entity, "err", err)
		return
	}

	state := ctx.State
	if state.Current == "" {
		state.Current = b.initial
	}
	engine := scriptEngine(ctx, b, events)

	step := func(hook string) bool {
		if err := b.call(hook, state.Current, engine); err != nil {
			s.log.Warn("script hook failed", "entity", ctx.Entity, "hook", hook, "state", state.Current, "err", err)
			return false
		}
		return true
	}

	if !b.started {
		if !step("enter") {
			return
		}
		b.started = true
	}
	if !step("update") {
		return
	}

	next := b.next
	b.next = ""
	if next == "" || next == state.Current {
		return
	}
	if !step("exit") {
		return
	}
	state.Current = next
	step("enter")
}

func (s *AISystem) brainFor(e ecs.Entity, spec *component.AIFSMSpec) (*scriptBrain, error) {
	if !spec.ScriptLifecycle || strings.TrimSpace(spec.ScriptPath) == "" {
		return nil, fmt.Errorf("ai: spec has no script lifecycle")
	}
	if b, ok := s.scriptCache[e]; ok && b.path == spec.ScriptPath {
		return b, nil
	}
	b, err := loadScriptBrain(spec.ScriptPath)
	if err != nil {
		return nil, err
	}
	if s.scriptCache == nil {
		s.scriptCache = map[ecs.Entity]*scriptBrain{}
	}
	s.scriptCache[e] = b
	return b, nil
}

func scriptBool(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

type scriptFunc func(args []tengo.Object) tengo.Object

func bindScript(table map[string]tengo.Object, name string, fn scriptFunc) {
	table[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		return fn(args), nil
	}}
}

// firstArg converts the first script argument to plain Go values (int64,
// float64, string, bool, []any, map[string]any) for the action makers.
func firstArg(args []tengo.Object) any {
	if len(args) == 0 {
		return nil
	}
	return tengo.ToInterface(args[0])
}

func scriptEngine(ctx *AIActionContext, b *scriptBrain, events []component.EventID) *tengo.ImmutableMap {
	pending := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev != "" {
			pending[string(ev)] = true
		}
	}

	table := map[string]tengo.Object{}

	bindScript(table, "transition", func(args []tengo.Object) tengo.Object {
		name, _ := firstArg(args).(string)
		if name = strings.TrimSpace(name); name == "" {
			return tengo.FalseValue
		}
		b.next = component.StateID(name)
		return tengo.TrueValue
	})
	bindScript(table, "consume_event", func(args []tengo.Object) tengo.Object {
		name, _ := firstArg(args).(string)
		if !pending[name] {
			return tengo.FalseValue
		}
		delete(pending, name)
		return tengo.TrueValue
	})
	bindScript(table, "is_engaged", func([]tengo.Object) tengo.Object {
		return scriptBool(isEngaged(ctx.World, ctx.Entity))
	})
	bindScript(table, "health_fraction", func([]tengo.Object) tengo.Object {
		if h, ok := ecs.Get(ctx.World, ctx.Entity, component.HealthComponent.Kind()); ok {
			return &tengo.Float{Value: h.Fraction()}
		}
		return &tengo.Float{Value: 1}
	})

	for name, makeAction := range actionRegistry {
		bindScript(table, name, func(args []tengo.Object) tengo.Object {
			makeAction(firstArg(args))(ctx)
			return tengo.TrueValue
		})
	}
	for name, makeCheck := range transitionRegistry {
		bindScript(table, name, func(args []tengo.Object) tengo.Object {
			return scriptBool(makeCheck(firstArg(args))(ctx))
		})
	}

	return &tengo.ImmutableMap{Value: table}
}
