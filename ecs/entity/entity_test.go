package entity

import (
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/levels"
	"github.com/milk9111/hollowreach/prefabs"
)

func TestMain(m *testing.M) {
	ClipLoader = nil
	os.Exit(m.Run())
}

// entityPrefabs lists the embedded prefabs that describe entities, skipping
// FSM specs and the achievement table.
func entityPrefabs(t *testing.T) []string {
	t.Helper()
	entries, err := fs.ReadDir(prefabs.PrefabsFS, ".")
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") || strings.HasPrefix(name, "fsm_") || name == "achievements.yaml" {
			continue
		}
		out = append(out, name)
	}
	require.NotEmpty(t, out)
	return out
}

func TestBuildEveryPrefab(t *testing.T) {
	for _, name := range entityPrefabs(t) {
		t.Run(name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := BuildEntity(w, name)
			require.NoError(t, err)
			assert.True(t, ecs.IsAlive(w, e))
		})
	}
}

func TestBuildPlayerPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "player.yaml")
	require.NoError(t, err)

	combat, ok := ecs.Get(w, e, component.PlayerCombatComponent.Kind())
	require.True(t, ok)
	assert.True(t, combat.CanMove)
	assert.True(t, combat.CanAttack)
	assert.True(t, combat.CanJump)

	p, ok := ecs.Get(w, e, component.PersistentComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", p.ID)

	hitboxes, ok := ecs.Get(w, e, component.HitboxComponent.Kind())
	require.True(t, ok)
	anims := map[string]bool{}
	for _, hb := range *hitboxes {
		anims[hb.Anim] = true
	}
	for _, want := range []string{"attack1", "attack2", "attack3", "air_attack"} {
		assert.True(t, anims[want], "hitbox for %s", want)
	}

	f, ok := ecs.Get(w, e, component.FactionComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.TeamPlayer, f.Team)
}

func TestBuildScriptedEnemies(t *testing.T) {
	w := ecs.NewWorld()

	archer, err := BuildEntity(w, "archer.yaml")
	require.NoError(t, err)
	cfg, ok := ecs.Get(w, archer, component.AIConfigComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, cfg.Spec)
	assert.True(t, cfg.Spec.ScriptLifecycle, "archer script has no fsm global")

	boss, err := BuildEntity(w, "boss.yaml")
	require.NoError(t, err)
	cfg, ok = ecs.Get(w, boss, component.AIConfigComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, cfg.Spec)
	assert.False(t, cfg.Spec.ScriptLifecycle)
	assert.NotEmpty(t, cfg.Spec.Initial)
	assert.NotEmpty(t, cfg.Spec.States)

	b, ok := ecs.Get(w, boss, component.BossComponent.Kind())
	require.True(t, ok)
	require.Len(t, b.Phases, 3)
	for i := 1; i < len(b.Phases); i++ {
		assert.Less(t, b.Phases[i].HPTrigger, b.Phases[i-1].HPTrigger, "phases are ordered by falling trigger")
	}
}

func TestBuildEntityFromSpecErrors(t *testing.T) {
	w := ecs.NewWorld()

	_, err := BuildEntityFromSpec(w, prefabs.EntityBuildSpec{Name: "empty"}, "empty.yaml")
	assert.ErrorContains(t, err, "does not define components")

	before := ecs.EntityCount(w)
	_, err = BuildEntityFromSpec(w, prefabs.EntityBuildSpec{Components: map[string]any{
		"transform": map[string]any{"x": 1},
		"wobble":    map[string]any{},
	}}, "bad.yaml")
	assert.ErrorContains(t, err, "no builder for component")
	assert.Equal(t, before, ecs.EntityCount(w), "half-built entity is destroyed")
}

func TestWorldBuilderValidation(t *testing.T) {
	cases := []struct {
		name       string
		components map[string]any
		wantErr    string
	}{
		{"unknown pickup", map[string]any{"pickup": map[string]any{"kind": "gem"}}, "unknown pickup kind"},
		{"arrow trap without interval", map[string]any{"arrow_trap": map[string]any{"speed": 4}}, "interval_frames"},
		{"negative trap cycle", map[string]any{"trap_cycle": map[string]any{"on_frames": -1}}, "negative"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildEntityFromSpec(w, prefabs.EntityBuildSpec{Components: c.components}, c.name)
			assert.ErrorContains(t, err, c.wantErr)
		})
	}
}

func TestWorldBuilderDefaults(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntityFromSpec(w, prefabs.EntityBuildSpec{Components: map[string]any{
		"pickup":     map[string]any{"kind": "coin"},
		"goal":       map[string]any{"next_level": "next"},
		"arrow_trap": map[string]any{"interval_frames": 60, "offset": 130},
	}}, "defaults")
	require.NoError(t, err)

	pickup, _ := ecs.Get(w, e, component.PickupComponent.Kind())
	assert.Equal(t, 1, pickup.Amount)

	goal, _ := ecs.Get(w, e, component.GoalComponent.Kind())
	assert.Equal(t, common.TileSize, goal.Bounds.W)
	assert.Equal(t, common.TileSize*2, goal.Bounds.H)

	trap, _ := ecs.Get(w, e, component.ArrowTrapComponent.Kind())
	assert.Equal(t, 10, trap.Timer, "offset wraps into the interval")
}

func TestApplyProps(t *testing.T) {
	spec := prefabs.EntityBuildSpec{Components: map[string]any{
		"gate": map[string]any{"group": "arena", "open": true},
	}}

	require.NoError(t, applyProps(&spec, map[string]any{
		"gate": map[string]any{"open": false, "needs_key": true},
	}))
	gate := spec.Components["gate"].(map[string]any)
	assert.Equal(t, "arena", gate["group"], "unset fields keep the prefab value")
	assert.Equal(t, false, gate["open"])
	assert.Equal(t, true, gate["needs_key"])

	assert.ErrorContains(t, applyProps(&spec, map[string]any{"colour": map[string]any{}}), "not a component")
	assert.ErrorContains(t, applyProps(&spec, map[string]any{"gate": "open"}), "must be an object")
	assert.NoError(t, applyProps(&spec, nil))
}

func TestPrefabFor(t *testing.T) {
	assert.Equal(t, "walker.yaml", PrefabFor("Walker"))
	assert.Equal(t, "spike_trap.yaml", PrefabFor(" spike_trap "))
	assert.Equal(t, "boss.yaml", PrefabFor("boss.yaml"))
}

func TestLoadLevelToWorld(t *testing.T) {
	// The floor merges into a single 4x2 box; the floating ledge stays
	// separate.
	lvl := &levels.Level{
		Name:   "test",
		Width:  4,
		Height: 5,
		Layers: [][]int{
			{
				0, 0, 0, 0,
				0, 2, 0, 0,
				0, 0, 0, 0,
				1, 1, 1, 1,
				1, 1, 1, 1,
			},
		},
		LayerMeta: []levels.LayerMeta{{Physics: true, Colors: map[string]string{"2": "#ff0000"}}},
		Entities: []levels.Entity{
			{Type: "coin", X: 64, Y: 32},
			{Type: "gate", X: 96, Y: 0, Props: map[string]any{"gate": map[string]any{"group": "g1"}}},
		},
	}

	w := ecs.NewWorld()
	require.NoError(t, LoadLevelToWorld(w, lvl))

	assert.Equal(t, 9, ecs.Count(w, component.StaticTileComponent.Kind()))

	boundsEnt, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	require.True(t, ok)
	bounds, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())
	assert.Equal(t, 4*common.TileSize, bounds.Width)
	assert.Equal(t, 5*common.TileSize, bounds.Height)
	assert.Equal(t, common.TileSize*2, bounds.KillMargin)

	var boxes []component.PhysicsBody
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, b *component.PhysicsBody) {
		if b.Static && !ecs.Has(w, e, component.GateComponent.Kind()) {
			boxes = append(boxes, *b)
		}
	})
	require.Len(t, boxes, 2)
	sizes := map[[2]float64]bool{}
	for _, b := range boxes {
		sizes[[2]float64{b.Width, b.Height}] = true
	}
	assert.True(t, sizes[[2]float64{4 * common.TileSize, 2 * common.TileSize}])
	assert.True(t, sizes[[2]float64{common.TileSize, common.TileSize}])

	coinEnt, ok := ecs.First(w, component.PickupComponent.Kind())
	require.True(t, ok)
	ct, _ := ecs.Get(w, coinEnt, component.TransformComponent.Kind())
	assert.Equal(t, 64.0, ct.X)
	assert.Equal(t, 32.0, ct.Y)

	gateEnt, ok := ecs.First(w, component.GateComponent.Kind())
	require.True(t, ok)
	gate, _ := ecs.Get(w, gateEnt, component.GateComponent.Kind())
	assert.Equal(t, "g1", gate.Group)
}

func TestLoadLevelToWorldErrors(t *testing.T) {
	w := ecs.NewWorld()
	assert.Error(t, LoadLevelToWorld(w, nil))

	lvl := &levels.Level{
		Width:     1,
		Height:    1,
		Layers:    [][]int{{1}},
		LayerMeta: []levels.LayerMeta{{Colors: map[string]string{"one": "#ffffff"}}},
	}
	assert.ErrorContains(t, LoadLevelToWorld(w, lvl), "tile id")

	lvl = &levels.Level{Width: 1, Height: 1, Entities: []levels.Entity{{Type: "nothing_here"}}}
	assert.ErrorContains(t, LoadLevelToWorld(ecs.NewWorld(), lvl), "nothing_here")
}

func TestLoadEmbeddedLevels(t *testing.T) {
	names, err := levels.Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			w := ecs.NewWorld()
			require.NoError(t, LoadLevel(w, name))
			assert.Equal(t, 1, ecs.Count(w, component.PlayerTagComponent.Kind()))
			assert.Equal(t, 1, ecs.Count(w, component.LevelBoundsComponent.Kind()))
			assert.GreaterOrEqual(t, ecs.Count(w, component.GoalComponent.Kind()), 1)
		})
	}
}
