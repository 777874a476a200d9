package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type countingResetter struct{ n int }

func (r *countingResetter) ResetScene() { r.n++ }

type fakeLevels struct {
	spawns map[string][2]float64
	loaded []string
}

func (f *fakeLevels) load(t *testing.T) LevelLoader {
	return func(w *ecs.World, name string) error {
		f.loaded = append(f.loaded, name)
		pos, ok := f.spawns[name]
		if !ok {
			return errors.New("no such level")
		}
		player := spawnPlayer(t, w, pos[0], pos[1])
		add(t, w, player, component.PersistentComponent, &component.Persistent{ID: "player"})
		add(t, w, player, component.PlayerCombatComponent, &component.PlayerCombat{})
		spawnHUD(t, w)
		spawnEnemy(t, w, pos[0]+100, pos[1], component.AI{})
		return nil
	}
}

func newTestScene(t *testing.T, initial string) (*SceneSystem, *fakeLevels, *countingResetter) {
	levels := &fakeLevels{spawns: map[string][2]float64{
		"one": {10, 10},
		"two": {200, 50},
	}}
	r := &countingResetter{}
	return NewSceneSystem(initial, levels.load(t), nil, r), levels, r
}

func requestLevel(t *testing.T, w *ecs.World, target, reason string) {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.LevelChangeRequestComponent, &component.LevelChangeRequest{TargetLevel: target, Reason: reason})
}

func TestSceneLoadsOnFirstFrame(t *testing.T) {
	w := ecs.NewWorld()
	scene, levels, r := newTestScene(t, "one")

	scene.Update(w)
	require.NoError(t, scene.Err())
	assert.Equal(t, []string{"one"}, levels.loaded)
	assert.Equal(t, 1, scene.Loads())
	assert.Equal(t, 1, r.n)
	assert.Equal(t, []string{"scene_start"}, PendingGameEvents(w))

	scene.Update(w)
	assert.Equal(t, 1, scene.Loads(), "no request, no reload")
}

func TestSceneChangeKeepsPersistentPlayer(t *testing.T) {
	w := ecs.NewWorld()
	scene, _, r := newTestScene(t, "one")
	scene.Update(w)

	player, ok := playerEntity(w)
	require.True(t, ok)
	add(t, w, player, component.WalletComponent, &component.Wallet{Coins: 7})
	add(t, w, player, component.InvulnerableComponent, &component.Invulnerable{Frames: 10})
	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	h.Current = 1
	junk := ecs.CreateEntity(w)

	requestLevel(t, w, "two", "goal")
	scene.Update(w)
	require.NoError(t, scene.Err())
	assert.Equal(t, "two", scene.CurrentLevel())
	assert.Equal(t, 2, r.n)

	assert.Equal(t, 1, ecs.Count(w, component.PlayerTagComponent.Kind()), "fresh prefab is deduped")
	survivor, _ := playerEntity(w)
	assert.Equal(t, player, survivor)
	assert.False(t, ecs.IsAlive(w, junk))

	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	assert.Equal(t, 200.0, tr.X, "survivor takes the new spawn point")
	assert.Equal(t, 50.0, tr.Y)

	assert.Equal(t, 5, h.Current, "health refilled")
	assert.False(t, ecs.Has(w, player, component.InvulnerableComponent.Kind()))
	wallet, ok := ecs.Get(w, player, component.WalletComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 7, wallet.Coins, "wallet carries over")

	assert.Equal(t, 1, ecs.Count(w, component.HUDComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.EnemyTagComponent.Kind()))
	assert.Zero(t, ecs.Count(w, component.LevelChangeRequestComponent.Kind()))
}

func TestSceneRespawnReloadsCurrentLevel(t *testing.T) {
	w := ecs.NewWorld()
	scene, levels, _ := newTestScene(t, "one")
	scene.Update(w)

	requestLevel(t, w, "", "respawn")
	scene.Update(w)
	assert.Equal(t, []string{"one", "one"}, levels.loaded)
	assert.Equal(t, 2, scene.Loads())
}

func TestSceneLoadFailureStops(t *testing.T) {
	w := ecs.NewWorld()
	scene, levels, r := newTestScene(t, "one")
	scene.Update(w)

	requestLevel(t, w, "missing", "goal")
	scene.Update(w)
	require.Error(t, scene.Err())
	assert.ErrorContains(t, scene.Err(), `"missing"`)
	assert.Equal(t, 1, r.n)

	requestLevel(t, w, "two", "goal")
	scene.Update(w)
	assert.Equal(t, []string{"one", "missing"}, levels.loaded, "a failed scene stays failed")
}
