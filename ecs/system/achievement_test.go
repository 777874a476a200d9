package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/achievement"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

func testTracker(t *testing.T) *achievement.Tracker {
	t.Helper()
	tr := achievement.NewTracker()
	for _, def := range []achievement.Definition{
		{Title: "First Blood", Description: "Defeat an enemy", Kind: achievement.KindTrigger},
		{Title: "Collector", Description: "Grab two coins in one level", Kind: achievement.KindCounter, Target: 2, PerScene: true},
		{Title: "Survivor", Description: "Stay alive", Kind: achievement.KindTimer, Limit: 0.04, Mode: achievement.TimerEndure},
	} {
		require.NoError(t, tr.Register(def))
	}
	for _, b := range []achievement.Binding{
		{Event: "enemy_killed", Title: "First Blood", Action: achievement.ActionTrigger},
		{Event: "pickup:coin", Title: "Collector", Action: achievement.ActionIncrement, Amount: 1},
		{Event: "scene_start", Title: "Survivor", Action: achievement.ActionStart},
		{Event: "player_died", Title: "Survivor", Action: achievement.ActionCancel},
	} {
		require.NoError(t, tr.Bind(b))
	}
	return tr
}

func spawnHUD(t *testing.T, w *ecs.World) *component.HUD {
	t.Helper()
	e := ecs.CreateEntity(w)
	return add(t, w, e, component.HUDComponent, &component.HUD{})
}

func TestAchievementSystemUnlocksAndToasts(t *testing.T) {
	w := ecs.NewWorld()
	hud := spawnHUD(t, w)
	tr := testTracker(t)
	store := achievement.NewMemoryStore()
	sys := NewAchievementSystem(tr, store)

	EmitGameEvent(w, "enemy_damaged")
	EmitGameEvent(w, "enemy_killed")
	sys.Update(w)

	assert.Empty(t, PendingGameEvents(w), "events are consumed")
	st, err := tr.Status("First Blood")
	require.NoError(t, err)
	assert.True(t, st.Unlocked)

	saved, err := store.LoadUnlocked()
	require.NoError(t, err)
	assert.Contains(t, saved, "First Blood")

	require.Len(t, hud.Toasts, 1)
	assert.Equal(t, component.Toast{Title: "First Blood", Text: "Defeat an enemy"}, hud.Toasts[0])

	EmitGameEvent(w, "enemy_killed")
	sys.Update(w)
	assert.Len(t, hud.Toasts, 1, "unlocks fire once")
}

func TestAchievementSystemTicksTimers(t *testing.T) {
	w := ecs.NewWorld()
	hud := spawnHUD(t, w)
	tr := testTracker(t)
	sys := NewAchievementSystem(tr, nil)

	EmitGameEvent(w, "scene_start")
	updateN(w, 2, sys)
	st, _ := tr.Status("Survivor")
	assert.True(t, st.Running)
	assert.Empty(t, hud.Toasts)

	sys.Update(w)
	st, _ = tr.Status("Survivor")
	assert.True(t, st.Unlocked)
	require.Len(t, hud.Toasts, 1)
	assert.Equal(t, "Survivor", hud.Toasts[0].Title)
}

func TestAchievementSystemResetScene(t *testing.T) {
	w := ecs.NewWorld()
	tr := testTracker(t)
	sys := NewAchievementSystem(tr, nil)

	EmitGameEvent(w, "pickup:coin")
	EmitGameEvent(w, "scene_start")
	sys.Update(w)
	st, _ := tr.Status("Collector")
	require.Equal(t, 1, st.Count)

	sys.ResetScene()
	st, _ = tr.Status("Collector")
	assert.Zero(t, st.Count)
	st, _ = tr.Status("Survivor")
	assert.False(t, st.Running)
	assert.Zero(t, st.Elapsed)
}

func TestAchievementSystemWithoutHUDDropsToasts(t *testing.T) {
	w := ecs.NewWorld()
	tr := testTracker(t)
	sys := NewAchievementSystem(tr, nil)

	EmitGameEvent(w, "enemy_killed")
	sys.Update(w)

	hud := spawnHUD(t, w)
	sys.Update(w)
	assert.Empty(t, hud.Toasts)
}
