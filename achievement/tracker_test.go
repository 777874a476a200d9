package achievement

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, defs ...Definition) *Tracker {
	t.Helper()
	tr := NewTracker()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tr.now = func() time.Time { return fixed }
	for _, d := range defs {
		require.NoError(t, tr.Register(d))
	}
	return tr
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		err  error
	}{
		{"empty_title", Definition{Kind: KindTrigger}, ErrInvalid},
		{"counter_without_target", Definition{Title: "c", Kind: KindCounter}, ErrInvalid},
		{"timer_without_limit", Definition{Title: "t", Kind: KindTimer, Mode: TimerBeat}, ErrInvalid},
		{"timer_bad_mode", Definition{Title: "t", Kind: KindTimer, Limit: 3, Mode: "sprint"}, ErrInvalid},
		{"unknown_kind", Definition{Title: "x", Kind: "combo"}, ErrInvalid},
		{"ok_trigger", Definition{Title: "ok", Kind: KindTrigger}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewTracker().Register(tc.def)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}

	tr := newTestTracker(t, Definition{Title: "dup", Kind: KindTrigger})
	assert.ErrorIs(t, tr.Register(Definition{Title: "dup", Kind: KindTrigger}), ErrDuplicate)
}

func TestTriggerUnlocksOnce(t *testing.T) {
	tr := newTestTracker(t, Definition{Title: "First Blood", Kind: KindTrigger})
	var fired []string
	tr.OnUnlock(func(s Status) { fired = append(fired, s.Title) })

	require.NoError(t, tr.Trigger("First Blood"))
	require.NoError(t, tr.Trigger("First Blood"))

	assert.Equal(t, []string{"First Blood"}, fired)
	st, err := tr.Status("First Blood")
	require.NoError(t, err)
	assert.True(t, st.Unlocked)
	assert.Equal(t, 2026, st.UnlockedAt.Year())
	assert.Equal(t, 1, tr.UnlockedCount())
}

func TestWrongKindAndUnknown(t *testing.T) {
	tr := newTestTracker(t,
		Definition{Title: "trig", Kind: KindTrigger},
		Definition{Title: "count", Kind: KindCounter, Target: 2},
	)
	assert.ErrorIs(t, tr.Trigger("count"), ErrKindMismatch)
	assert.ErrorIs(t, tr.Increment("trig", 1), ErrKindMismatch)
	assert.ErrorIs(t, tr.StartTimer("trig"), ErrKindMismatch)
	assert.ErrorIs(t, tr.Trigger("missing"), ErrUnknown)
	assert.ErrorIs(t, tr.Increment("count", 0), ErrInvalid)
	_, err := tr.Status("missing")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestCounterClampsAtTarget(t *testing.T) {
	tr := newTestTracker(t, Definition{Title: "Exterminator", Kind: KindCounter, Target: 3})
	unlocks := 0
	tr.OnUnlock(func(Status) { unlocks++ })

	require.NoError(t, tr.Increment("Exterminator", 2))
	st, _ := tr.Status("Exterminator")
	assert.False(t, st.Unlocked)
	assert.InDelta(t, 2.0/3.0, st.Progress(), 1e-9)

	require.NoError(t, tr.Increment("Exterminator", 5))
	require.NoError(t, tr.Increment("Exterminator", 1))
	st, _ = tr.Status("Exterminator")
	assert.True(t, st.Unlocked)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 1, unlocks)
}

func TestBeatTimer(t *testing.T) {
	def := Definition{Title: "Speedrunner", Kind: KindTimer, Limit: 2, Mode: TimerBeat}

	t.Run("stopped_in_time", func(t *testing.T) {
		tr := newTestTracker(t, def)
		require.NoError(t, tr.StartTimer("Speedrunner"))
		tr.Tick(1.5)
		require.NoError(t, tr.StopTimer("Speedrunner"))
		st, _ := tr.Status("Speedrunner")
		assert.True(t, st.Unlocked)
		assert.False(t, st.Running)
	})

	t.Run("too_slow", func(t *testing.T) {
		tr := newTestTracker(t, def)
		require.NoError(t, tr.StartTimer("Speedrunner"))
		tr.Tick(1.5)
		tr.Tick(1.0)
		st, _ := tr.Status("Speedrunner")
		assert.True(t, st.Failed)
		assert.False(t, st.Running)

		require.NoError(t, tr.StopTimer("Speedrunner"))
		st, _ = tr.Status("Speedrunner")
		assert.False(t, st.Unlocked)
	})

	t.Run("restart_clears_failure", func(t *testing.T) {
		tr := newTestTracker(t, def)
		require.NoError(t, tr.StartTimer("Speedrunner"))
		tr.Tick(3)
		require.NoError(t, tr.StartTimer("Speedrunner"))
		st, _ := tr.Status("Speedrunner")
		assert.False(t, st.Failed)
		assert.True(t, st.Running)
		assert.Zero(t, st.Elapsed)
	})
}

func TestEndureTimer(t *testing.T) {
	tr := newTestTracker(t, Definition{Title: "Untouchable", Kind: KindTimer, Limit: 1, Mode: TimerEndure})

	require.NoError(t, tr.StartTimer("Untouchable"))
	tr.Tick(0.5)
	require.NoError(t, tr.StopTimer("Untouchable"))
	st, _ := tr.Status("Untouchable")
	assert.False(t, st.Unlocked)
	assert.Zero(t, st.Elapsed)

	require.NoError(t, tr.StartTimer("Untouchable"))
	tr.Tick(0.6)
	require.NoError(t, tr.CancelTimer("Untouchable"))
	tr.Tick(1)
	st, _ = tr.Status("Untouchable")
	assert.False(t, st.Unlocked)

	require.NoError(t, tr.StartTimer("Untouchable"))
	for i := 0; i < 60; i++ {
		tr.Tick(1.0 / 60.0)
	}
	st, _ = tr.Status("Untouchable")
	assert.True(t, st.Unlocked)
}

func TestTimersLandOnTheLimitFrame(t *testing.T) {
	const dt = 1.0 / 60.0
	for _, limit := range []float64{0.5, 45, 60, 90} {
		frames := int(limit * 60)
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			tr := newTestTracker(t,
				Definition{Title: "endure", Kind: KindTimer, Limit: limit, Mode: TimerEndure},
				Definition{Title: "beat", Kind: KindTimer, Limit: limit, Mode: TimerBeat},
				Definition{Title: "late", Kind: KindTimer, Limit: limit, Mode: TimerBeat},
			)
			for _, title := range []string{"endure", "beat", "late"} {
				require.NoError(t, tr.StartTimer(title))
			}

			for i := 0; i < frames-1; i++ {
				tr.Tick(dt)
			}
			st, _ := tr.Status("endure")
			require.False(t, st.Unlocked, "one frame short")

			tr.Tick(dt)
			st, _ = tr.Status("endure")
			assert.True(t, st.Unlocked, "unlocks on frame %d", frames)

			require.NoError(t, tr.StopTimer("beat"))
			st, _ = tr.Status("beat")
			assert.True(t, st.Unlocked, "stopped on the limit frame")

			tr.Tick(dt)
			st, _ = tr.Status("late")
			assert.True(t, st.Failed, "one frame over")
			require.NoError(t, tr.StopTimer("late"))
			st, _ = tr.Status("late")
			assert.False(t, st.Unlocked)
		})
	}
}

func TestDispatchBindings(t *testing.T) {
	tr := newTestTracker(t,
		Definition{Title: "First Blood", Kind: KindTrigger},
		Definition{Title: "Exterminator", Kind: KindCounter, Target: 2},
		Definition{Title: "Speedrunner", Kind: KindTimer, Limit: 10, Mode: TimerBeat},
	)
	require.NoError(t, tr.Bind(Binding{Event: "enemy_killed", Title: "First Blood", Action: ActionTrigger}))
	require.NoError(t, tr.Bind(Binding{Event: "enemy_killed", Title: "Exterminator", Action: ActionIncrement}))
	require.NoError(t, tr.Bind(Binding{Event: "scene_start", Title: "Speedrunner", Action: ActionStart}))
	require.NoError(t, tr.Bind(Binding{Event: "level_complete", Title: "Speedrunner", Action: ActionStop}))

	assert.ErrorIs(t, tr.Bind(Binding{Event: "x", Title: "First Blood", Action: ActionIncrement}), ErrKindMismatch)
	assert.ErrorIs(t, tr.Bind(Binding{Event: "x", Title: "nope", Action: ActionTrigger}), ErrUnknown)
	assert.ErrorIs(t, tr.Bind(Binding{Title: "First Blood", Action: ActionTrigger}), ErrInvalid)

	require.NoError(t, tr.Dispatch("scene_start"))
	require.NoError(t, tr.Dispatch("enemy_killed"))
	require.NoError(t, tr.Dispatch("enemy_killed"))
	tr.Tick(4)
	require.NoError(t, tr.Dispatch("level_complete"))
	require.NoError(t, tr.Dispatch("nothing_bound"))

	assert.Equal(t, 3, tr.UnlockedCount())
}

func TestResetSceneKeepsUnlocks(t *testing.T) {
	tr := newTestTracker(t,
		Definition{Title: "Collector", Kind: KindCounter, Target: 5, PerScene: true},
		Definition{Title: "Lifetime", Kind: KindCounter, Target: 5},
		Definition{Title: "Speedrunner", Kind: KindTimer, Limit: 10, Mode: TimerBeat},
		Definition{Title: "Done", Kind: KindCounter, Target: 1, PerScene: true},
	)
	require.NoError(t, tr.Increment("Collector", 3))
	require.NoError(t, tr.Increment("Lifetime", 3))
	require.NoError(t, tr.Increment("Done", 1))
	require.NoError(t, tr.StartTimer("Speedrunner"))
	tr.Tick(2)

	tr.ResetScene()

	c, _ := tr.Status("Collector")
	l, _ := tr.Status("Lifetime")
	s, _ := tr.Status("Speedrunner")
	d, _ := tr.Status("Done")
	assert.Zero(t, c.Count)
	assert.Equal(t, 3, l.Count)
	assert.False(t, s.Running)
	assert.Zero(t, s.Elapsed)
	assert.True(t, d.Unlocked)
	assert.Equal(t, 1, d.Count)
}

func TestRestoreIsSilent(t *testing.T) {
	tr := newTestTracker(t,
		Definition{Title: "First Blood", Kind: KindTrigger},
		Definition{Title: "Exterminator", Kind: KindCounter, Target: 10},
	)
	fired := 0
	tr.OnUnlock(func(Status) { fired++ })

	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	skipped := tr.Restore(map[string]time.Time{"First Blood": at, "Exterminator": at, "Removed": at})

	assert.Equal(t, 1, skipped)
	assert.Zero(t, fired)
	st, _ := tr.Status("Exterminator")
	assert.True(t, st.Unlocked)
	assert.Equal(t, 10, st.Count)
	assert.Equal(t, at, st.UnlockedAt)

	require.NoError(t, tr.Increment("Exterminator", 1))
	assert.Zero(t, fired)
}

func TestAllKeepsRegistrationOrder(t *testing.T) {
	tr := newTestTracker(t,
		Definition{Title: "b", Kind: KindTrigger},
		Definition{Title: "a", Kind: KindTrigger},
		Definition{Title: "c", Kind: KindTrigger},
	)
	var titles []string
	for _, s := range tr.All() {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"b", "a", "c"}, titles)
	assert.Equal(t, 3, tr.Len())
}

func TestLoadFromYAML(t *testing.T) {
	src := []byte(`
achievements:
  - title: First Blood
    description: Defeat an enemy.
    kind: trigger
    on: [enemy_killed]
  - title: Treasure Hunter
    kind: counter
    target: 2
    on: ["pickup:coin"]
  - title: Speedrunner
    kind: timer
    mode: beat
    limit: 90
    start_on: [scene_start]
    stop_on: [level_complete]
    cancel_on: [player_died]
`)
	f, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, f.Achievements, 3)

	tr := newTestTracker(t)
	require.NoError(t, tr.Load(f))

	require.NoError(t, tr.Dispatch("pickup:coin"))
	require.NoError(t, tr.Dispatch("pickup:coin"))
	st, err := tr.Status("Treasure Hunter")
	require.NoError(t, err)
	assert.True(t, st.Unlocked)

	require.NoError(t, tr.Dispatch("scene_start"))
	require.NoError(t, tr.Dispatch("player_died"))
	require.NoError(t, tr.Dispatch("level_complete"))
	st, _ = tr.Status("Speedrunner")
	assert.False(t, st.Unlocked)

	fd, _ := tr.Status("First Blood")
	assert.Equal(t, "Defeat an enemy.", fd.Description)

	bad := File{Achievements: []Spec{{Definition: Definition{Title: "x", Kind: KindTrigger}, StartOn: []string{"go"}}}}
	assert.ErrorIs(t, NewTracker().Load(bad), ErrKindMismatch)
}
