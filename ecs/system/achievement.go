package system

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/hollowreach/achievement"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// AchievementSystem feeds the frame's game events to the tracker in emission
// order, advances running timers, persists new unlocks and queues a toast
// for each one.
type AchievementSystem struct {
	tracker *achievement.Tracker
	store   achievement.Store
	unlocks []achievement.Status
	log     *log.Logger
}

// NewAchievementSystem subscribes to tracker unlocks. store may be nil, in
// which case unlocks only live for the session.
func NewAchievementSystem(tracker *achievement.Tracker, store achievement.Store) *AchievementSystem {
	s := &AchievementSystem{
		tracker: tracker,
		store:   store,
		log:     common.Logger().With("system", "achievement"),
	}
	if tracker != nil {
		tracker.OnUnlock(s.onUnlock)
	}
	return s
}

func (s *AchievementSystem) onUnlock(st achievement.Status) {
	s.log.Info("unlocked", "title", st.Title)
	if s.store != nil {
		at := st.UnlockedAt
		if at.IsZero() {
			at = time.Now()
		}
		if err := s.store.SaveUnlock(st.Title, at); err != nil {
			s.log.Warn("save unlock", "title", st.Title, "err", err)
		}
	}
	s.unlocks = append(s.unlocks, st)
}

// ResetScene clears scene-scoped progress. SceneSystem calls it after every
// load.
func (s *AchievementSystem) ResetScene() {
	if s == nil || s.tracker == nil {
		return
	}
	s.tracker.ResetScene()
}

func (s *AchievementSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.GameEventComponent.Kind(), func(e ecs.Entity, ev *component.GameEvent) {
		if s.tracker != nil {
			if err := s.tracker.Dispatch(ev.Name); err != nil {
				s.log.Debug("dispatch", "event", ev.Name, "err", err)
			}
		}
		ecs.DestroyEntity(w, e)
	})

	if s.tracker != nil {
		s.tracker.Tick(1.0 / common.TPS)
	}

	if len(s.unlocks) == 0 {
		return
	}
	hudEnt, hasHUD := ecs.First(w, component.HUDComponent.Kind())
	for _, st := range s.unlocks {
		if !hasHUD {
			break
		}
		hud, _ := ecs.Get(w, hudEnt, component.HUDComponent.Kind())
		hud.Toasts = append(hud.Toasts, component.Toast{Title: st.Title, Text: st.Description})
		playSound(w, hudEnt, "achievement")
	}
	s.unlocks = s.unlocks[:0]
}
