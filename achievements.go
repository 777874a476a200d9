package main

import (
	"fmt"

	"github.com/milk9111/hollowreach/achievement"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/config"
	"github.com/milk9111/hollowreach/prefabs"
)

// loadTracker registers the authored achievements.
func loadTracker(cfg config.Config) (*achievement.Tracker, error) {
	data, err := prefabs.Load(cfg.Achievements.Definitions)
	if err != nil {
		return nil, fmt.Errorf("read achievements %s: %w", cfg.Achievements.Definitions, err)
	}
	f, err := achievement.Parse(data)
	if err != nil {
		return nil, err
	}
	tracker := achievement.NewTracker()
	if err := tracker.Load(f); err != nil {
		return nil, err
	}
	return tracker, nil
}

// openStore opens the configured backend. In the game a failure degrades to
// a session-only store; the CLI passes strict to surface it instead.
func openStore(cfg config.Config, strict bool) (achievement.Store, error) {
	store, err := achievement.OpenStore(cfg.Achievements.Backend, cfg.Achievements.DBPath, cfg.AppName)
	if err == nil {
		return store, nil
	}
	if strict {
		return nil, err
	}
	common.Logger().Warn("achievement store unavailable, progress will not be saved", "backend", cfg.Achievements.Backend, "err", err)
	return achievement.NewMemoryStore(), nil
}

// restoreUnlocks marks persisted unlocks on the tracker.
func restoreUnlocks(tracker *achievement.Tracker, store achievement.Store) error {
	unlocked, err := store.LoadUnlocked()
	if err != nil {
		return err
	}
	if skipped := tracker.Restore(unlocked); skipped > 0 {
		common.Logger().Warn("ignored unknown persisted achievements", "count", skipped)
	}
	return nil
}
