package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/hollowreach/achievement"
)

func TestNextVolumeCycles(t *testing.T) {
	assert.Equal(t, 0.3, nextVolume(0))
	assert.Equal(t, 0.6, nextVolume(0.3))
	assert.Equal(t, 1.0, nextVolume(0.6))
	assert.Equal(t, 0.0, nextVolume(1))
	assert.Equal(t, 0.6, nextVolume(0.45), "off-step values snap up")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(0))
	assert.Equal(t, 30, percent(0.3))
	assert.Equal(t, 100, percent(1))
}

func TestAchievementLines(t *testing.T) {
	lines := achievementLines([]achievement.Status{
		{Definition: achievement.Definition{Title: "First Blood", Description: "Defeat an enemy"}, Unlocked: true},
		{Definition: achievement.Definition{Title: "Hoarder", Description: "Grab coins", Kind: achievement.KindCounter, Target: 10}, Count: 4},
		{Definition: achievement.Definition{Title: "Secret", Hidden: true}},
	})
	assert.Equal(t, []achievementLine{
		{text: "[x] First Blood - Defeat an enemy", unlocked: true},
		{text: "[ ] Hoarder (4/10) - Grab coins"},
		{text: "??? - hidden"},
	}, lines)
}
