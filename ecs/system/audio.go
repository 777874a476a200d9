package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// AudioSystem plays and stops the clips flagged on Audio components. Gain is
// read every frame so settings changes apply immediately.
type AudioSystem struct {
	gain func() float64
}

func NewAudioSystem(gain func() float64) *AudioSystem {
	if gain == nil {
		gain = func() float64 { return 1 }
	}
	return &AudioSystem{gain: gain}
}

func (a *AudioSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	gain := a.gain()

	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		for i := range audioComp.Play {
			if !audioComp.Play[i] {
				continue
			}
			audioComp.Play[i] = false
			if i >= len(audioComp.Players) || audioComp.Players[i] == nil {
				continue
			}
			volume := 1.0
			if i < len(audioComp.Volume) {
				volume = audioComp.Volume[i]
			}
			player := audioComp.Players[i]
			player.SetVolume(volume * gain)
			_ = player.Rewind()
			player.Play()
		}

		for i := range audioComp.Stop {
			if !audioComp.Stop[i] {
				continue
			}
			audioComp.Stop[i] = false
			if i < len(audioComp.Players) && audioComp.Players[i] != nil && audioComp.Players[i].IsPlaying() {
				audioComp.Players[i].Pause()
			}
		}
	})
}
