package component

// Sound is the playback surface the audio systems drive. *audio.Player
// satisfies it.
type Sound interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	SetVolume(volume float64)
}

// Audio holds an entity's named one-shot clips. Systems set Play[i] or
// Stop[i]; the audio system applies and clears the flags. Players may be nil
// when no audio device is available.
type Audio struct {
	Names   []string
	Players []Sound
	Volume  []float64
	Play    []bool
	Stop    []bool
}

// Request flags the named clip to play this frame and reports whether the
// entity has it.
func (a *Audio) Request(name string) bool {
	if a == nil {
		return false
	}
	for i, n := range a.Names {
		if n == name {
			a.Play[i] = true
			return true
		}
	}
	return false
}

var AudioComponent = NewComponent[Audio]()
