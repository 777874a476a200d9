package component

import (
	"github.com/hajimehoshi/ebiten/v2"
)

type AnimationDef struct {
	Name       string
	Row        int
	ColStart   int // start column (frame 0)
	FrameCount int
	FrameW     int
	FrameH     int
	FPS        float64
	Loop       bool
}

// Animation steps through the frames of the Current definition. Sheet may be
// nil; frames still advance so gameplay keyed on animation frames (hitboxes,
// attack ends) works without art.
type Animation struct {
	Sheet      *ebiten.Image
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	Playing    bool
	// Finished is set once a non-looping animation shows its last frame.
	Finished bool
}

// Play switches to name and rewinds it. Re-playing the current animation is
// a no-op unless restart is set.
func (a *Animation) Play(name string, restart bool) {
	if a == nil || name == "" {
		return
	}
	if a.Current == name && !restart {
		return
	}
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
	a.Finished = false
}

var AnimationComponent = NewComponent[Animation]()
