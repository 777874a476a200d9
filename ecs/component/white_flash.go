package component

// WhiteFlash makes a sprite blink white for Frames ticks, toggling every
// Interval frames.
type WhiteFlash struct {
	Frames   int
	Interval int
	Timer    int
	On       bool
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
