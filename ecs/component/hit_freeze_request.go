package component

// HitFreezeRequest requests a short global gameplay freeze measured in frames.
// The longest pending request wins; the game loop applies it.
type HitFreezeRequest struct {
	Frames int
}

var HitFreezeRequestComponent = NewComponent[HitFreezeRequest]()
