package component

// Cooldown is a frame countdown. When Frames reaches zero the component is
// removed and AI entities receive a "cooldown_finished" event.
type Cooldown struct {
	Frames int
}

var CooldownComponent = NewComponent[Cooldown]()
