package component

// PlayerStateInterrupt asks the player controller to switch state at the
// start of its next update ("hurt", "dead", "idle"). It is consumed on read.
type PlayerStateInterrupt struct {
	State string
}

var PlayerStateInterruptComponent = NewComponent[PlayerStateInterrupt]()
