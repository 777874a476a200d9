package component

// AIStateInterrupt is a single pending FSM event written by timers such as
// the cooldown system. AISystem consumes it before its sensors run.
type AIStateInterrupt struct {
	Event string
}

var AIStateInterruptComponent = NewComponent[AIStateInterrupt]()
