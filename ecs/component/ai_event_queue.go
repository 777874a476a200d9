package component

// AIEventQueue is a one-tick queue of FSM events for AISystem to consume.
// Producers append; AISystem drains and removes it each tick.
type AIEventQueue struct {
	Events []string
}

var AIEventQueueComponent = NewComponent[AIEventQueue]()
