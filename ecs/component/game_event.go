package component

// GameEvent is a one-frame gameplay notification ("enemy_killed",
// "pickup:coin"). Any system may emit one as its own entity; the achievement
// system drains them at the end of the frame.
type GameEvent struct {
	Name string
}

var GameEventComponent = NewComponent[GameEvent]()
