package component

// LevelChangeRequest is a one-shot request to load a level. Systems only
// emit it; the scene system owns world teardown and loading. An empty
// TargetLevel reloads the current level.
type LevelChangeRequest struct {
	TargetLevel string
	Reason      string
}

var LevelChangeRequestComponent = NewComponent[LevelChangeRequest]()
