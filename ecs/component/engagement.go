package component

// Engagement tracks aggro. An engaged enemy senses the player out to
// FollowRange*LeashFactor and drops aggro after DisengageFrames outside it.
type Engagement struct {
	Engaged         bool
	LeashFactor     float64
	DisengageFrames int
	OutOfLeash      int
}

var EngagementComponent = NewComponent[Engagement]()
