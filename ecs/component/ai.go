package component

// AI holds the ranges and speeds the FSM actions and sensors read.
type AI struct {
	MoveSpeed    float64
	PatrolSpeed  float64
	PatrolRadius float64
	FollowRange  float64
	AttackRange  float64
	AttackFrames int
}

var AIComponent = NewComponent[AI]()
