package component

// AINavigation stores ground-ahead and wall samples for walking AI. Patrol
// turns around when the side it walks toward has no ground or a wall.
type AINavigation struct {
	GroundAheadLeft  bool
	GroundAheadRight bool
	WallLeft         bool
	WallRight        bool
}

var AINavigationComponent = NewComponent[AINavigation]()
