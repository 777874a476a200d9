package component

// PathNode represents a world-space point along a path.
type PathNode struct {
	X float64
	Y float64
}

// Pathfinding steers a flying enemy through the level grid toward the
// player. The path is only recomputed while the enemy is engaged, every
// RepathFrames or when either end changes cell.
type Pathfinding struct {
	GridSize     float64
	RepathFrames int
	FrameCounter int
	LastStartX   int
	LastStartY   int
	LastTargetX  int
	LastTargetY  int
	Path         []PathNode
}

var PathfindingComponent = NewComponent[Pathfinding]()
