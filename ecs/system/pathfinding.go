package system

import (
	"container/heap"
	"math"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	defaultPathGridSize     = common.TileSize
	defaultPathRepathFrames = 15
)

// PathfindingSystem runs A* over the static colliders for engaged flyers.
type PathfindingSystem struct{}

func NewPathfindingSystem() *PathfindingSystem {
	return &PathfindingSystem{}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	playerX, playerY, playerFound := playerPosition(w)
	if !playerFound {
		return
	}
	bounds, ok := levelBounds(w)
	if !ok {
		return
	}

	var blocked []bool
	var gridW, gridH int
	var gridSize float64

	ecs.ForEach(w, component.PathfindingComponent.Kind(), func(e ecs.Entity, pf *component.Pathfinding) {
		if !isEngaged(w, e) {
			pf.Path = nil
			return
		}
		if pf.GridSize <= 0 {
			pf.GridSize = defaultPathGridSize
		}
		if pf.RepathFrames <= 0 {
			pf.RepathFrames = defaultPathRepathFrames
		}

		if blocked == nil || gridSize != pf.GridSize {
			gridSize = pf.GridSize
			gridW = int(math.Ceil(bounds.Width / gridSize))
			gridH = int(math.Ceil(bounds.Height / gridSize))
			if gridW <= 0 || gridH <= 0 {
				return
			}
			blocked = buildBlockedGrid(staticSolids(w), gridW, gridH, gridSize)
		}

		startX, startY, ok := entityPosition(w, e)
		if !ok {
			return
		}
		start := gridCoord(startX, startY, gridSize, gridW, gridH)
		goal := gridCoord(playerX, playerY, gridSize, gridW, gridH)

		pf.FrameCounter++
		if pf.FrameCounter%pf.RepathFrames != 0 &&
			pf.LastStartX == start.x && pf.LastStartY == start.y &&
			pf.LastTargetX == goal.x && pf.LastTargetY == goal.y &&
			len(pf.Path) > 0 {
			return
		}

		pf.Path = gridPathToWorld(astarPath(start, goal, blocked, gridW, gridH), gridSize)
		pf.LastStartX = start.x
		pf.LastStartY = start.y
		pf.LastTargetX = goal.x
		pf.LastTargetY = goal.y
	})
}

// nextPathNode is the waypoint after the one the entity is standing in.
func nextPathNode(w *ecs.World, e ecs.Entity) (component.PathNode, bool) {
	pf, ok := ecs.Get(w, e, component.PathfindingComponent.Kind())
	if !ok || len(pf.Path) < 2 {
		return component.PathNode{}, false
	}
	return pf.Path[1], true
}

type gridPos struct {
	x int
	y int
}

func gridCoord(x, y, gridSize float64, gridW, gridH int) gridPos {
	gx := int(math.Floor(x / gridSize))
	gy := int(math.Floor(y / gridSize))
	return gridPos{x: common.Clamp(gx, 0, gridW-1), y: common.Clamp(gy, 0, gridH-1)}
}

func gridPathToWorld(path []gridPos, gridSize float64) []component.PathNode {
	if len(path) == 0 {
		return nil
	}
	out := make([]component.PathNode, 0, len(path))
	half := gridSize * 0.5
	for _, p := range path {
		out = append(out, component.PathNode{
			X: float64(p.x)*gridSize + half,
			Y: float64(p.y)*gridSize + half,
		})
	}
	return out
}

func buildBlockedGrid(solids []aabb, gridW, gridH int, gridSize float64) []bool {
	blocked := make([]bool, gridW*gridH)
	for _, box := range solids {
		startX := common.Clamp(int(math.Floor(box.X/gridSize)), 0, gridW-1)
		startY := common.Clamp(int(math.Floor(box.Y/gridSize)), 0, gridH-1)
		endX := common.Clamp(int(math.Floor((box.X+box.W-0.001)/gridSize)), 0, gridW-1)
		endY := common.Clamp(int(math.Floor((box.Y+box.H-0.001)/gridSize)), 0, gridH-1)
		for y := startY; y <= endY; y++ {
			for x := startX; x <= endX; x++ {
				blocked[y*gridW+x] = true
			}
		}
	}
	return blocked
}

func astarPath(start, goal gridPos, blocked []bool, gridW, gridH int) []gridPos {
	if start.x < 0 || start.y < 0 || goal.x < 0 || goal.y < 0 {
		return nil
	}
	if start.x >= gridW || start.y >= gridH || goal.x >= gridW || goal.y >= gridH {
		return nil
	}
	if blocked[start.y*gridW+start.x] || blocked[goal.y*gridW+goal.x] {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), g: 0})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*gridW + cur.x
		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}
		if current.g > gScore[curIdx] {
			continue
		}

		for _, n := range neighbors(cur, gridW, gridH) {
			idx := n.y*gridW + n.x
			if blocked[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: n, f: tentativeG + heuristic(n, goal), g: tentativeG})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if goalIdx < 0 || goalIdx >= len(cameFrom) || cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, y: p.y})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, y: p.y})
	}
	if p.y > 0 {
		out = append(out, gridPos{x: p.x, y: p.y - 1})
	}
	if p.y < gridH-1 {
		out = append(out, gridPos{x: p.x, y: p.y + 1})
	}
	return out
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
