package system

import (
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

// AINavigationSystem samples the static level geometry just beyond each
// walking AI's feet and sides, storing ground-ahead and wall flags in
// AINavigation so patrol and chase actions can consult them cheaply.
type AINavigationSystem struct{}

func NewAINavigationSystem() *AINavigationSystem {
	return &AINavigationSystem{}
}

func (s *AINavigationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	solids := staticSolids(w)

	ecs.ForEach3(w, component.AINavigationComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.AINavigation, b *component.PhysicsBody, t *component.Transform) {
		box, ok := bodyAABB(w, e, t, b)
		if !ok {
			return
		}

		footY := box.Y + box.H + 2
		midY := box.CenterY()
		rightX := box.X + box.W + 1
		leftX := box.X - 1

		nav.GroundAheadRight = pointInAny(solids, rightX, footY)
		nav.GroundAheadLeft = pointInAny(solids, leftX, footY)
		nav.WallRight = pointInAny(solids, rightX+1, midY)
		nav.WallLeft = pointInAny(solids, leftX-1, midY)
	})
}

func pointInAny(rects []aabb, x, y float64) bool {
	for _, r := range rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}
