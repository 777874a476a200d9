package system

import (
	"math"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	defaultRepulsionRadius   = 24.0
	defaultRepulsionStrength = 1.5
)

// ClusterRepulsionSystem nudges overlapping enemies apart horizontally so
// packs chasing the player do not collapse into one sprite. It runs after
// the AI has set velocities and before the physics step.
type ClusterRepulsionSystem struct{}

func NewClusterRepulsionSystem() *ClusterRepulsionSystem {
	return &ClusterRepulsionSystem{}
}

type repulsionInfo struct {
	e     ecs.Entity
	x, y  float64
	layer *component.RepulsionLayer
}

func (cr *ClusterRepulsionSystem) Update(w *ecs.World) {
	if cr == nil || w == nil {
		return
	}

	var list []repulsionInfo
	ecs.ForEach2(w, component.RepulsionLayerComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, layer *component.RepulsionLayer, body *component.PhysicsBody) {
		if body.Body == nil || body.Static {
			return
		}
		pos := body.Body.Position()
		list = append(list, repulsionInfo{e: e, x: pos.X, y: pos.Y, layer: layer})
	})
	if len(list) < 2 {
		return
	}

	push := make(map[ecs.Entity]float64, len(list))
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			a, b := list[i], list[j]
			if !repels(a.layer, b.layer) {
				continue
			}
			radius := math.Max(repulsionRadius(a.layer), repulsionRadius(b.layer))
			dx := a.x - b.x
			dist := math.Hypot(dx, a.y-b.y)
			if dist >= radius {
				continue
			}
			dir := 1.0
			if dx < 0 || (dx == 0 && a.e < b.e) {
				dir = -1
			}
			mag := (radius - dist) / radius
			push[a.e] += dir * mag * repulsionStrength(a.layer)
			push[b.e] -= dir * mag * repulsionStrength(b.layer)
		}
	}

	for e, dvx := range push {
		vx, vy := entityVelocity(w, e)
		setEntityVelocity(w, e, vx+dvx, vy)
	}
}

func repels(a, b *component.RepulsionLayer) bool {
	return repulsionMask(a)&repulsionCategory(b) != 0 && repulsionMask(b)&repulsionCategory(a) != 0
}

func repulsionCategory(l *component.RepulsionLayer) uint32 {
	if l.Category == 0 {
		return 1
	}
	return l.Category
}

func repulsionMask(l *component.RepulsionLayer) uint32 {
	if l.Mask == 0 {
		return math.MaxUint32
	}
	return l.Mask
}

func repulsionRadius(l *component.RepulsionLayer) float64 {
	if l.Radius <= 0 {
		return defaultRepulsionRadius
	}
	return l.Radius
}

func repulsionStrength(l *component.RepulsionLayer) float64 {
	if l.Strength <= 0 {
		return defaultRepulsionStrength
	}
	return l.Strength
}
