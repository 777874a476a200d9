package system

import (
	"image/color"
	"math"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const defaultProjectileLifetime = 180

var projectileColor = color.RGBA{R: 235, G: 200, B: 120, A: 255}

// ProjectileSystem moves projectiles kinematically and resolves their hits.
// It does not use the physics space: projectiles are tiny, fast and never
// need to be pushed.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem { return &ProjectileSystem{} }

type projectileSpawn struct {
	x, y     float64
	vx, vy   float64
	damage   int
	team     component.Team
	owner    ecs.Entity
	lifetime int
}

func spawnProjectile(w *ecs.World, p projectileSpawn) ecs.Entity {
	if p.lifetime <= 0 {
		p.lifetime = defaultProjectileLifetime
	}
	e := ecs.CreateEntity(w)
	width, height := 14.0, 4.0
	if math.Abs(p.vy) > math.Abs(p.vx) {
		width, height = height, width
	}
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: p.x, Y: p.y, ScaleX: 1, ScaleY: 1})
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		VX:     p.vx,
		VY:     p.vy,
		Damage: p.damage,
		Team:   p.team,
		Owner:  uint64(p.owner),
		Width:  width,
		Height: height,
	})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: p.lifetime})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Width:      width,
		Height:     height,
		OriginX:    width / 2,
		OriginY:    height / 2,
		Color:      projectileColor,
		FacingLeft: p.vx < 0,
	})
	_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 5})
	return e
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	solids := staticSolids(w)

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform) {
		t.X += p.VX
		t.Y += p.VY
		box := aabb{X: t.X - p.Width/2, Y: t.Y - p.Height/2, W: p.Width, H: p.Height}

		for _, solid := range solids {
			if overlapsAABB(box, solid) {
				ecs.DestroyEntity(w, e)
				return
			}
		}

		owner := ecs.Entity(p.Owner)
		hit := false
		ecs.ForEach3(w, component.HurtboxComponent.Kind(), component.TransformComponent.Kind(), component.FactionComponent.Kind(), func(target ecs.Entity, hurt *[]component.Hurtbox, tt *component.Transform, f *component.Faction) {
			if hit || target == owner || !p.Team.Hostile(f.Team) {
				return
			}
			for i := range *hurt {
				if !overlapsAABB(box, hurtboxAABB(w, target, tt, &(*hurt)[i])) {
					continue
				}
				src := damageSource{entity: e, x: t.X - p.VX*4, y: t.Y, damage: p.Damage}
				if ecs.IsAlive(w, owner) {
					src.entity = owner
				}
				if applyDamage(w, target, src) {
					hit = true
				}
				return
			}
		})
		if hit {
			ecs.DestroyEntity(w, e)
		}
	})
}
