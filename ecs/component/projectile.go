package component

// Projectile flies at a fixed velocity until it hits something solid, hits a
// hostile hurtbox, or its TTL runs out.
type Projectile struct {
	VX     float64
	VY     float64
	Damage int
	Team   Team
	Owner  uint64
	Width  float64
	Height float64
}

var ProjectileComponent = NewComponent[Projectile]()
