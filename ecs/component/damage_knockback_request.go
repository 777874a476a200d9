package component

// DamageKnockback asks the knockback system to push the entity away from
// the source point on the next update.
type DamageKnockback struct {
	SourceX      float64
	SourceY      float64
	Strong       bool
	SourceEntity uint64
}

var DamageKnockbackRequestComponent = NewComponent[DamageKnockback]()
