package component

// Knockbackable marks entities that are pushed by damage. Resist scales the
// impulse down (0 = full knockback, 1 = immovable).
type Knockbackable struct {
	Resist float64
}

var KnockbackableComponent = NewComponent[Knockbackable]()
