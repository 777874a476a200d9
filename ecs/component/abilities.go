package component

// Abilities are unlocked by ability orbs and survive level changes.
type Abilities struct {
	DoubleJump bool
	WallJump   bool
}

var AbilitiesComponent = NewComponent[Abilities]()
