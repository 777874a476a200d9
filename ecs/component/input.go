package component

// Input stores per-frame input state for an entity. Pressed/Released flags
// are edges and only hold for the frame they happened on.
type Input struct {
	MoveX         float64
	Jump          bool
	JumpPressed   bool
	JumpReleased  bool
	AttackPressed bool
	PausePressed  bool
	// Disabled zeroes all gameplay input (cutscenes, boss intros).
	Disabled bool
}

var InputComponent = NewComponent[Input]()
