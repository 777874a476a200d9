package component

// Boss stores data-driven phase and attack-pattern configuration for a boss entity.
type Boss struct {
	DisplayName string
	MusicTrack  string
	// EngageRange is how close the player must be before the fight starts.
	EngageRange float64
	// ArenaGroup names the gates that close on engage and open on defeat.
	ArenaGroup string
	Phases     []BossPhase
}

// BossPhase is entered once the boss HP fraction drops to HPTrigger or below.
type BossPhase struct {
	Name        string
	HPTrigger   float64
	PatternMode string
	OnEnter     []map[string]any
	Patterns    []BossAttackPattern
}

type BossAttackPattern struct {
	Name           string
	CooldownFrames int
	Actions        []map[string]any
}

// BossRuntime stores runtime-only state for phase progression and pattern selection.
type BossRuntime struct {
	Initialized   bool
	CurrentPhase  int
	PatternIndex  int
	Cooldown      int
	PendingDelays []DelayedAction
	Seed          uint32
	Defeated      bool
}

type DelayedAction struct {
	Frames  int
	Actions []map[string]any
}

var BossComponent = NewComponent[Boss]()
var BossRuntimeComponent = NewComponent[BossRuntime]()
