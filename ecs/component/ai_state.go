package component

// StateID identifies an AI FSM state.
type StateID string

// EventID identifies an AI FSM event.
type EventID string

const DefaultAIFSMName = "enemy_default"

// AIState stores the current FSM state.
type AIState struct {
	Current StateID
}

// AIContext stores per-entity AI runtime data.
type AIContext struct {
	Timer       float64
	AttackTimer int
	PatrolDir   float64
	HomeX       float64
	HomeSet     bool
	// LastSeen is true while the player was inside the sensing range last
	// frame; sees/loses events fire on its edges.
	LastSeen    bool
	LastInRange bool
}

// AIConfig stores the FSM configuration reference for an entity. Spec wins
// over FSM; a Spec with ScriptPath runs the script lifecycle instead of the
// declarative graph.
type AIConfig struct {
	FSM  string
	Spec *AIFSMSpec
}

var AIStateComponent = NewComponent[AIState]()
var AIContextComponent = NewComponent[AIContext]()
var AIConfigComponent = NewComponent[AIConfig]()
