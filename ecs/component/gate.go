package component

// Gate is a door. Closed gates are solid and visible; the gate system
// toggles the collider and sprite when Open changes. Boss arenas open and
// close gates by Group. A NeedsKey gate opens when the player touches it
// holding a key.
type Gate struct {
	Group    string
	Open     bool
	NeedsKey bool
}

// GateRuntime remembers the last applied state so toggles are edge-driven.
type GateRuntime struct {
	Initialized bool
	Applied     bool
}

var GateComponent = NewComponent[Gate]()
var GateRuntimeComponent = NewComponent[GateRuntime]()
