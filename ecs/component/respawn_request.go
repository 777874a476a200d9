package component

// RespawnRequest marks a player to be moved back to SafeRespawn once
// DelayFrames have passed. Death respawns reload the level instead.
type RespawnRequest struct {
	DelayFrames int
}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
