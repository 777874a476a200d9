package component

type Team int

const (
	TeamNeutral Team = iota
	TeamPlayer
	TeamEnemy
)

// Faction decides who may hurt whom: hitboxes and projectiles only damage
// hurtboxes of a different, non-neutral team.
type Faction struct {
	Team Team
}

func ParseTeam(s string) Team {
	switch s {
	case "player":
		return TeamPlayer
	case "enemy":
		return TeamEnemy
	default:
		return TeamNeutral
	}
}

func (t Team) Hostile(other Team) bool {
	return t != TeamNeutral && other != TeamNeutral && t != other
}

var FactionComponent = NewComponent[Faction]()
