package component

type TeleportMode string

const (
	TeleportFarthest     TeleportMode = "farthest"
	TeleportRandom       TeleportMode = "random"
	TeleportBehindPlayer TeleportMode = "behind_player"
)

type Point struct {
	X float64
	Y float64
}

// Teleporter lets an entity blink between anchor points. A teleport starts
// when requested (FSM/boss action) or when the player comes within
// PanicDistance, and only while Cooldown is zero. During the BlinkFrames the
// entity is invulnerable and flashing; it moves when the blink ends.
type Teleporter struct {
	Anchors        []Point
	Mode           TeleportMode
	CooldownFrames int
	PanicDistance  float64
	BlinkFrames    int
	BehindOffset   float64

	Cooldown    int
	Blink       int
	Requested   bool
	RequestMode TeleportMode
	DestX       float64
	DestY       float64
	Seed        uint32
}

var TeleporterComponent = NewComponent[Teleporter]()
