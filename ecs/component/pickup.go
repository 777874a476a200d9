package component

const (
	PickupCoin  = "coin"
	PickupHeart = "heart"
	PickupKey   = "key"
	PickupOrb   = "orb"
)

// Pickup is a collectible with a bob animation and an overlap box.
type Pickup struct {
	Kind            string
	Amount          int
	BaseY           float64
	BobAmplitude    float64
	BobSpeed        float64
	BobPhase        float64
	CollisionWidth  float64
	CollisionHeight float64
	GrantDoubleJump bool
	GrantWallJump   bool
	Initialized     bool
}

var PickupComponent = NewComponent[Pickup]()
