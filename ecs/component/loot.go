package component

// Loot is what an enemy drops when it dies.
type Loot struct {
	Coins int
	Heart bool
}

var LootComponent = NewComponent[Loot]()
