package component

// Wallet is persistent player inventory.
type Wallet struct {
	Coins int
	Keys  int
}

var WalletComponent = NewComponent[Wallet]()
