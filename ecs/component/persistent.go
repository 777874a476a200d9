package component

// Persistent entities survive level changes (player, camera, music, HUD).
type Persistent struct {
	ID string
}

var PersistentComponent = NewComponent[Persistent]()
