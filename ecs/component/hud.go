package component

type Toast struct {
	Title string
	Text  string
}

// HUD is the singleton UI state: toast queue and boss bar display.
type HUD struct {
	Toasts      []Toast
	Current     *Toast
	ToastTimer  int
	ToastFrames int

	BossName     string
	BossFraction float64
	BossVisible  bool

	// Banner is centred text that stays until the next scene.
	Banner string
}

var HUDComponent = NewComponent[HUD]()
