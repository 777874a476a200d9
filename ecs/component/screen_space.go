package component

// ScreenSpace marks sprites drawn in UI space, unaffected by camera
// translation or zoom.
type ScreenSpace struct{}

var ScreenSpaceComponent = NewComponent[ScreenSpace]()
