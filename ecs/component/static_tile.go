package component

// StaticTile marks level geometry produced by the level loader. Tiles never
// move, so the renderer culls them against the camera and skips the rest.
type StaticTile struct{}

var StaticTileComponent = NewComponent[StaticTile]()
