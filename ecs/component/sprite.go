package component

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is a drawable image. When Image is nil the renderer fills a
// Width x Height rectangle with Color instead, which is how placeholder art
// and tiles are drawn.
type Sprite struct {
	Image      *ebiten.Image
	Source     image.Rectangle
	UseSource  bool
	OriginX    float64
	OriginY    float64
	FacingLeft bool
	Hidden     bool

	Width  float64
	Height float64
	Color  color.Color
}

var SpriteComponent = NewComponent[Sprite]()
