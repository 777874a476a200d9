package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type RenderSystem struct {
	pixel *ebiten.Image
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

type drawItem struct {
	e      ecs.Entity
	layer  int
	screen bool
	t      *component.Transform
	s      *component.Sprite
}

// view is the camera state a world-space sprite is drawn through.
type view struct {
	x, y, zoom float64
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(color.White)
	}

	v := cameraView(w)

	items := make([]drawItem, 0, 256)
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, t *component.Transform, s *component.Sprite) {
		if s.Hidden {
			return
		}
		item := drawItem{e: e, t: t, s: s, screen: ecs.Has(w, e, component.ScreenSpaceComponent.Kind())}
		if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			item.layer = layer.Index
		}
		if !item.screen && ecs.Has(w, e, component.StaticTileComponent.Kind()) && !onScreen(v, t, s) {
			return
		}
		items = append(items, item)
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].screen != items[j].screen {
			return !items[i].screen
		}
		return items[i].layer < items[j].layer
	})

	for _, it := range items {
		vv := v
		if it.screen {
			vv = view{zoom: 1}
		}
		flash := false
		if wf, ok := ecs.Get(w, it.e, component.WhiteFlashComponent.Kind()); ok {
			flash = wf.On
		}
		r.drawSprite(screen, it.t, it.s, vv, flash)
	}
}

func (r *RenderSystem) drawSprite(screen *ebiten.Image, t *component.Transform, s *component.Sprite, v view, flash bool) {
	img := s.Image
	srcW, srcH := s.Width, s.Height
	var tint color.Color = color.White
	if img == nil {
		if s.Color == nil || srcW <= 0 || srcH <= 0 {
			return
		}
		img = r.pixel
		tint = s.Color
	} else {
		if s.UseSource {
			if sub, ok := img.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}
		srcW = float64(img.Bounds().Dx())
		srcH = float64(img.Bounds().Dy())
	}

	var geo ebiten.GeoM
	if img == r.pixel {
		geo.Scale(srcW, srcH)
	}
	geo.Translate(-s.OriginX, -s.OriginY)

	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if s.FacingLeft {
		// Mirrored around the origin so the anchor stays put.
		sx = -sx
	}
	geo.Scale(sx, sy)
	geo.Rotate(t.Rotation)
	geo.Scale(v.zoom, v.zoom)
	geo.Translate((t.X-v.x)*v.zoom, (t.Y-v.y)*v.zoom)

	if flash {
		var cm colorm.ColorM
		cm.Scale(0, 0, 0, 1)
		cm.Translate(1, 1, 1, 0)
		op := &colorm.DrawImageOptions{GeoM: geo}
		colorm.DrawImage(screen, img, cm, op)
		return
	}

	op := &ebiten.DrawImageOptions{GeoM: geo}
	op.ColorScale.ScaleWithColor(tint)
	screen.DrawImage(img, op)
}

func cameraView(w *ecs.World) view {
	v := view{zoom: 1}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return v
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		v.x, v.y = t.X, t.Y
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		if cam.Zoom > 0 {
			v.zoom = cam.Zoom
		}
		v.x += cam.ShakeX
		v.y += cam.ShakeY
	}
	return v
}

func onScreen(v view, t *component.Transform, s *component.Sprite) bool {
	w, h := s.Width, s.Height
	if s.Image != nil {
		w = float64(s.Image.Bounds().Dx())
		h = float64(s.Image.Bounds().Dy())
	}
	box := common.Rect{X: t.X - s.OriginX, Y: t.Y - s.OriginY, W: w, H: h}
	cam := common.Rect{X: v.x, Y: v.y, W: common.BaseWidth / v.zoom, H: common.BaseHeight / v.zoom}
	return box.Intersects(cam)
}
