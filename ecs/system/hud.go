package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const defaultToastFrames = 180

var (
	hudFace       = text.NewGoXFace(basicfont.Face7x13)
	hudHeartFull  = color.RGBA{R: 220, G: 40, B: 60, A: 255}
	hudHeartEmpty = color.RGBA{R: 60, G: 30, B: 40, A: 255}
	hudPanel      = color.RGBA{R: 10, G: 10, B: 20, A: 200}
	hudBossFill   = color.RGBA{R: 190, G: 30, B: 30, A: 255}
	hudText       = color.RGBA{R: 240, G: 240, B: 230, A: 255}
	hudGold       = color.RGBA{R: 240, G: 200, B: 60, A: 255}
)

// HUDSystem advances the toast queue and mirrors the active boss into the
// HUD component. Draw renders health, wallet, toast and boss bar in screen
// space.
type HUDSystem struct {
	pixel *ebiten.Image
}

func NewHUDSystem() *HUDSystem { return &HUDSystem{} }

func (s *HUDSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	hudEnt, ok := ecs.First(w, component.HUDComponent.Kind())
	if !ok {
		return
	}
	hud, _ := ecs.Get(w, hudEnt, component.HUDComponent.Kind())

	if hud.Current != nil {
		hud.ToastTimer--
		if hud.ToastTimer <= 0 {
			hud.Current = nil
		}
	}
	if hud.Current == nil && len(hud.Toasts) > 0 {
		next := hud.Toasts[0]
		hud.Toasts = hud.Toasts[1:]
		hud.Current = &next
		hud.ToastTimer = hud.ToastFrames
		if hud.ToastTimer <= 0 {
			hud.ToastTimer = defaultToastFrames
		}
	}

	hud.BossVisible = false
	ecs.ForEach3(w, component.BossComponent.Kind(), component.BossRuntimeComponent.Kind(), component.HealthComponent.Kind(), func(_ ecs.Entity, boss *component.Boss, rt *component.BossRuntime, h *component.Health) {
		if hud.BossVisible || !rt.Initialized || rt.Defeated {
			return
		}
		hud.BossVisible = true
		hud.BossName = boss.DisplayName
		hud.BossFraction = h.Fraction()
	})
}

func (s *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	hudEnt, ok := ecs.First(w, component.HUDComponent.Kind())
	if !ok {
		return
	}
	hud, _ := ecs.Get(w, hudEnt, component.HUDComponent.Kind())
	if s.pixel == nil {
		s.pixel = ebiten.NewImage(1, 1)
		s.pixel.Fill(color.White)
	}

	if player, ok := playerEntity(w); ok {
		if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok {
			for i := range h.Max {
				c := hudHeartEmpty
				if i < h.Current {
					c = hudHeartFull
				}
				s.fill(screen, 16+float64(i)*22, 16, 16, 16, c)
			}
		}
		if wallet, ok := ecs.Get(w, player, component.WalletComponent.Kind()); ok {
			drawHUDText(screen, fmt.Sprintf("coins %d", wallet.Coins), 16, 40, hudGold)
			if wallet.Keys > 0 {
				drawHUDText(screen, fmt.Sprintf("keys %d", wallet.Keys), 16, 56, hudText)
			}
		}
	}

	if hud.Current != nil {
		const tw, th = 300.0, 44.0
		x := float64(common.BaseWidth) - tw - 16
		s.fill(screen, x, 16, tw, th, hudPanel)
		drawHUDText(screen, hud.Current.Title, x+10, 22, hudGold)
		drawHUDText(screen, hud.Current.Text, x+10, 40, hudText)
	}

	if hud.Banner != "" {
		const bw, bh = 360.0, 48.0
		x := (float64(common.BaseWidth) - bw) / 2
		y := (float64(common.BaseHeight) - bh) / 2
		s.fill(screen, x, y, bw, bh, hudPanel)
		drawHUDText(screen, hud.Banner, x+bw/2-float64(len(hud.Banner))*3.5, y+bh/2-7, hudGold)
	}

	if hud.BossVisible {
		const bw, bh = 480.0, 10.0
		x := (float64(common.BaseWidth) - bw) / 2
		y := float64(common.BaseHeight) - 40
		drawHUDText(screen, hud.BossName, x, y-18, hudText)
		s.fill(screen, x, y, bw, bh, hudPanel)
		s.fill(screen, x, y, bw*common.Clamp(hud.BossFraction, 0, 1), bh, hudBossFill)
	}
}

func (s *HUDSystem) fill(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(s.pixel, op)
}

func drawHUDText(dst *ebiten.Image, str string, x, y float64, c color.Color) {
	if str == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, str, hudFace, op)
}
