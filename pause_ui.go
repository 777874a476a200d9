package main

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/hollowreach/achievement"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/config"
)

type pauseView int

const (
	pauseMain pauseView = iota
	pauseAchievements
)

var volumeSteps = []float64{0, 0.3, 0.6, 1}

var (
	pauseWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	pauseGold  = color.NRGBA{R: 0xf0, G: 0xc8, B: 0x3c, A: 0xff}
	pauseDim   = color.NRGBA{R: 0x90, G: 0x90, B: 0x98, A: 0xff}
)

func (g *Game) rebuildPauseUI() {
	g.pauseUI = NewPauseUI(g, g.pauseView)
	g.pauseBuilt = g.pauseView
}

// NewPauseUI builds the centred pause panel for view. Buttons use colored
// nine-slices and the built-in basic font, so no theme assets are needed.
func NewPauseUI(g *Game, view pauseView) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x44, B: 0x58, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	btnTextColor := &widget.ButtonTextColor{Idle: pauseWhite}

	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
	label := func(s string, c color.Color) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text(s, &face, c),
			widget.TextOpts.WidgetOpts(centered),
		)
	}
	button := func(s string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
			widget.ButtonOpts.Text(s, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered, widget.WidgetOpts.MinSize(180, 26)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	switch view {
	case pauseAchievements:
		panel.AddChild(label(fmt.Sprintf("Achievements  %d/%d", g.tracker.UnlockedCount(), g.tracker.Len()), pauseGold))
		for _, line := range achievementLines(g.tracker.All()) {
			c := pauseDim
			if line.unlocked {
				c = pauseWhite
			}
			panel.AddChild(label(line.text, c))
		}
		panel.AddChild(button("Back", func() { g.pauseView = pauseMain }))
	default:
		settings := g.settings.Get()
		panel.AddChild(label("Paused", pauseWhite))
		panel.AddChild(button("Resume", func() { g.setPaused(false) }))
		panel.AddChild(button("Achievements", func() { g.pauseView = pauseAchievements }))
		panel.AddChild(button(fmt.Sprintf("Music %d%%", percent(settings.MusicVolume)), func() {
			g.updateSettings(func(s *config.Settings) { s.MusicVolume = nextVolume(s.MusicVolume) })
		}))
		panel.AddChild(button(fmt.Sprintf("Sound %d%%", percent(settings.SFXVolume)), func() {
			g.updateSettings(func(s *config.Settings) { s.SFXVolume = nextVolume(s.SFXVolume) })
		}))
		panel.AddChild(button("Quit", func() { g.quit = true }))
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

// updateSettings saves the change and forces the menu to redraw its labels.
func (g *Game) updateSettings(fn func(*config.Settings)) {
	if err := g.settings.Update(fn); err != nil {
		g.log.Warn("save settings", "err", err)
	}
	g.pauseBuilt = -1
}

type achievementLine struct {
	text     string
	unlocked bool
}

func achievementLines(all []achievement.Status) []achievementLine {
	out := make([]achievementLine, 0, len(all))
	for _, st := range all {
		if st.Hidden && !st.Unlocked {
			out = append(out, achievementLine{text: "??? - hidden"})
			continue
		}
		var b strings.Builder
		if st.Unlocked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
		b.WriteString(st.Title)
		if !st.Unlocked && st.Kind == achievement.KindCounter {
			fmt.Fprintf(&b, " (%d/%d)", st.Count, st.Target)
		}
		b.WriteString(" - ")
		b.WriteString(st.Description)
		out = append(out, achievementLine{text: b.String(), unlocked: st.Unlocked})
	}
	return out
}

// nextVolume cycles through volumeSteps.
func nextVolume(v float64) float64 {
	for _, step := range volumeSteps {
		if step > v+1e-6 {
			return step
		}
	}
	return volumeSteps[0]
}

func percent(v float64) int {
	return int(v*100 + 0.5)
}
