package main

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/quasilyte/gdata/v2"

	"github.com/milk9111/hollowreach/achievement"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/config"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/ecs/system"
	"github.com/milk9111/hollowreach/prefabs"
)

var clearColor = color.RGBA{R: 18, G: 16, B: 26, A: 255}

type Game struct {
	frames int
	debug  bool

	world     *ecs.World
	scheduler *ecs.Scheduler
	scene     *system.SceneSystem
	physics   *system.PhysicsSystem
	render    *system.RenderSystem
	hud       *system.HUDSystem

	tracker  *achievement.Tracker
	store    achievement.Store
	settings *config.SettingsStore
	watcher  *prefabs.Watcher

	input  component.Input
	freeze int

	paused bool
	// pauseView is the requested menu page; pauseBuilt is the one pauseUI
	// currently shows.
	pauseView  pauseView
	pauseBuilt pauseView
	pauseUI    *ebitenui.UI
	quit       bool

	log *log.Logger
}

func NewGame(cfg config.Config) (*Game, error) {
	g := &Game{
		debug: cfg.Debug,
		world: ecs.NewWorld(),
		log:   common.Logger().With("system", "game"),
	}

	var manager *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: cfg.AppName}); err != nil {
		g.log.Warn("settings storage unavailable, using defaults", "err", err)
	} else {
		manager = m
	}
	g.settings = config.NewSettingsStore(manager)

	tracker, err := loadTracker(cfg)
	if err != nil {
		return nil, err
	}
	g.tracker = tracker
	g.store, _ = openStore(cfg, false)
	if err := restoreUnlocks(tracker, g.store); err != nil {
		g.log.Warn("restore achievements", "err", err)
	}

	musicGain := func() float64 { return g.settings.Get().MusicGain() }
	sfxGain := func() float64 { return g.settings.Get().SFXGain() }

	ai := system.NewAISystem()
	achievements := system.NewAchievementSystem(tracker, g.store)
	g.physics = system.NewPhysicsSystem()
	g.scene = system.NewSceneSystem(cfg.StartLevel, nil, g.physics, achievements, ai)
	g.render = system.NewRenderSystem()
	g.hud = system.NewHUDSystem()

	g.scheduler = ecs.NewScheduler(
		g.scene,
		system.NewInputSystem(func() component.Input { return g.input }),
		system.NewPlayerControllerSystem(),
		system.NewAINavigationSystem(),
		system.NewPathfindingSystem(),
		ai,
		system.NewBossSystem(),
		system.NewTeleportSystem(),
		system.NewClusterRepulsionSystem(),
		g.physics,
		system.NewTrapSystem(),
		system.NewHazardSystem(),
		system.NewProjectileSystem(),
		system.NewCombatSystem(),
		system.NewDamageKnockbackSystem(),
		system.NewInvulnerableSystem(),
		system.NewDeathSystem(),
		system.NewRespawnSystem(),
		system.NewGateSystem(),
		system.NewAudioSystem(sfxGain),
		system.NewPickupHoverSystem(),
		system.NewPickupCollectSystem(),
		system.NewGoalSystem(),
		system.NewCooldownSystem(),
		system.NewAnimationSystem(),
		system.NewWhiteFlashSystem(),
		system.NewTTLSystem(),
		system.NewCameraSystem(),
		system.NewMusicSystem(musicGain, nil),
		achievements,
		g.hud,
		system.NewHitFreezeSystem(func(frames int) { g.freeze = max(g.freeze, frames) }),
	)

	if cfg.HotReload {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			g.log.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}

	g.rebuildPauseUI()
	return g, nil
}

// Err is the scene error, if any, that stopped the loop.
func (g *Game) Err() error { return g.scene.Err() }

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			g.log.Warn("close achievement store", "err", err)
		}
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if err := g.scene.Err(); err != nil {
		return err
	}
	g.frames++
	g.input = system.SampleDevices()
	g.pollHotReload()

	if g.input.PausePressed {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		if g.paused && g.pauseView != g.pauseBuilt {
			g.rebuildPauseUI()
		}
		return nil
	}

	if g.freeze > 0 {
		g.freeze--
		return nil
	}

	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) setPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	g.pauseView = pauseMain
	g.rebuildPauseUI()
}

func (g *Game) pollHotReload() {
	if g.watcher == nil {
		return
	}
	var changed []prefabs.Change
drain:
	for {
		select {
		case batch, ok := <-g.watcher.Batches():
			if !ok {
				g.watcher = nil
				break drain
			}
			changed = append(changed, batch...)
		case err, ok := <-g.watcher.Errors():
			if !ok {
				g.watcher = nil
				break drain
			}
			g.log.Warn("prefab watcher", "err", err)
		default:
			break drain
		}
	}
	if len(changed) == 0 {
		return
	}
	for _, c := range changed {
		g.log.Info("reloading level", "kind", c.Kind, "path", c.Path, "level", g.scene.CurrentLevel())
	}
	e := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, e, component.LevelChangeRequestComponent.Kind(), &component.LevelChangeRequest{Reason: "hot_reload"})
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	g.render.Draw(g.world, screen)
	g.hud.Draw(g.world, screen)

	if g.debug {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		system.DrawStateDebug(g.world, screen)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.1f  TPS %.1f  level %s", ebiten.ActualFPS(), ebiten.ActualTPS(), g.scene.CurrentLevel()), 8, common.BaseHeight-20)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
