package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

func TestProjectileHitsHostileTarget(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 40, 0)
	add(t, w, player, component.HurtboxComponent, centredHurtbox(20))
	archer := spawnEnemy(t, w, 0, 0, component.AI{})
	shot := spawnProjectile(w, projectileSpawn{x: 0, y: 0, vx: 10, damage: 2, team: component.TeamEnemy, owner: archer})
	sys := NewProjectileSystem()

	updateN(w, 2, sys)
	assert.True(t, ecs.IsAlive(w, shot), "still in flight")
	sys.Update(w)
	assert.Equal(t, 3, playerHealth(w, player))
	assert.False(t, ecs.IsAlive(w, shot))

	hit, ok := ecs.Get(w, archer, component.HitEventComponent.Kind())
	require.True(t, ok, "the owner is credited")
	assert.Equal(t, uint64(player), hit.Target)
}

func TestProjectileStopsOnWallsAndIgnoresAllies(t *testing.T) {
	w := ecs.NewWorld()
	ally := spawnEnemy(t, w, 20, 0, component.AI{})
	add(t, w, ally, component.HurtboxComponent, centredHurtbox(20))
	wall := ecs.CreateEntity(w)
	add(t, w, wall, component.TransformComponent, &component.Transform{X: 50, Y: -50})
	add(t, w, wall, component.PhysicsBodyComponent, &component.PhysicsBody{Width: 20, Height: 100, Static: true, AlignTopLeft: true})
	shot := spawnProjectile(w, projectileSpawn{vx: 10, damage: 1, team: component.TeamEnemy})
	sys := NewProjectileSystem()

	updateN(w, 3, sys)
	h, _ := ecs.Get(w, ally, component.HealthComponent.Kind())
	assert.Equal(t, 3, h.Current)
	assert.True(t, ecs.IsAlive(w, shot))

	updateN(w, 2, sys)
	assert.False(t, ecs.IsAlive(w, shot))
}

func TestGoalRequestsNextLevel(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	input := add(t, w, player, component.InputComponent, &component.Input{})
	goalEnt := ecs.CreateEntity(w)
	add(t, w, goalEnt, component.TransformComponent, &component.Transform{X: 5, Y: -10})
	goal := add(t, w, goalEnt, component.GoalComponent, &component.Goal{NextLevel: "two", DelayFrames: 2})
	sys := NewGoalSystem()

	sys.Update(w)
	require.True(t, goal.Reached)
	assert.True(t, input.Disabled)
	events := drainGameEvents(w)
	assert.Contains(t, events, "level_complete")
	assert.NotContains(t, events, "game_complete")

	sys.Update(w)
	assert.False(t, ecs.Has(w, goalEnt, component.LevelChangeRequestComponent.Kind()))
	sys.Update(w)
	req, ok := ecs.Get(w, goalEnt, component.LevelChangeRequestComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "two", req.TargetLevel)
	assert.Equal(t, "goal", req.Reason)
}

func TestFinalGoalShowsBanner(t *testing.T) {
	w := ecs.NewWorld()
	spawnPlayer(t, w, 0, 0)
	hud := spawnHUD(t, w)
	goalEnt := ecs.CreateEntity(w)
	add(t, w, goalEnt, component.TransformComponent, &component.Transform{X: -5, Y: -5})
	add(t, w, goalEnt, component.GoalComponent, &component.Goal{})
	sys := NewGoalSystem()

	sys.Update(w)
	assert.Contains(t, drainGameEvents(w), "game_complete")
	assert.NotEmpty(t, hud.Banner)

	updateN(w, defaultGoalDelayFrames+1, sys)
	assert.Zero(t, ecs.Count(w, component.LevelChangeRequestComponent.Kind()))
}

func TestHUDQueuesToastsAndTracksBoss(t *testing.T) {
	w := ecs.NewWorld()
	hud := spawnHUD(t, w)
	hud.ToastFrames = 2
	hud.Toasts = []component.Toast{{Title: "a"}, {Title: "b"}}
	b := spawnBoss(t, w, 0, component.BossPhase{HPTrigger: 1})
	sys := NewHUDSystem()

	sys.Update(w)
	require.NotNil(t, hud.Current)
	assert.Equal(t, "a", hud.Current.Title)
	assert.False(t, hud.BossVisible, "boss not engaged yet")

	b.runtime.Initialized = true
	b.health.Current = 25
	sys.Update(w)
	assert.Equal(t, "a", hud.Current.Title)
	assert.True(t, hud.BossVisible)
	assert.Equal(t, "Warden", hud.BossName)
	assert.Equal(t, 0.25, hud.BossFraction)

	sys.Update(w)
	assert.Equal(t, "b", hud.Current.Title)
	updateN(w, 2, sys)
	assert.Nil(t, hud.Current)

	b.runtime.Defeated = true
	sys.Update(w)
	assert.False(t, hud.BossVisible)
}

func TestInvulnerabilityWindows(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	grantInvulnerable(w, e, 3)
	grantInvulnerable(w, e, 1)
	inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3, inv.Frames, "never shortened")

	sys := NewInvulnerableSystem()
	updateN(w, 3, sys)
	assert.False(t, ecs.Has(w, e, component.InvulnerableComponent.Kind()))

	held := ecs.CreateEntity(w)
	add(t, w, held, component.InvulnerableComponent, &component.Invulnerable{})
	grantInvulnerable(w, held, 5)
	updateN(w, 10, sys)
	inv, ok = ecs.Get(w, held, component.InvulnerableComponent.Kind())
	require.True(t, ok)
	assert.Zero(t, inv.Frames, "held until removed")
}

func TestWhiteFlashBlinksThenClears(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	addWhiteFlash(w, e, 4, 2)
	wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind())
	require.True(t, ok)
	require.True(t, wf.On)
	sys := NewWhiteFlashSystem()

	updateN(w, 2, sys)
	assert.False(t, wf.On)
	updateN(w, 2, sys)
	assert.False(t, ecs.Has(w, e, component.WhiteFlashComponent.Kind()))
}

func TestDamageKnockbackPushesAwayFromSource(t *testing.T) {
	w := ecs.NewWorld()
	player := spawnPlayer(t, w, 0, 0)
	body := withBody(t, w, player, 0, 0)
	body.SetVelocity(-3, 0)
	add(t, w, player, component.KnockbackableComponent, &component.Knockbackable{})
	add(t, w, player, component.DamageKnockbackRequestComponent, &component.DamageKnockback{SourceX: -10})

	NewDamageKnockbackSystem().Update(w)
	v := body.Velocity()
	assert.Greater(t, v.X, 0.0, "running into the hit does not cancel it")
	assert.Less(t, v.Y, 0.0, "small hop")
	assert.False(t, ecs.Has(w, player, component.DamageKnockbackRequestComponent.Kind()))

	enemy := spawnEnemy(t, w, 0, 0, component.AI{})
	heavy := withBody(t, w, enemy, 0, 0)
	add(t, w, enemy, component.KnockbackableComponent, &component.Knockbackable{Resist: 1})
	add(t, w, enemy, component.DamageKnockbackRequestComponent, &component.DamageKnockback{SourceX: -10, Strong: true})
	NewDamageKnockbackSystem().Update(w)
	assert.Zero(t, heavy.Velocity().X, "full resist")
}
