package entity

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/hollowreach/assets"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
	"github.com/milk9111/hollowreach/prefabs"
)

// ClipLoader opens sound clips for audio components. Nil leaves every clip
// silent, which is how tests and headless runs build prefabs.
var ClipLoader func(path string) (*audio.Player, error) = assets.LoadAudioPlayer

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":           addTag(component.PlayerTagComponent),
	"camera_tag":           addTag(component.CameraTagComponent),
	"enemy_tag":            addTag(component.EnemyTagComponent),
	"boss_tag":             addTag(component.BossTagComponent),
	"screen_space":         addTag(component.ScreenSpaceComponent),
	"player":               addPlayer,
	"input":                addTag(component.InputComponent),
	"player_state_machine": addTag(component.PlayerStateMachineComponent),
	"player_combat":        addPlayerCombat,
	"ground_contact":       addTag(component.GroundContactComponent),
	"abilities":            addAbilities,
	"wallet":               addTag(component.WalletComponent),
	"safe_respawn":         addTag(component.SafeRespawnComponent),
	"persistent":           addPersistent,
	"transform":            addTransform,
	"sprite":               addSprite,
	"render_layer":         addRenderLayer,
	"camera":               addCamera,
	"hud":                  addHUD,
	"music_player":         addMusicPlayer,
	"ai":                   addAI,
	"ai_state":             addTag(component.AIStateComponent),
	"ai_context":           addTag(component.AIContextComponent),
	"ai_config":            addAIConfig,
	"ai_navigation":        addTag(component.AINavigationComponent),
	"pathfinding":          addPathfinding,
	"repulsion_layer":      addRepulsionLayer,
	"engagement":           addEngagement,
	"faction":              addFaction,
	"animation":            addAnimation,
	"audio":                addAudio,
	"physics_body":         addPhysicsBody,
	"gravity_scale":        addGravityScale,
	"hazard":               addHazard,
	"health":               addHealth,
	"hitboxes":             addHitboxes,
	"hurtboxes":            addHurtboxes,
	"knockbackable":        addKnockbackable,
	"teleporter":           addTeleporter,
	"boss":                 addBoss,
	"loot":                 addLoot,
	"pickup":               addPickup,
	"gate":                 addGate,
	"goal":                 addGoal,
	"trap_cycle":           addTrapCycle,
	"arrow_trap":           addArrowTrap,
	"falling_trap":         addFallingTrap,
}

// Builders that read other components (physics_body scales with transform,
// hazard sizes from sprite) must come after them.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"enemy_tag",
	"boss_tag",
	"persistent",
	"player",
	"input",
	"player_state_machine",
	"player_combat",
	"ground_contact",
	"abilities",
	"wallet",
	"safe_respawn",
	"transform",
	"sprite",
	"render_layer",
	"screen_space",
	"camera",
	"hud",
	"music_player",
	"faction",
	"ai",
	"ai_state",
	"ai_context",
	"ai_config",
	"ai_navigation",
	"pathfinding",
	"repulsion_layer",
	"engagement",
	"animation",
	"audio",
	"physics_body",
	"gravity_scale",
	"hazard",
	"health",
	"hitboxes",
	"hurtboxes",
	"knockbackable",
	"teleporter",
	"boss",
	"loot",
	"pickup",
	"gate",
	"goal",
	"trap_cycle",
	"arrow_trap",
	"falling_trap",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec adds every component block of spec to a new entity.
// On any error the half-built entity is destroyed.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	apply := func(name string) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, remaining[name], ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
		return nil
	}

	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; !ok {
			continue
		}
		if err := apply(name); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := apply(name); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}

// SetEntityTransform moves a built entity, keeping its scale.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1, Rotation: rotation})
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return nil
}

// addTag builds components whose zero value is the whole configuration.
func addTag[T any](handle component.ComponentHandle[T]) componentBuildFn {
	return func(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
		var zero T
		return ecs.Add(w, e, handle.Kind(), &zero)
	}
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:            spec.MoveSpeed,
		AirControl:           spec.AirControl,
		JumpSpeed:            spec.JumpSpeed,
		JumpHoldFrames:       spec.JumpHoldFrames,
		JumpHoldBoost:        spec.JumpHoldBoost,
		MaxFallSpeed:         spec.MaxFallSpeed,
		CoyoteFrames:         spec.CoyoteFrames,
		JumpBufferFrames:     spec.JumpBufferFrames,
		WallSlideSpeed:       spec.WallSlideSpeed,
		WallJumpPush:         spec.WallJumpPush,
		WallJumpFrames:       spec.WallJumpFrames,
		AttackFrames:         spec.AttackFrames,
		AirAttackFrames:      spec.AirAttackFrames,
		AttackCooldown:       spec.AttackCooldown,
		ComboMax:             spec.ComboMax,
		ComboWindow:          spec.ComboWindow,
		HurtStunFrames:       spec.HurtStunFrames,
		InvulnFrames:         spec.InvulnFrames,
		HitFreezeFrames:      spec.HitFreezeFrames,
		DamageShakeFrames:    spec.DamageShakeFrames,
		DamageShakeIntensity: spec.DamageShakeIntensity,
		RespawnDelayFrames:   spec.RespawnDelayFrames,
	})
}

func addPlayerCombat(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerCombatComponent.Kind(), &component.PlayerCombat{
		CanMove:   true,
		CanAttack: true,
		CanJump:   true,
	})
}

func addAbilities(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AbilitiesComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode abilities spec: %w", err)
	}
	return ecs.Add(w, e, component.AbilitiesComponent.Kind(), &component.Abilities{DoubleJump: spec.DoubleJump, WallJump: spec.WallJump})
}

func addPersistent(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PersistentComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode persistent spec: %w", err)
	}
	if spec.ID == "" {
		spec.ID = ctx.PrefabPath
	}
	return ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{ID: spec.ID})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}

	sprite := component.Sprite{
		UseSource:  spec.UseSource,
		OriginX:    spec.OriginX,
		OriginY:    spec.OriginY,
		FacingLeft: spec.FacingLeft,
		Hidden:     spec.Hidden,
		Width:      spec.Width,
		Height:     spec.Height,
	}
	if spec.Color != nil {
		sprite.Color = spec.Color.Color
	}
	if spec.Image != "" {
		img, err := assets.LoadImage(spec.Image)
		if err != nil {
			return fmt.Errorf("load image %q: %w", spec.Image, err)
		}
		sprite.Image = img
		sprite.Width = float64(img.Bounds().Dx())
		sprite.Height = float64(img.Bounds().Dy())
	}
	if sprite.OriginX == 0 && sprite.OriginY == 0 && spec.CenterOriginIfZero {
		sprite.OriginX = sprite.Width / 2
		sprite.OriginY = sprite.Height / 2
	}

	return ecs.Add(w, e, component.SpriteComponent.Kind(), &sprite)
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Smoothness == 0 {
		spec.Smoothness = 0.15
	}
	if spec.LookOffset == 0 {
		spec.LookOffset = 48
	}
	if spec.LookSmooth == 0 {
		spec.LookSmooth = 0.15
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		TargetName: spec.TargetName,
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
		LookOffset: spec.LookOffset,
		LookSmooth: spec.LookSmooth,
	})
}

func addHUD(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HUDComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hud spec: %w", err)
	}
	return ecs.Add(w, e, component.HUDComponent.Kind(), &component.HUD{ToastFrames: spec.ToastFrames})
}

func addMusicPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MusicPlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode music player spec: %w", err)
	}
	volumes := make(map[string]float64, len(spec.Tracks))
	for track, v := range spec.Tracks {
		volumes[track] = v
	}
	return ecs.Add(w, e, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
		Players:      map[string]component.Sound{},
		TrackVolumes: volumes,
		Gain:         1,
	})
}

func addFaction(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FactionComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode faction spec: %w", err)
	}
	return ecs.Add(w, e, component.FactionComponent.Kind(), &component.Faction{Team: component.ParseTeam(spec.Team)})
}

func addAnimation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AnimationComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}

	anim := &component.Animation{
		Defs:    make(map[string]component.AnimationDef, len(spec.Defs)),
		Current: spec.Current,
		Playing: true,
	}
	if spec.Playing != nil {
		anim.Playing = *spec.Playing
	}
	if spec.Sheet != "" {
		sheet, err := assets.LoadImage(spec.Sheet)
		if err != nil {
			return fmt.Errorf("load animation sheet %q: %w", spec.Sheet, err)
		}
		anim.Sheet = sheet
	}
	for name, def := range spec.Defs {
		anim.Defs[name] = component.AnimationDef{
			Name:       name,
			Row:        def.Row,
			ColStart:   def.ColStart,
			FrameCount: def.FrameCount,
			FrameW:     def.FrameW,
			FrameH:     def.FrameH,
			FPS:        def.FPS,
			Loop:       def.Loop,
		}
	}
	return ecs.Add(w, e, component.AnimationComponent.Kind(), anim)
}

func addAudio(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AudioComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio spec: %w", err)
	}
	if len(spec.Clips) == 0 {
		return nil
	}
	comp := buildAudioComponent(spec.Clips)
	for _, name := range spec.Autoplay {
		comp.Request(name)
	}
	return ecs.Add(w, e, component.AudioComponent.Kind(), comp)
}

// buildAudioComponent keeps a slot for every clip. A clip that fails to load
// stays silent rather than failing the prefab.
func buildAudioComponent(clips []prefabs.AudioClipSpec) *component.Audio {
	n := len(clips)
	comp := &component.Audio{
		Names:   make([]string, 0, n),
		Players: make([]component.Sound, 0, n),
		Volume:  make([]float64, 0, n),
		Play:    make([]bool, n),
		Stop:    make([]bool, n),
	}
	for _, clip := range clips {
		var player component.Sound
		if ClipLoader != nil && clip.File != "" {
			p, err := ClipLoader(clip.File)
			if err != nil {
				common.Logger().Warn("load audio clip", "clip", clip.Name, "file", clip.File, "err", err)
			} else {
				player = p
			}
		}
		volume := clip.Volume
		if volume <= 0 {
			volume = 1
		}
		comp.Names = append(comp.Names, clip.Name)
		comp.Players = append(comp.Players, player)
		comp.Volume = append(comp.Volume, volume)
	}
	return comp
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	width, height := spec.Width, spec.Height
	if spec.ScaleWithTransform {
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			width *= tr.ScaleX
			height *= tr.ScaleY
		}
	}
	if width <= 0 {
		width = common.TileSize
	}
	if height <= 0 {
		height = common.TileSize
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:        width,
		Height:       height,
		Mass:         spec.Mass,
		Friction:     spec.Friction,
		Elasticity:   spec.Elasticity,
		Static:       spec.Static,
		AlignTopLeft: spec.AlignTopLeft,
		OffsetX:      spec.OffsetX,
		OffsetY:      spec.OffsetY,
	})
}

func addGravityScale(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GravityScaleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode gravity scale spec: %w", err)
	}
	return ecs.Add(w, e, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: spec.Scale})
}

func addHazard(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HazardComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hazard spec: %w", err)
	}
	width, height := spec.Width, spec.Height
	if (width <= 0 || height <= 0) && spec.AutoSizeFromSprite {
		if s, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			if width <= 0 {
				width = s.Width
			}
			if height <= 0 {
				height = s.Height
			}
		}
	}
	if width <= 0 {
		width = common.TileSize
	}
	if height <= 0 {
		height = common.TileSize
	}
	damage := spec.Damage
	if damage <= 0 && !spec.Instakill {
		damage = 1
	}
	return ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{
		Width:     width,
		Height:    height,
		OffsetX:   spec.OffsetX,
		OffsetY:   spec.OffsetY,
		Damage:    damage,
		Strong:    spec.Strong,
		Instakill: spec.Instakill,
		Respawn:   spec.Respawn,
	})
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max <= 0 {
		spec.Max = 1
	}
	if spec.Current <= 0 {
		spec.Current = spec.Max
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Max: spec.Max, Current: spec.Current})
}

func addHitboxes(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[[]prefabs.HitboxComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hitbox spec: %w", err)
	}
	if len(spec) == 0 {
		return nil
	}
	sx, sy := transformScale(w, e)
	out := make([]component.Hitbox, 0, len(spec))
	for _, hb := range spec {
		damage := hb.Damage
		if damage <= 0 {
			damage = 1
		}
		out = append(out, component.Hitbox{
			Width:    hb.Width * sx,
			Height:   hb.Height * sy,
			OffsetX:  hb.OffsetX,
			OffsetY:  hb.OffsetY,
			Damage:   damage,
			Strong:   hb.Strong,
			Anim:     hb.Anim,
			Frames:   hb.Frames,
			AlwaysOn: hb.AlwaysOn,
		})
	}
	return ecs.Add(w, e, component.HitboxComponent.Kind(), &out)
}

func addHurtboxes(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[[]prefabs.HurtboxComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hurtbox spec: %w", err)
	}
	if len(spec) == 0 {
		return nil
	}
	sx, sy := transformScale(w, e)
	out := make([]component.Hurtbox, 0, len(spec))
	for _, hb := range spec {
		out = append(out, component.Hurtbox{
			Width:   hb.Width * sx,
			Height:  hb.Height * sy,
			OffsetX: hb.OffsetX,
			OffsetY: hb.OffsetY,
		})
	}
	return ecs.Add(w, e, component.HurtboxComponent.Kind(), &out)
}

func transformScale(w *ecs.World, e ecs.Entity) (float64, float64) {
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return tr.ScaleX, tr.ScaleY
	}
	return 1, 1
}

func addKnockbackable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.KnockbackableComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode knockbackable spec: %w", err)
	}
	return ecs.Add(w, e, component.KnockbackableComponent.Kind(), &component.Knockbackable{Resist: spec.Resist})
}
