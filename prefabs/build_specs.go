package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name plus raw component blocks keyed by the
// component registry name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerComponentSpec struct {
	MoveSpeed            float64 `yaml:"move_speed"`
	AirControl           float64 `yaml:"air_control"`
	JumpSpeed            float64 `yaml:"jump_speed"`
	JumpHoldFrames       int     `yaml:"jump_hold_frames"`
	JumpHoldBoost        float64 `yaml:"jump_hold_boost"`
	MaxFallSpeed         float64 `yaml:"max_fall_speed"`
	CoyoteFrames         int     `yaml:"coyote_frames"`
	JumpBufferFrames     int     `yaml:"jump_buffer_frames"`
	WallSlideSpeed       float64 `yaml:"wall_slide_speed"`
	WallJumpPush         float64 `yaml:"wall_jump_push"`
	WallJumpFrames       int     `yaml:"wall_jump_frames"`
	AttackFrames         int     `yaml:"attack_frames"`
	AirAttackFrames      int     `yaml:"air_attack_frames"`
	AttackCooldown       int     `yaml:"attack_cooldown"`
	ComboMax             int     `yaml:"combo_max"`
	ComboWindow          int     `yaml:"combo_window"`
	HurtStunFrames       int     `yaml:"hurt_stun_frames"`
	InvulnFrames         int     `yaml:"invuln_frames"`
	HitFreezeFrames      int     `yaml:"hit_freeze_frames"`
	DamageShakeFrames    int     `yaml:"damage_shake_frames"`
	DamageShakeIntensity float64 `yaml:"damage_shake_intensity"`
	RespawnDelayFrames   int     `yaml:"respawn_delay_frames"`
}

type AbilitiesComponentSpec struct {
	DoubleJump bool `yaml:"double_jump"`
	WallJump   bool `yaml:"wall_jump"`
}

type PersistentComponentSpec struct {
	ID string `yaml:"id"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image              string     `yaml:"image"`
	UseSource          bool       `yaml:"use_source"`
	OriginX            float64    `yaml:"origin_x"`
	OriginY            float64    `yaml:"origin_y"`
	CenterOriginIfZero bool       `yaml:"center_origin_if_zero"`
	FacingLeft         bool       `yaml:"facing_left"`
	Hidden             bool       `yaml:"hidden"`
	Width              float64    `yaml:"width"`
	Height             float64    `yaml:"height"`
	Color              *YAMLColor `yaml:"color"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type CameraComponentSpec struct {
	TargetName string  `yaml:"target_name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
	LookOffset float64 `yaml:"look_offset"`
	LookSmooth float64 `yaml:"look_smooth"`
}

type HUDComponentSpec struct {
	ToastFrames int `yaml:"toast_frames"`
}

type MusicPlayerComponentSpec struct {
	Tracks map[string]float64 `yaml:"tracks"`
}

type AIComponentSpec struct {
	MoveSpeed    float64 `yaml:"move_speed"`
	PatrolSpeed  float64 `yaml:"patrol_speed"`
	PatrolRadius float64 `yaml:"patrol_radius"`
	FollowRange  float64 `yaml:"follow_range"`
	AttackRange  float64 `yaml:"attack_range"`
	AttackFrames int     `yaml:"attack_frames"`
}

type EngagementComponentSpec struct {
	LeashFactor     float64 `yaml:"leash_factor"`
	DisengageFrames int     `yaml:"disengage_frames"`
}

type FactionComponentSpec struct {
	Team string `yaml:"team"`
}

type AIFSMEmbeddedStateSpec struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

type AIFSMEmbeddedSpec struct {
	Initial     string                            `yaml:"initial"`
	States      map[string]AIFSMEmbeddedStateSpec `yaml:"states"`
	Transitions map[string][]map[string]any       `yaml:"transitions"`
}

type AIConfigComponentSpec struct {
	FSM    string             `yaml:"fsm"`
	Script string             `yaml:"script"`
	Spec   *AIFSMEmbeddedSpec `yaml:"spec"`
}

type AnimationDefComponentSpec struct {
	Row        int     `yaml:"row"`
	ColStart   int     `yaml:"col_start"`
	FrameCount int     `yaml:"frame_count"`
	FrameW     int     `yaml:"frame_w"`
	FrameH     int     `yaml:"frame_h"`
	FPS        float64 `yaml:"fps"`
	Loop       bool    `yaml:"loop"`
}

type AnimationComponentSpec struct {
	Sheet   string                               `yaml:"sheet"`
	Defs    map[string]AnimationDefComponentSpec `yaml:"defs"`
	Current string                               `yaml:"current"`
	Playing *bool                                `yaml:"playing"`
}

type AudioClipSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type AudioComponentSpec struct {
	Clips    []AudioClipSpec `yaml:"clips"`
	Autoplay []string        `yaml:"autoplay"`
}

type PhysicsBodyComponentSpec struct {
	Width              float64 `yaml:"width"`
	Height             float64 `yaml:"height"`
	Mass               float64 `yaml:"mass"`
	Friction           float64 `yaml:"friction"`
	Elasticity         float64 `yaml:"elasticity"`
	Static             bool    `yaml:"static"`
	AlignTopLeft       bool    `yaml:"align_top_left"`
	OffsetX            float64 `yaml:"offset_x"`
	OffsetY            float64 `yaml:"offset_y"`
	ScaleWithTransform bool    `yaml:"scale_with_transform"`
}

type GravityScaleComponentSpec struct {
	Scale float64 `yaml:"scale"`
}

type HazardComponentSpec struct {
	Width              float64 `yaml:"width"`
	Height             float64 `yaml:"height"`
	OffsetX            float64 `yaml:"offset_x"`
	OffsetY            float64 `yaml:"offset_y"`
	Damage             int     `yaml:"damage"`
	Strong             bool    `yaml:"strong"`
	Instakill          bool    `yaml:"instakill"`
	Respawn            bool    `yaml:"respawn"`
	AutoSizeFromSprite bool    `yaml:"auto_size_from_sprite"`
}

type HealthComponentSpec struct {
	Max     int `yaml:"max"`
	Current int `yaml:"current"`
}

type HitboxComponentSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
	Damage   int     `yaml:"damage"`
	Strong   bool    `yaml:"strong"`
	Anim     string  `yaml:"anim"`
	Frames   []int   `yaml:"frames"`
	AlwaysOn bool    `yaml:"always_on"`
}

type HurtboxComponentSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type KnockbackableComponentSpec struct {
	Resist float64 `yaml:"resist"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TeleporterComponentSpec struct {
	Anchors        []PointSpec `yaml:"anchors"`
	Mode           string      `yaml:"mode"`
	CooldownFrames int         `yaml:"cooldown_frames"`
	PanicDistance  float64     `yaml:"panic_distance"`
	BlinkFrames    int         `yaml:"blink_frames"`
	BehindOffset   float64     `yaml:"behind_offset"`
}

type BossPatternSpec struct {
	Name           string           `yaml:"name"`
	CooldownFrames int              `yaml:"cooldown_frames"`
	Actions        []map[string]any `yaml:"actions"`
}

type BossPhaseSpec struct {
	Name        string            `yaml:"name"`
	HPTrigger   float64           `yaml:"hp_trigger"`
	PatternMode string            `yaml:"pattern_mode"`
	OnEnter     []map[string]any  `yaml:"on_enter"`
	Patterns    []BossPatternSpec `yaml:"patterns"`
}

type BossComponentSpec struct {
	DisplayName string          `yaml:"display_name"`
	MusicTrack  string          `yaml:"music_track"`
	EngageRange float64         `yaml:"engage_range"`
	ArenaGroup  string          `yaml:"arena_group"`
	Phases      []BossPhaseSpec `yaml:"phases"`
}

type LootComponentSpec struct {
	Coins int  `yaml:"coins"`
	Heart bool `yaml:"heart"`
}

type PickupComponentSpec struct {
	Kind            string  `yaml:"kind"`
	Amount          int     `yaml:"amount"`
	BobAmplitude    float64 `yaml:"bob_amplitude"`
	BobSpeed        float64 `yaml:"bob_speed"`
	CollisionWidth  float64 `yaml:"collision_width"`
	CollisionHeight float64 `yaml:"collision_height"`
	GrantDoubleJump bool    `yaml:"grant_double_jump"`
	GrantWallJump   bool    `yaml:"grant_wall_jump"`
}

type GateComponentSpec struct {
	Group    string `yaml:"group"`
	Open     bool   `yaml:"open"`
	NeedsKey bool   `yaml:"needs_key"`
}

type GoalComponentSpec struct {
	ID          string  `yaml:"id"`
	NextLevel   string  `yaml:"next_level"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	DelayFrames int     `yaml:"delay_frames"`
}

type TrapCycleComponentSpec struct {
	OnFrames  int `yaml:"on_frames"`
	OffFrames int `yaml:"off_frames"`
	Offset    int `yaml:"offset"`
}

type ArrowTrapComponentSpec struct {
	IntervalFrames int     `yaml:"interval_frames"`
	Speed          float64 `yaml:"speed"`
	DirX           float64 `yaml:"dir_x"`
	DirY           float64 `yaml:"dir_y"`
	Damage         int     `yaml:"damage"`
	LifetimeFrames int     `yaml:"lifetime_frames"`
	Offset         int     `yaml:"offset"`
}

type FallingTrapComponentSpec struct {
	TriggerWidth float64 `yaml:"trigger_width"`
	DelayFrames  int     `yaml:"delay_frames"`
	FallSpeed    float64 `yaml:"fall_speed"`
}

type PathfindingComponentSpec struct {
	GridSize     float64 `yaml:"grid_size"`
	RepathFrames int     `yaml:"repath_frames"`
}

type RepulsionLayerComponentSpec struct {
	Category uint32  `yaml:"category"`
	Mask     uint32  `yaml:"mask"`
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}
