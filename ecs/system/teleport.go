package system

import (
	"math"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	defaultBlinkFrames  = 20
	defaultBehindOffset = 72.0
)

// TeleportSystem runs the blink of Teleporter entities. A blink starts when
// an action requested it or the player crossed PanicDistance, and only while
// the cooldown is zero. The entity is invulnerable and flashing until the
// blink ends, then it appears at the chosen destination.
type TeleportSystem struct{}

func NewTeleportSystem() *TeleportSystem { return &TeleportSystem{} }

func requestTeleport(w *ecs.World, e ecs.Entity, mode component.TeleportMode) {
	tp, ok := ecs.Get(w, e, component.TeleporterComponent.Kind())
	if !ok {
		return
	}
	tp.Requested = true
	tp.RequestMode = mode
}

func (s *TeleportSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	px, py, playerFound := playerPosition(w)
	playerFacingLeft := false
	if p, ok := playerEntity(w); ok {
		playerFacingLeft = entityFacingLeft(w, p)
	}

	ecs.ForEach2(w, component.TeleporterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tp *component.Teleporter, _ *component.Transform) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead() {
			tp.Blink = 0
			tp.Requested = false
			return
		}

		if tp.Blink > 0 {
			setEntityVelocity(w, e, 0, 0)
			tp.Blink--
			if tp.Blink == 0 {
				s.arrive(w, e, tp, px, playerFound)
			}
			return
		}

		if tp.Cooldown > 0 {
			tp.Cooldown--
			tp.Requested = false
			return
		}

		ex, ey, _ := entityPosition(w, e)
		panicking := playerFound && tp.PanicDistance > 0 && math.Hypot(px-ex, py-ey) < tp.PanicDistance
		if !tp.Requested && !panicking {
			return
		}

		mode := tp.Mode
		if tp.Requested && tp.RequestMode != "" {
			mode = tp.RequestMode
		}
		tp.Requested = false
		tp.RequestMode = ""

		dest, ok := chooseTeleportDestination(tp, mode, component.Point{X: ex, Y: ey}, component.Point{X: px, Y: py}, playerFound, playerFacingLeft)
		if !ok {
			return
		}
		tp.DestX, tp.DestY = dest.X, dest.Y

		blink := tp.BlinkFrames
		if blink <= 0 {
			blink = defaultBlinkFrames
		}
		tp.Blink = blink
		grantInvulnerable(w, e, blink+1)
		addWhiteFlash(w, e, blink, 2)
		playSound(w, e, "teleport")
		enqueueAIEvent(w, e, "teleport_started")
	})
}

func (s *TeleportSystem) arrive(w *ecs.World, e ecs.Entity, tp *component.Teleporter, px float64, playerFound bool) {
	teleportEntity(w, e, tp.DestX, tp.DestY)
	if playerFound {
		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			sprite.FacingLeft = px < tp.DestX
		}
	}
	tp.Cooldown = tp.CooldownFrames
	enqueueAIEvent(w, e, "teleport_finished")
	EmitGameEvent(w, "enemy_teleported")
}

// chooseTeleportDestination picks where a blink lands. Anchor modes skip the
// anchor the entity is standing on; behind_player lands on the side the
// player is not facing.
func chooseTeleportDestination(tp *component.Teleporter, mode component.TeleportMode, self, player component.Point, playerFound, playerFacingLeft bool) (component.Point, bool) {
	if mode == component.TeleportBehindPlayer {
		if !playerFound {
			mode = component.TeleportFarthest
		} else {
			offset := tp.BehindOffset
			if offset <= 0 {
				offset = defaultBehindOffset
			}
			if playerFacingLeft {
				return component.Point{X: player.X + offset, Y: player.Y}, true
			}
			return component.Point{X: player.X - offset, Y: player.Y}, true
		}
	}

	candidates := make([]component.Point, 0, len(tp.Anchors))
	for _, a := range tp.Anchors {
		if math.Hypot(a.X-self.X, a.Y-self.Y) < 1 {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return component.Point{}, false
	}

	if mode == component.TeleportRandom {
		return candidates[nextRand(&tp.Seed)%uint32(len(candidates))], true
	}

	ref := player
	if !playerFound {
		ref = self
	}
	best := candidates[0]
	bestDist := -1.0
	for _, c := range candidates {
		if d := math.Hypot(c.X-ref.X, c.Y-ref.Y); d > bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}
