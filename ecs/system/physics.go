package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeActorGround
	collisionTypeSolid
)

// Filter categories. Characters only collide with level geometry; fighting
// happens through hitboxes, not body pushes.
const (
	categorySolid uint = 1 << iota
	categoryPlayer
	categoryEnemy
)

const groundGraceFrames = 6

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities    map[ecs.Entity]*bodyInfo
	actorShapes map[*cp.Shape]ecs.Entity
	groundShape map[*cp.Shape]ecs.Entity
	contacts    map[ecs.Entity]*contactState
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	groundShape *cp.Shape
	shapes      []*cp.Shape
	static      bool
}

type contactState struct {
	grounded    bool
	groundGrace int
	wall        int
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:       newSpace(),
		entities:    make(map[ecs.Entity]*bodyInfo),
		actorShapes: make(map[*cp.Shape]ecs.Entity),
		groundShape: make(map[*cp.Shape]ecs.Entity),
		contacts:    make(map[ecs.Entity]*contactState),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Reset drops every body and starts a fresh space. The scene system calls it
// between levels so no shapes leak from the previous layout.
func (ps *PhysicsSystem) Reset() {
	if ps == nil {
		return
	}
	ps.space = newSpace()
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.actorShapes = make(map[*cp.Shape]ecs.Entity)
	ps.groundShape = make(map[*cp.Shape]ecs.Entity)
	ps.contacts = make(map[ecs.Entity]*contactState)
}

// Forget detaches the runtime body pointers from persistent entities after a
// Reset so they are rebuilt in the new space.
func (ps *PhysicsSystem) Forget(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, b *component.PhysicsBody) {
		b.Body = nil
		b.Shape = nil
	})
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.Reset()
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.resetContacts(w)

	ps.space.Step(1.0)

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

func (ps *PhysicsSystem) contact(e ecs.Entity) *contactState {
	st := ps.contacts[e]
	if st == nil {
		st = &contactState{}
		ps.contacts[e] = st
	}
	return st
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	wallHandler := ps.space.NewCollisionHandler(collisionTypeActor, collisionTypeSolid)
	wallHandler.UserData = ps
	wallHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		actor, actorIsA := sys.actorShapes[shapeA]
		if !actorIsA {
			var okB bool
			actor, okB = sys.actorShapes[shapeB]
			if !okB {
				return true
			}
		}

		n := arb.Normal()
		if !actorIsA {
			n = n.Neg()
		}
		st := sys.contact(actor)
		if n.X < -0.5 {
			st.wall = component.WallLeft
		} else if n.X > 0.5 {
			st.wall = component.WallRight
		}
		return true
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypeActorGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		actor, okA := sys.groundShape[shapeA]
		if !okA {
			var okB bool
			actor, okB = sys.groundShape[shapeB]
			if !okB {
				return true
			}
		}

		n := arb.Normal()
		if !okA {
			n = n.Neg()
		}
		// Grounded only when the contact normal points from the actor down
		// into the floor (positive Y is down).
		if n.Y <= 0.5 {
			return true
		}
		st := sys.contact(actor)
		st.grounded = true
		st.groundGrace = groundGraceFrames
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Disabled {
			return
		}
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.mainShape
			return
		}

		info := ps.createBodyInfo(w, e, transform, bodyComp)
		if info == nil {
			return
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
	})
}

func (ps *PhysicsSystem) createBodyInfo(w *ecs.World, e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = common.TileSize, common.TileSize
	}

	topLeftX := transform.X + bodyComp.OffsetX
	topLeftY := transform.Y + bodyComp.OffsetY
	if !bodyComp.AlignTopLeft {
		topLeftX -= width / 2
		topLeftY -= height / 2
	}
	centerX := topLeftX + width/2
	centerY := topLeftY + height/2

	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		bb := cp.BB{L: topLeftX, B: topLeftY, R: topLeftX + width, T: topLeftY + height}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.NewShapeFilter(0, categorySolid, cp.ALL_CATEGORIES))
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	// Characters never rotate.
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(cp.Vector{X: centerX, Y: centerY})

	if gs, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind()); ok {
		scale := gs.Scale
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
		})
	}

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeSolid)

	category := categoryEnemy
	if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		category = categoryPlayer
	}
	shape.SetFilter(cp.NewShapeFilter(0, category, categorySolid))

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if ecs.Has(w, e, component.GroundContactComponent.Kind()) {
		shape.SetCollisionType(collisionTypeActor)
		ps.actorShapes[shape] = e
		if ground := createGroundSensor(width, height, body); ground != nil {
			ground.SetFilter(cp.NewShapeFilter(0, category, categorySolid))
			ps.space.AddShape(ground)
			ps.groundShape[ground] = e
			info.groundShape = ground
			info.shapes = append(info.shapes, ground)
		}
	}

	return info
}

func createGroundSensor(width, height float64, body *cp.Body) *cp.Shape {
	if body == nil || width <= 0 || height <= 0 {
		return nil
	}
	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypeActorGround)
	return groundShape
}

// syncWorldBounds walls off the top and sides of the level. The bottom stays
// open so pits lead to the kill plane.
func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, _ := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	worldW := bounds.Width
	worldH := bounds.Height
	if worldW <= 0 || worldH <= 0 {
		return
	}

	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH + 512}},
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH + 512}},
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.NewShapeFilter(0, categorySolid, cp.ALL_CATEGORIES))
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
	}
	ps.entities[boundsEntity] = info
}

func (ps *PhysicsSystem) resetContacts(w *ecs.World) {
	seen := make(map[ecs.Entity]struct{})
	ecs.ForEach(w, component.GroundContactComponent.Kind(), func(e ecs.Entity, gc *component.GroundContact) {
		seen[e] = struct{}{}
		st := ps.contact(e)
		st.groundGrace = gc.GroundGrace
		if st.groundGrace > 0 {
			st.groundGrace--
		}
		st.grounded = false
		st.wall = component.WallNone
	})
	for e := range ps.contacts {
		if _, ok := seen[e]; !ok {
			delete(ps.contacts, e)
		}
	}
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	for e, st := range ps.contacts {
		gc, ok := ecs.Get(w, e, component.GroundContactComponent.Kind())
		if !ok {
			continue
		}
		gc.Grounded = st.grounded
		gc.GroundGrace = st.groundGrace
		gc.Wall = st.wall
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static || bodyComp.Disabled {
			return
		}
		pos := bodyComp.Body.Position()
		if bodyComp.AlignTopLeft {
			transform.X = pos.X - bodyComp.Width/2.0 - bodyComp.OffsetX
			transform.Y = pos.Y - bodyComp.Height/2.0 - bodyComp.OffsetY
			return
		}
		transform.X = pos.X - facingAdjustedOffsetX(w, e, bodyComp.OffsetX, bodyComp.Width, false)
		transform.Y = pos.Y - bodyComp.OffsetY
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) {
			if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && !b.Disabled {
				continue
			}
			if ecs.Has(w, e, component.LevelBoundsComponent.Kind()) {
				continue
			}
		}

		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.actorShapes, shape)
			delete(ps.groundShape, shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			b.Body = nil
			b.Shape = nil
		}

		delete(ps.entities, e)
		delete(ps.contacts, e)
	}
}

// setEntityVelocity writes the body velocity when the entity has a live
// body. Callers treat a missing body as "skip this frame".
func setEntityVelocity(w *ecs.World, e ecs.Entity, vx, vy float64) bool {
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || b.Body == nil || b.Static {
		return false
	}
	b.Body.SetVelocity(vx, vy)
	return true
}

func entityVelocity(w *ecs.World, e ecs.Entity) (float64, float64) {
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || b.Body == nil {
		return 0, 0
	}
	v := b.Body.Velocity()
	return v.X, v.Y
}

// teleportEntity moves an entity's body centre (or transform when it has no
// body) and zeroes its velocity.
func teleportEntity(w *ecs.World, e ecs.Entity, x, y float64) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || b.AlignTopLeft {
		t.X, t.Y = x, y
		return
	}
	t.X = x - facingAdjustedOffsetX(w, e, b.OffsetX, b.Width, false)
	t.Y = y - b.OffsetY
	if b.Body != nil && !b.Static {
		b.Body.SetPosition(cp.Vector{X: x, Y: y})
		b.Body.SetVelocityVector(cp.Vector{})
	}
}

func staticSolids(w *ecs.World) []aabb {
	var solids []aabb
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.PhysicsBody, t *component.Transform) {
		if !b.Static || b.Disabled {
			return
		}
		if box, ok := bodyAABB(w, e, t, b); ok {
			solids = append(solids, box)
		}
	})
	return solids
}
