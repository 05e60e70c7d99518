package system

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slingshot/ecs"
	"github.com/milk9111/slingshot/ecs/component"
)

const collisionTypeBody cp.CollisionType = 1

// Gravity in px/frame², the pull the levels are tuned against.
const Gravity = 0.28

// MotionMode selects how a body integrates velocity.
type MotionMode uint8

const (
	// MotionNormal applies gravity and the body's own air drag.
	MotionNormal MotionMode = iota
	// MotionBallistic ignores gravity and drag entirely.
	MotionBallistic
)

// Contact is a collision-start event between two registered bodies. Impact is
// the magnitude of their relative velocity when the contact began.
type Contact struct {
	A, B   ecs.Entity
	Impact float64
	X, Y   float64
}

type PhysicsSystem struct {
	space         *cp.Space
	gravity       float64
	frames        float64
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	bodies   map[*cp.Body]ecs.Entity
	contacts ecs.EventQueue[Contact]
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	area   float64
	drag   float64
	motion MotionMode
}

func NewPhysicsSystem(gravity float64) *PhysicsSystem {
	ps := &PhysicsSystem{gravity: gravity, frames: 1}
	ps.Reset()
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// SetFrames sets how many 60Hz frames the next Update advances.
func (ps *PhysicsSystem) SetFrames(frames float64) {
	if frames <= 0 {
		return
	}
	ps.frames = frames
}

// Reset drops the whole space, every side-table entry and any undrained
// contacts, leaving a fresh empty space.
func (ps *PhysicsSystem) Reset() {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: ps.gravity})

	ps.space = space
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.bodies = make(map[*cp.Body]ecs.Entity)
	ps.contacts.Clear()
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)

	ps.space.Step(ps.frames)

	ps.syncTransforms(w)
}

// Contacts drains the collision-start events captured by the last steps.
func (ps *PhysicsSystem) Contacts() []Contact {
	return ps.contacts.Drain()
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = ps
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		bodyA, bodyB := arb.Bodies()
		a, okA := sys.bodies[bodyA]
		b, okB := sys.bodies[bodyB]
		if !okA || !okB {
			return true
		}

		rel := bodyA.Velocity().Sub(bodyB.Velocity())
		contact := Contact{A: a, B: b, Impact: rel.Length()}
		if set := arb.ContactPointSet(); set.Count > 0 {
			contact.X = set.Points[0].PointA.X
			contact.Y = set.Points[0].PointA.Y
		}
		sys.contacts.Push(contact)
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if _, ok := ps.entities[e]; ok {
			return
		}
		ps.createBody(e, bodyComp, transform)
	})
}

// Build creates the body for e immediately instead of waiting for the next
// Update, so constraints can be attached to it straight away.
func (ps *PhysicsSystem) Build(w *ecs.World, e ecs.Entity) *cp.Body {
	if info, ok := ps.entities[e]; ok {
		return info.body
	}
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return nil
	}
	transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	info := ps.createBody(e, bodyComp, transform)
	if info == nil {
		return nil
	}
	return info.body
}

func (ps *PhysicsSystem) createBody(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) *bodyInfo {
	if bodyComp.Circle && bodyComp.Radius <= 0 {
		panic("physics system: circle collider needs a positive radius")
	}
	if !bodyComp.Circle && (bodyComp.Width <= 0 || bodyComp.Height <= 0) {
		panic("physics system: box collider needs a positive size")
	}

	info := &bodyInfo{area: bodyComp.Area(), drag: bodyComp.Drag}

	var body *cp.Body
	if bodyComp.Static {
		body = cp.NewStaticBody()
	} else {
		mass := bodyComp.Density * info.area
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, moment(bodyComp, mass))
		body.SetVelocityUpdateFunc(ps.velocityFunc(info))
	}
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(bodyComp.Angle)

	var shape *cp.Shape
	if bodyComp.Circle {
		shape = cp.NewCircle(body, bodyComp.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, bodyComp.Width, bodyComp.Height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeBody)
	shape.SetSensor(bodyComp.Sensor)
	shape.SetFilter(filterFor(bodyComp))

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shape = shape
	ps.entities[e] = info
	ps.bodies[body] = e

	bodyComp.Body = body
	bodyComp.Shape = shape
	return info
}

func moment(bodyComp *component.PhysicsBody, mass float64) float64 {
	if bodyComp.Circle {
		return cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{})
	}
	return cp.MomentForBox(mass, bodyComp.Width, bodyComp.Height)
}

func filterFor(bodyComp *component.PhysicsBody) cp.ShapeFilter {
	category := bodyComp.Category
	if category == 0 {
		category = component.CategoryDefault
	}
	mask := bodyComp.Mask
	switch {
	case bodyComp.NoCollide:
		mask = 0
	case mask == 0:
		mask = cp.ALL_CATEGORIES
	}
	return cp.NewShapeFilter(cp.NO_GROUP, category, mask)
}

func (ps *PhysicsSystem) velocityFunc(info *bodyInfo) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		if info.motion == MotionBallistic {
			cp.BodyUpdateVelocity(body, cp.Vector{}, 1, dt)
			return
		}
		if info.drag > 0 {
			damping *= math.Pow(1-info.drag, dt)
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

// cleanupEntities removes bodies whose entity died or lost its collider.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e := range ps.entities {
		if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.remove(e)
	}
}

// Remove takes e's body out of the space right away.
func (ps *PhysicsSystem) Remove(w *ecs.World, e ecs.Entity) {
	ps.remove(e)
	if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		bodyComp.Body = nil
		bodyComp.Shape = nil
	}
}

func (ps *PhysicsSystem) remove(e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	body := info.body
	var constraints []*cp.Constraint
	body.EachConstraint(func(c *cp.Constraint) {
		constraints = append(constraints, c)
	})
	for _, c := range constraints {
		ps.Detach(c)
	}
	if info.shape != nil && ps.space.ContainsShape(info.shape) {
		ps.space.RemoveShape(info.shape)
	}
	if ps.space.ContainsBody(body) {
		ps.space.RemoveBody(body)
	}
	delete(ps.bodies, body)
	delete(ps.entities, e)
}

// EntityOf resolves a body back to its entity through the side table.
func (ps *PhysicsSystem) EntityOf(body *cp.Body) (ecs.Entity, bool) {
	e, ok := ps.bodies[body]
	return e, ok
}

func (ps *PhysicsSystem) Body(e ecs.Entity) *cp.Body {
	if info, ok := ps.entities[e]; ok {
		return info.body
	}
	return nil
}

func (ps *PhysicsSystem) Contains(e ecs.Entity) bool {
	_, ok := ps.entities[e]
	return ok
}

func (ps *PhysicsSystem) BodyCount() int {
	return len(ps.entities)
}

// AttachSpring binds body to a fixed world point with a damped spring.
// Stiffness and damping are per unit mass so tuning holds across densities.
func (ps *PhysicsSystem) AttachSpring(body *cp.Body, x, y, restLength, stiffness, damping float64) *cp.Constraint {
	if body == nil {
		return nil
	}
	mass := body.Mass()
	spring := cp.NewDampedSpring(ps.space.StaticBody, body, cp.Vector{X: x, Y: y}, cp.Vector{}, restLength, stiffness*mass, damping*mass)
	return ps.space.AddConstraint(spring)
}

// Link joins two bodies with a damped spring between local anchors. The rest
// length is the anchors' current distance.
func (ps *PhysicsSystem) Link(a, b *cp.Body, anchorA, anchorB cp.Vector, stiffness, damping float64) *cp.Constraint {
	if a == nil || b == nil {
		panic("physics system: link between missing bodies")
	}
	rest := a.LocalToWorld(anchorA).Distance(b.LocalToWorld(anchorB))
	mass := b.Mass()
	if b.GetType() == cp.BODY_STATIC {
		mass = a.Mass()
	}
	spring := cp.NewDampedSpring(a, b, anchorA, anchorB, rest, stiffness*mass, damping*mass)
	return ps.space.AddConstraint(spring)
}

func (ps *PhysicsSystem) Detach(c *cp.Constraint) {
	if c == nil || !ps.space.ContainsConstraint(c) {
		return
	}
	ps.space.RemoveConstraint(c)
}

// SetGhost makes e collision-transparent: ghost category, empty mask.
func (ps *PhysicsSystem) SetGhost(w *ecs.World, e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	info.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, component.CategoryGhost, 0))
	if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		bodyComp.Category = component.CategoryGhost
		bodyComp.Mask = 0
		bodyComp.NoCollide = true
	}
}

// SetMask keeps e's category and replaces what it collides with.
func (ps *PhysicsSystem) SetMask(w *ecs.World, e ecs.Entity, mask uint) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	filter := info.shape.Filter
	filter.Mask = mask
	info.shape.SetFilter(filter)
	if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		bodyComp.Mask = mask
	}
}

// Freeze turns e's body static in place.
func (ps *PhysicsSystem) Freeze(w *ecs.World, e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	info.body.SetType(cp.BODY_STATIC)
	if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		bodyComp.Static = true
	}
}

func (ps *PhysicsSystem) SetMotion(e ecs.Entity, mode MotionMode, drag float64) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	info.motion = mode
	info.drag = drag
}

func (ps *PhysicsSystem) Motion(e ecs.Entity) (MotionMode, float64) {
	info, ok := ps.entities[e]
	if !ok {
		return MotionNormal, 0
	}
	return info.motion, info.drag
}

// SetDensity rescales e's mass and moment to the new density.
func (ps *PhysicsSystem) SetDensity(w *ecs.World, e ecs.Entity, density float64) {
	info, ok := ps.entities[e]
	if !ok || info.body.GetType() != cp.BODY_DYNAMIC || density <= 0 {
		return
	}
	mass := density * info.area
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	bodyComp.Density = density
	info.body.SetMass(mass)
	info.body.SetMoment(moment(bodyComp, mass))
}

func (ps *PhysicsSystem) Position(e ecs.Entity) (float64, float64, bool) {
	info, ok := ps.entities[e]
	if !ok {
		return 0, 0, false
	}
	p := info.body.Position()
	return p.X, p.Y, true
}

func (ps *PhysicsSystem) SetPosition(e ecs.Entity, x, y float64) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	info.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (ps *PhysicsSystem) Velocity(e ecs.Entity) (float64, float64, bool) {
	info, ok := ps.entities[e]
	if !ok {
		return 0, 0, false
	}
	v := info.body.Velocity()
	return v.X, v.Y, true
}

func (ps *PhysicsSystem) SetVelocity(e ecs.Entity, vx, vy float64) {
	info, ok := ps.entities[e]
	if !ok || info.body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	info.body.SetVelocity(vx, vy)
}

func (ps *PhysicsSystem) ApplyImpulse(e ecs.Entity, ix, iy float64) {
	info, ok := ps.entities[e]
	if !ok || info.body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	info.body.ApplyImpulseAtWorldPoint(cp.Vector{X: ix, Y: iy}, info.body.Position())
}

// Within returns the entities whose body centre lies closer than radius to
// (x, y), ordered by entity for a stable iteration order.
func (ps *PhysicsSystem) Within(x, y, radius float64) []ecs.Entity {
	centre := cp.Vector{X: x, Y: y}
	var out []ecs.Entity
	for e, info := range ps.entities {
		if info.body.Position().Distance(centre) < radius {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
