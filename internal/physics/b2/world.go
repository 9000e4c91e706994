// Package b2 implements physics.World on top of the Box2D port
// github.com/ByteArena/box2d.
package b2

import (
	"sync"

	"github.com/ByteArena/box2d"

	"github.com/san-kum/physbox/internal/physics"
)

// queryExtent is the half-size of the box used to find fixtures under a point.
const queryExtent = 0.001

// engineMu serialises the engine calls that touch box2d's package-level
// state: the lazily built contact registers and the GJK and TOI counters.
// Worlds stepped from different goroutines share it.
var engineMu sync.Mutex

type World struct {
	w *box2d.B2World

	nextID   uint64
	bodies   map[physics.BodyID]*box2d.B2Body
	bodyIDs  map[*box2d.B2Body]physics.BodyID
	order    []physics.BodyID
	shapes   map[physics.BodyID][]physics.Shape
	fixtures map[*box2d.B2Fixture]physics.FixtureID
	joints   map[physics.JointID]box2d.B2JointInterface
	jointIDs map[box2d.B2JointInterface]physics.JointID

	contacts    physics.ContactListener
	destruction physics.DestructionListener
}

func NewWorld(gravity physics.Vec2) *World {
	bw := box2d.MakeB2World(vec(gravity))
	w := &World{
		w:        &bw,
		bodies:   make(map[physics.BodyID]*box2d.B2Body),
		bodyIDs:  make(map[*box2d.B2Body]physics.BodyID),
		shapes:   make(map[physics.BodyID][]physics.Shape),
		fixtures: make(map[*box2d.B2Fixture]physics.FixtureID),
		joints:   make(map[physics.JointID]box2d.B2JointInterface),
		jointIDs: make(map[box2d.B2JointInterface]physics.JointID),
	}
	w.w.SetContactListener(&contactBridge{w: w})
	w.w.SetDestructionListener(&destructionBridge{w: w})
	return w
}

func vec(v physics.Vec2) box2d.B2Vec2 { return box2d.MakeB2Vec2(v.X, v.Y) }

func unvec(v box2d.B2Vec2) physics.Vec2 { return physics.Vec2{X: v.X, Y: v.Y} }

func (w *World) id() uint64 {
	w.nextID++
	return w.nextID
}

// Step must not be called from a listener callback.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	engineMu.Lock()
	defer engineMu.Unlock()
	w.w.Step(dt, velocityIterations, positionIterations)
}

func (w *World) SetFlags(f physics.Flags) {
	w.w.SetAllowSleeping(f.AllowSleeping)
	w.w.M_warmStarting = f.WarmStarting
	w.w.M_continuousPhysics = f.Continuous
	w.w.M_subStepping = f.SubStepping
}

func (w *World) Profile() physics.Profile {
	p := w.w.GetProfile()
	return physics.Profile{
		Step:          p.Step,
		Collide:       p.Collide,
		Solve:         p.Solve,
		SolveInit:     p.SolveInit,
		SolveVelocity: p.SolveVelocity,
		SolvePosition: p.SolvePosition,
		Broadphase:    p.Broadphase,
		SolveTOI:      p.SolveTOI,
	}
}

func bodyType(t physics.BodyType) uint8 {
	switch t {
	case physics.DynamicBody:
		return box2d.B2BodyType.B2_dynamicBody
	case physics.KinematicBody:
		return box2d.B2BodyType.B2_kinematicBody
	default:
		return box2d.B2BodyType.B2_staticBody
	}
}

func (w *World) CreateBody(def physics.BodyDef) physics.BodyID {
	engineMu.Lock()
	defer engineMu.Unlock()

	bd := box2d.MakeB2BodyDef()
	bd.Type = bodyType(def.Type)
	bd.Position = vec(def.Position)
	bd.Angle = def.Angle
	bd.LinearVelocity = vec(def.LinearVelocity)
	bd.Bullet = def.Bullet

	body := w.w.CreateBody(&bd)
	body.SetUserData(def.UserData)

	id := physics.BodyID(w.id())
	for _, fd := range def.Fixtures {
		fix := w.createFixture(body, fd)
		w.fixtures[fix] = physics.FixtureID(w.id())
		w.shapes[id] = append(w.shapes[id], fd.Shape)
	}

	w.bodies[id] = body
	w.bodyIDs[body] = id
	w.order = append(w.order, id)
	return id
}

func (w *World) createFixture(body *box2d.B2Body, fd physics.FixtureDef) *box2d.B2Fixture {
	def := box2d.MakeB2FixtureDef()
	def.Density = fd.Density
	def.Friction = fd.Friction
	def.Restitution = fd.Restitution

	switch fd.Shape.Kind {
	case physics.CircleShape:
		shape := box2d.MakeB2CircleShape()
		shape.M_radius = fd.Shape.Radius
		def.Shape = &shape
	case physics.BoxShape:
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBox(fd.Shape.HalfWidth, fd.Shape.HalfHeight)
		def.Shape = &shape
	default:
		shape := box2d.MakeB2EdgeShape()
		shape.Set(vec(fd.Shape.V1), vec(fd.Shape.V2))
		def.Shape = &shape
	}
	return body.CreateFixtureFromDef(&def)
}

// DestroyBody destroys a body. Box2D reports the attached joints and
// fixtures through the destruction bridge before the body is gone.
func (w *World) DestroyBody(id physics.BodyID) {
	body, ok := w.bodies[id]
	if !ok {
		return
	}
	engineMu.Lock()
	w.w.DestroyBody(body)
	engineMu.Unlock()
	delete(w.bodies, id)
	delete(w.bodyIDs, body)
	delete(w.shapes, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

func (w *World) HasBody(id physics.BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

func (w *World) Bodies() []physics.BodyID {
	return append([]physics.BodyID(nil), w.order...)
}

func (w *World) BodyType(id physics.BodyID) (physics.BodyType, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return 0, false
	}
	switch body.GetType() {
	case box2d.B2BodyType.B2_dynamicBody:
		return physics.DynamicBody, true
	case box2d.B2BodyType.B2_kinematicBody:
		return physics.KinematicBody, true
	default:
		return physics.StaticBody, true
	}
}

func (w *World) Position(id physics.BodyID) (physics.Vec2, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return physics.Vec2{}, false
	}
	return unvec(body.GetPosition()), true
}

func (w *World) Angle(id physics.BodyID) float64 {
	body, ok := w.bodies[id]
	if !ok {
		return 0
	}
	return body.GetAngle()
}

// Shapes returns the geometry the body was created with. Box2D stores boxes
// as generic polygons, so the original definitions are kept alongside.
func (w *World) Shapes(id physics.BodyID) []physics.Shape {
	return append([]physics.Shape(nil), w.shapes[id]...)
}

func (w *World) Velocity(id physics.BodyID) (physics.Vec2, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return physics.Vec2{}, false
	}
	return unvec(body.GetLinearVelocity()), true
}

func (w *World) Mass(id physics.BodyID) float64 {
	body, ok := w.bodies[id]
	if !ok {
		return 0
	}
	return body.GetMass()
}

func (w *World) UserData(id physics.BodyID) any {
	body, ok := w.bodies[id]
	if !ok {
		return nil
	}
	return body.GetUserData()
}

func (w *World) SetAwake(id physics.BodyID, awake bool) {
	if body, ok := w.bodies[id]; ok {
		body.SetAwake(awake)
	}
}

func (w *World) QueryPoint(p physics.Vec2) []physics.BodyID {
	var aabb box2d.B2AABB
	aabb.LowerBound = box2d.MakeB2Vec2(p.X-queryExtent, p.Y-queryExtent)
	aabb.UpperBound = box2d.MakeB2Vec2(p.X+queryExtent, p.Y+queryExtent)

	point := vec(p)
	seen := make(map[physics.BodyID]bool)
	var hits []physics.BodyID
	w.w.QueryAABB(func(fixture *box2d.B2Fixture) bool {
		if !fixture.TestPoint(point) {
			return true
		}
		id, ok := w.bodyIDs[fixture.GetBody()]
		if ok && !seen[id] {
			seen[id] = true
			hits = append(hits, id)
		}
		return true
	}, aabb)
	return hits
}

func (w *World) CreateMouseJoint(def physics.MouseJointDef) physics.JointID {
	ground, ok := w.bodies[def.Ground]
	if !ok {
		return physics.NoJoint
	}
	body, ok := w.bodies[def.Body]
	if !ok {
		return physics.NoJoint
	}

	md := box2d.MakeB2MouseJointDef()
	md.BodyA = ground
	md.BodyB = body
	md.Target = vec(def.Target)
	md.MaxForce = def.MaxForce
	md.FrequencyHz = def.FrequencyHz
	md.DampingRatio = def.DampingRatio

	joint := w.w.CreateJoint(&md)
	body.SetAwake(true)

	id := physics.JointID(w.id())
	w.joints[id] = joint
	w.jointIDs[joint] = id
	return id
}

func (w *World) SetMouseTarget(j physics.JointID, target physics.Vec2) {
	joint, ok := w.joints[j]
	if !ok {
		return
	}
	if mj, ok := joint.(*box2d.B2MouseJoint); ok {
		mj.SetTarget(vec(target))
	}
}

func (w *World) DestroyJoint(j physics.JointID) {
	joint, ok := w.joints[j]
	if !ok {
		return
	}
	w.w.DestroyJoint(joint)
	delete(w.joints, j)
	delete(w.jointIDs, joint)
}

func (w *World) Joints() []physics.JointID {
	ids := make([]physics.JointID, 0, len(w.joints))
	for id := range w.joints {
		ids = append(ids, id)
	}
	return ids
}

func (w *World) SetContactListener(l physics.ContactListener) { w.contacts = l }

func (w *World) SetDestructionListener(l physics.DestructionListener) { w.destruction = l }

func (w *World) ShiftOrigin(origin physics.Vec2) { w.w.ShiftOrigin(vec(origin)) }

// Destroy drops every engine object. Box2D has no explicit world teardown in
// Go, so releasing the references is enough once bodies are gone.
func (w *World) Destroy() {
	for _, id := range w.Bodies() {
		w.DestroyBody(id)
	}
	w.w.SetContactListener(nil)
	w.w.SetDestructionListener(nil)
	w.bodies = make(map[physics.BodyID]*box2d.B2Body)
	w.bodyIDs = make(map[*box2d.B2Body]physics.BodyID)
	w.shapes = make(map[physics.BodyID][]physics.Shape)
	w.fixtures = make(map[*box2d.B2Fixture]physics.FixtureID)
	w.joints = make(map[physics.JointID]box2d.B2JointInterface)
	w.jointIDs = make(map[box2d.B2JointInterface]physics.JointID)
	w.order = nil
}
