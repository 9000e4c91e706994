// Package physicstest provides an in-memory physics.World for tests.
//
// The double integrates velocities with explicit Euler, answers point
// queries against circle and box fixtures, and delivers contacts that tests
// queue with QueueContact from inside Step, the way a real engine would.
// Destroying an unknown body or joint panics so that double frees surface as
// test failures.
package physicstest

import (
	"fmt"
	"math"

	"github.com/san-kum/physbox/internal/physics"
)

type Fixture struct {
	ID    physics.FixtureID
	Shape physics.Shape
}

func (f Fixture) TestPoint(position, p physics.Vec2) bool {
	switch f.Shape.Kind {
	case physics.CircleShape:
		return position.DistanceSquared(p) <= f.Shape.Radius*f.Shape.Radius
	case physics.BoxShape:
		box := physics.AABB{
			Min: physics.Vec2{X: position.X - f.Shape.HalfWidth, Y: position.Y - f.Shape.HalfHeight},
			Max: physics.Vec2{X: position.X + f.Shape.HalfWidth, Y: position.Y + f.Shape.HalfHeight},
		}
		return box.Contains(p)
	default:
		return false
	}
}

type Body struct {
	ID       physics.BodyID
	Type     physics.BodyType
	Position physics.Vec2
	Angle    float64
	Velocity physics.Vec2
	Bullet   bool
	Awake    bool
	Fixtures []Fixture
	UserData any
}

func (b *Body) mass(densityOf map[physics.FixtureID]float64) float64 {
	if b.Type != physics.DynamicBody {
		return 0
	}
	m := 0.0
	for _, f := range b.Fixtures {
		d := densityOf[f.ID]
		switch f.Shape.Kind {
		case physics.CircleShape:
			m += d * math.Pi * f.Shape.Radius * f.Shape.Radius
		case physics.BoxShape:
			m += d * 4 * f.Shape.HalfWidth * f.Shape.HalfHeight
		}
	}
	if m == 0 {
		m = 1
	}
	return m
}

type Joint struct {
	ID  physics.JointID
	Def physics.MouseJointDef
}

type queuedContact struct {
	contact physics.Contact
	old     physics.Manifold
}

// World is the in-memory engine double.
type World struct {
	Gravity physics.Vec2
	Flags   physics.Flags

	// OnStep, when set, runs inside Step after contacts are delivered.
	OnStep func(w *World)

	StepCount        int
	LastDt           float64
	Shifted          physics.Vec2
	DestroyedBodies  []physics.BodyID
	DestroyedJoints  []physics.JointID
	CreatedJoints    []physics.JointID
	Closed           bool
	InStep           bool
	ProfileStep      float64
	contactListener  physics.ContactListener
	destructListener physics.DestructionListener

	nextID    uint64
	bodies    map[physics.BodyID]*Body
	order     []physics.BodyID
	joints    map[physics.JointID]*Joint
	jointList []physics.JointID
	density   map[physics.FixtureID]float64
	queued    []queuedContact
	profile   physics.Profile
}

func NewWorld(gravity physics.Vec2) *World {
	return &World{
		Gravity: gravity,
		bodies:  make(map[physics.BodyID]*Body),
		joints:  make(map[physics.JointID]*Joint),
		density: make(map[physics.FixtureID]float64),
	}
}

func (w *World) id() uint64 {
	w.nextID++
	return w.nextID
}

// QueueContact schedules a pre-solve callback for the next Step.
func (w *World) QueueContact(c physics.Contact, old physics.Manifold) {
	w.queued = append(w.queued, queuedContact{contact: c, old: old})
}

// Body exposes the stored body for assertions.
func (w *World) Body(id physics.BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Joint exposes the stored joint for assertions.
func (w *World) Joint(id physics.JointID) (*Joint, bool) {
	j, ok := w.joints[id]
	return j, ok
}

// FixtureOf returns the first fixture of a body.
func (w *World) FixtureOf(id physics.BodyID) physics.FixtureID {
	b, ok := w.bodies[id]
	if !ok || len(b.Fixtures) == 0 {
		return 0
	}
	return b.Fixtures[0].ID
}

func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.InStep = true
	defer func() { w.InStep = false }()

	w.StepCount++
	w.LastDt = dt

	for _, id := range w.order {
		b := w.bodies[id]
		if b.Type != physics.DynamicBody || dt == 0 {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
	for _, jid := range w.jointList {
		j := w.joints[jid]
		if b, ok := w.bodies[j.Def.Body]; ok && dt > 0 {
			b.Position = j.Def.Target
			b.Velocity = physics.Vec2{}
		}
	}

	queued := w.queued
	w.queued = nil
	if w.contactListener != nil {
		for _, q := range queued {
			w.contactListener.PreSolve(q.contact, q.old)
		}
	}
	if w.OnStep != nil {
		w.OnStep(w)
	}

	w.profile = physics.Profile{
		Step:    w.ProfileStep + dt*1000,
		Collide: float64(len(queued)),
		Solve:   float64(velocityIterations + positionIterations),
	}
}

func (w *World) SetFlags(f physics.Flags) { w.Flags = f }

func (w *World) Profile() physics.Profile { return w.profile }

func (w *World) CreateBody(def physics.BodyDef) physics.BodyID {
	id := physics.BodyID(w.id())
	b := &Body{
		ID:       id,
		Type:     def.Type,
		Position: def.Position,
		Angle:    def.Angle,
		Velocity: def.LinearVelocity,
		Bullet:   def.Bullet,
		Awake:    true,
		UserData: def.UserData,
	}
	for _, fd := range def.Fixtures {
		fid := physics.FixtureID(w.id())
		w.density[fid] = fd.Density
		b.Fixtures = append(b.Fixtures, Fixture{ID: fid, Shape: fd.Shape})
	}
	w.bodies[id] = b
	w.order = append(w.order, id)
	return id
}

func (w *World) DestroyBody(id physics.BodyID) {
	b, ok := w.bodies[id]
	if !ok {
		panic(fmt.Sprintf("physicstest: destroy of unknown body %d", id))
	}
	for _, jid := range append([]physics.JointID(nil), w.jointList...) {
		j := w.joints[jid]
		if j.Def.Body != id && j.Def.Ground != id {
			continue
		}
		w.removeJoint(jid)
		if w.destructListener != nil {
			w.destructListener.JointDestroyed(jid)
		}
	}
	for _, f := range b.Fixtures {
		delete(w.density, f.ID)
		if w.destructListener != nil {
			w.destructListener.FixtureDestroyed(f.ID)
		}
	}
	delete(w.bodies, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.DestroyedBodies = append(w.DestroyedBodies, id)
}

func (w *World) HasBody(id physics.BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

func (w *World) Bodies() []physics.BodyID {
	return append([]physics.BodyID(nil), w.order...)
}

func (w *World) BodyType(id physics.BodyID) (physics.BodyType, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return 0, false
	}
	return b.Type, true
}

func (w *World) Position(id physics.BodyID) (physics.Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return physics.Vec2{}, false
	}
	return b.Position, true
}

func (w *World) Angle(id physics.BodyID) float64 {
	if b, ok := w.bodies[id]; ok {
		return b.Angle
	}
	return 0
}

func (w *World) Shapes(id physics.BodyID) []physics.Shape {
	b, ok := w.bodies[id]
	if !ok {
		return nil
	}
	shapes := make([]physics.Shape, len(b.Fixtures))
	for i, f := range b.Fixtures {
		shapes[i] = f.Shape
	}
	return shapes
}

func (w *World) Velocity(id physics.BodyID) (physics.Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return physics.Vec2{}, false
	}
	return b.Velocity, true
}

func (w *World) Mass(id physics.BodyID) float64 {
	b, ok := w.bodies[id]
	if !ok {
		return 0
	}
	return b.mass(w.density)
}

func (w *World) UserData(id physics.BodyID) any {
	if b, ok := w.bodies[id]; ok {
		return b.UserData
	}
	return nil
}

func (w *World) SetAwake(id physics.BodyID, awake bool) {
	if b, ok := w.bodies[id]; ok {
		b.Awake = awake
	}
}

func (w *World) QueryPoint(p physics.Vec2) []physics.BodyID {
	var hits []physics.BodyID
	for _, id := range w.order {
		b := w.bodies[id]
		for _, f := range b.Fixtures {
			if f.TestPoint(b.Position, p) {
				hits = append(hits, id)
				break
			}
		}
	}
	return hits
}

func (w *World) CreateMouseJoint(def physics.MouseJointDef) physics.JointID {
	id := physics.JointID(w.id())
	w.joints[id] = &Joint{ID: id, Def: def}
	w.jointList = append(w.jointList, id)
	w.CreatedJoints = append(w.CreatedJoints, id)
	return id
}

func (w *World) SetMouseTarget(j physics.JointID, target physics.Vec2) {
	if jt, ok := w.joints[j]; ok {
		jt.Def.Target = target
	}
}

func (w *World) DestroyJoint(j physics.JointID) {
	if _, ok := w.joints[j]; !ok {
		panic(fmt.Sprintf("physicstest: destroy of unknown joint %d", j))
	}
	w.removeJoint(j)
}

func (w *World) removeJoint(j physics.JointID) {
	delete(w.joints, j)
	for i, id := range w.jointList {
		if id == j {
			w.jointList = append(w.jointList[:i], w.jointList[i+1:]...)
			break
		}
	}
	w.DestroyedJoints = append(w.DestroyedJoints, j)
}

func (w *World) Joints() []physics.JointID {
	return append([]physics.JointID(nil), w.jointList...)
}

func (w *World) SetContactListener(l physics.ContactListener) { w.contactListener = l }

func (w *World) SetDestructionListener(l physics.DestructionListener) { w.destructListener = l }

func (w *World) ShiftOrigin(origin physics.Vec2) {
	w.Shifted = origin
	for _, b := range w.bodies {
		b.Position = b.Position.Sub(origin)
	}
}

func (w *World) Destroy() {
	w.Closed = true
}
