package b2

import (
	"github.com/ByteArena/box2d"

	"github.com/san-kum/physbox/internal/physics"
)

// removedIDBase offsets the ids given to old manifold points that have no
// counterpart in the new manifold.
const removedIDBase = 0x100

type contactBridge struct {
	w *World
}

func (b *contactBridge) contact(c box2d.B2ContactInterface) physics.Contact {
	fa, fb := c.GetFixtureA(), c.GetFixtureB()
	return physics.Contact{
		FixtureA: b.w.fixtures[fa],
		FixtureB: b.w.fixtures[fb],
		BodyA:    b.w.bodyIDs[fa.GetBody()],
		BodyB:    b.w.bodyIDs[fb.GetBody()],
	}
}

func (b *contactBridge) BeginContact(c box2d.B2ContactInterface) {
	if b.w.contacts != nil {
		b.w.contacts.BeginContact(b.contact(c))
	}
}

func (b *contactBridge) EndContact(c box2d.B2ContactInterface) {
	if b.w.contacts != nil {
		b.w.contacts.EndContact(b.contact(c))
	}
}

// PreSolve converts the engine manifolds into world-space manifolds whose
// point ids match wherever Box2D's feature ids match.
func (b *contactBridge) PreSolve(c box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
	if b.w.contacts == nil {
		return
	}
	manifold := c.GetManifold()
	if manifold.PointCount == 0 {
		return
	}

	var wm box2d.B2WorldManifold
	c.GetWorldManifold(&wm)

	cur := physics.Manifold{Normal: unvec(wm.Normal)}
	for i := 0; i < manifold.PointCount; i++ {
		mp := manifold.Points[i]
		cur.Points = append(cur.Points, physics.ManifoldPoint{
			ID:             uint32(i + 1),
			Position:       unvec(wm.Points[i]),
			Separation:     wm.Separations[i],
			NormalImpulse:  mp.NormalImpulse,
			TangentImpulse: mp.TangentImpulse,
		})
	}

	var old physics.Manifold
	for j := 0; j < oldManifold.PointCount; j++ {
		op := oldManifold.Points[j]
		id := uint32(removedIDBase + j)
		for i := 0; i < manifold.PointCount; i++ {
			if manifold.Points[i].Id == op.Id {
				id = uint32(i + 1)
				break
			}
		}
		old.Points = append(old.Points, physics.ManifoldPoint{
			ID:             id,
			NormalImpulse:  op.NormalImpulse,
			TangentImpulse: op.TangentImpulse,
		})
	}

	contact := b.contact(c)
	contact.Manifold = cur
	b.w.contacts.PreSolve(contact, old)
}

func (b *contactBridge) PostSolve(c box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
	if b.w.contacts == nil {
		return
	}
	var ci physics.ContactImpulse
	for i := 0; i < impulse.Count; i++ {
		ci.NormalImpulses = append(ci.NormalImpulses, impulse.NormalImpulses[i])
		ci.TangentImpulses = append(ci.TangentImpulses, impulse.TangentImpulses[i])
	}
	b.w.contacts.PostSolve(b.contact(c), ci)
}

type destructionBridge struct {
	w *World
}

func (b *destructionBridge) SayGoodbyeToJoint(joint box2d.B2JointInterface) {
	id, ok := b.w.jointIDs[joint]
	if !ok {
		return
	}
	delete(b.w.joints, id)
	delete(b.w.jointIDs, joint)
	if b.w.destruction != nil {
		b.w.destruction.JointDestroyed(id)
	}
}

func (b *destructionBridge) SayGoodbyeToFixture(fixture *box2d.B2Fixture) {
	id, ok := b.w.fixtures[fixture]
	if !ok {
		return
	}
	delete(b.w.fixtures, fixture)
	if b.w.destruction != nil {
		b.w.destruction.FixtureDestroyed(id)
	}
}
