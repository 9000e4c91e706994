package physics

// ContactListener receives collision callbacks from inside World.Step.
type ContactListener interface {
	BeginContact(c Contact)
	EndContact(c Contact)
	PreSolve(c Contact, old Manifold)
	PostSolve(c Contact, impulse ContactImpulse)
}

// DestructionListener is told about joints and fixtures the engine destroys
// implicitly, for example the joints attached to a destroyed body.
type DestructionListener interface {
	JointDestroyed(j JointID)
	FixtureDestroyed(f FixtureID)
}

// World is the rigid-body engine as seen by a session. Implementations are
// not safe for concurrent use.
type World interface {
	Step(dt float64, velocityIterations, positionIterations int)
	SetFlags(f Flags)
	Profile() Profile

	CreateBody(def BodyDef) BodyID
	DestroyBody(id BodyID)
	HasBody(id BodyID) bool
	Bodies() []BodyID
	BodyType(id BodyID) (BodyType, bool)
	Position(id BodyID) (Vec2, bool)
	Angle(id BodyID) float64
	Velocity(id BodyID) (Vec2, bool)
	Mass(id BodyID) float64
	UserData(id BodyID) any
	// Shapes returns the body's fixture geometry in body-local coordinates.
	Shapes(id BodyID) []Shape
	SetAwake(id BodyID, awake bool)

	// QueryPoint returns the bodies owning a fixture that contains p.
	QueryPoint(p Vec2) []BodyID

	CreateMouseJoint(def MouseJointDef) JointID
	SetMouseTarget(j JointID, target Vec2)
	DestroyJoint(j JointID)
	Joints() []JointID

	SetContactListener(l ContactListener)
	SetDestructionListener(l DestructionListener)

	ShiftOrigin(origin Vec2)

	// Destroy releases the engine. The World must not be used afterwards.
	Destroy()
}
