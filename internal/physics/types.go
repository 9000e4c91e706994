package physics

import "fmt"

// BodyID identifies a body inside a World. The zero value means "no body".
type BodyID uint64

// FixtureID identifies a collision shape attached to a body.
type FixtureID uint64

// JointID identifies a constraint. The zero value means "no joint".
type JointID uint64

const (
	NoBody  BodyID  = 0
	NoJoint JointID = 0
)

type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case KinematicBody:
		return "kinematic"
	case DynamicBody:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", uint8(t))
	}
}

type ShapeKind uint8

const (
	CircleShape ShapeKind = iota
	BoxShape
	EdgeShape
)

// Shape describes collision geometry in body-local coordinates.
// Circles use Radius, boxes use HalfWidth/HalfHeight, edges use V1/V2.
type Shape struct {
	Kind       ShapeKind
	Radius     float64
	HalfWidth  float64
	HalfHeight float64
	V1, V2     Vec2
}

func Circle(radius float64) Shape { return Shape{Kind: CircleShape, Radius: radius} }

func Box(halfWidth, halfHeight float64) Shape {
	return Shape{Kind: BoxShape, HalfWidth: halfWidth, HalfHeight: halfHeight}
}

func Edge(v1, v2 Vec2) Shape { return Shape{Kind: EdgeShape, V1: v1, V2: v2} }

type FixtureDef struct {
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
}

type BodyDef struct {
	Type           BodyType
	Position       Vec2
	Angle          float64
	LinearVelocity Vec2
	Bullet         bool
	Fixtures       []FixtureDef
	UserData       any
}

// MouseJointDef pulls Body towards Target. Ground is the fixed anchor body.
type MouseJointDef struct {
	Ground       BodyID
	Body         BodyID
	Target       Vec2
	MaxForce     float64
	FrequencyHz  float64
	DampingRatio float64
}

// PointState describes a contact point relative to the previous step.
type PointState uint8

const (
	PointNull PointState = iota
	PointAdd
	PointPersist
	PointRemove
)

func (s PointState) String() string {
	switch s {
	case PointNull:
		return "null"
	case PointAdd:
		return "add"
	case PointPersist:
		return "persist"
	case PointRemove:
		return "remove"
	default:
		return fmt.Sprintf("PointState(%d)", uint8(s))
	}
}

// ManifoldPoint is one contact point in world space. ID is stable across
// steps for the same pair of features, so old and new manifolds of a contact
// can be matched point by point.
type ManifoldPoint struct {
	ID             uint32
	Position       Vec2
	Separation     float64
	NormalImpulse  float64
	TangentImpulse float64
}

type Manifold struct {
	Normal Vec2
	Points []ManifoldPoint
}

type Contact struct {
	FixtureA, FixtureB FixtureID
	BodyA, BodyB       BodyID
	Manifold           Manifold
}

type ContactImpulse struct {
	NormalImpulses  []float64
	TangentImpulses []float64
}

// Profile holds step timings in milliseconds.
type Profile struct {
	Step          float64
	Collide       float64
	Solve         float64
	SolveInit     float64
	SolveVelocity float64
	SolvePosition float64
	Broadphase    float64
	SolveTOI      float64
}

func (p Profile) Add(o Profile) Profile {
	return Profile{
		Step:          p.Step + o.Step,
		Collide:       p.Collide + o.Collide,
		Solve:         p.Solve + o.Solve,
		SolveInit:     p.SolveInit + o.SolveInit,
		SolveVelocity: p.SolveVelocity + o.SolveVelocity,
		SolvePosition: p.SolvePosition + o.SolvePosition,
		Broadphase:    p.Broadphase + o.Broadphase,
		SolveTOI:      p.SolveTOI + o.SolveTOI,
	}
}

// Max returns the field-wise maximum of p and o.
func (p Profile) Max(o Profile) Profile {
	return Profile{
		Step:          max(p.Step, o.Step),
		Collide:       max(p.Collide, o.Collide),
		Solve:         max(p.Solve, o.Solve),
		SolveInit:     max(p.SolveInit, o.SolveInit),
		SolveVelocity: max(p.SolveVelocity, o.SolveVelocity),
		SolvePosition: max(p.SolvePosition, o.SolvePosition),
		Broadphase:    max(p.Broadphase, o.Broadphase),
		SolveTOI:      max(p.SolveTOI, o.SolveTOI),
	}
}

func (p Profile) Scale(f float64) Profile {
	return Profile{
		Step:          p.Step * f,
		Collide:       p.Collide * f,
		Solve:         p.Solve * f,
		SolveInit:     p.SolveInit * f,
		SolveVelocity: p.SolveVelocity * f,
		SolvePosition: p.SolvePosition * f,
		Broadphase:    p.Broadphase * f,
		SolveTOI:      p.SolveTOI * f,
	}
}

// Flags are the world-level solver switches a host may toggle between steps.
type Flags struct {
	AllowSleeping bool
	WarmStarting  bool
	Continuous    bool
	SubStepping   bool
}
