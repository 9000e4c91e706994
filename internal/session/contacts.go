package session

import "github.com/san-kum/physbox/internal/physics"

// MaxContactPoints is the capacity of a ContactBuffer.
const MaxContactPoints = 2048

// ContactPoint is one contact sample taken during pre-solve.
type ContactPoint struct {
	FixtureA       physics.FixtureID
	FixtureB       physics.FixtureID
	Normal         physics.Vec2
	Position       physics.Vec2
	State          physics.PointState
	NormalImpulse  float64
	TangentImpulse float64
	Separation     float64
}

// ContactBuffer holds the contact samples of the current step. Samples past
// capacity are dropped.
type ContactBuffer struct {
	points  [MaxContactPoints]ContactPoint
	count   int
	dropped int
}

func NewContactBuffer() *ContactBuffer {
	return &ContactBuffer{}
}

// BeginStep discards the previous step's samples.
func (b *ContactBuffer) BeginStep() {
	b.count = 0
	b.dropped = 0
}

// Record appends one sample per manifold point and returns how many were
// stored. A point is "add" unless a point with the same id appears in old.
func (b *ContactBuffer) Record(fixtureA, fixtureB physics.FixtureID, m, old physics.Manifold) int {
	stored := 0
	for _, mp := range m.Points {
		if b.count == MaxContactPoints {
			b.dropped++
			continue
		}
		b.points[b.count] = ContactPoint{
			FixtureA:       fixtureA,
			FixtureB:       fixtureB,
			Normal:         m.Normal,
			Position:       mp.Position,
			State:          pointState(mp.ID, old),
			NormalImpulse:  mp.NormalImpulse,
			TangentImpulse: mp.TangentImpulse,
			Separation:     mp.Separation,
		}
		b.count++
		stored++
	}
	return stored
}

func pointState(id uint32, old physics.Manifold) physics.PointState {
	for _, op := range old.Points {
		if op.ID == id {
			return physics.PointPersist
		}
	}
	return physics.PointAdd
}

// Points returns the samples of the current step. The slice aliases the
// buffer and is only valid until the next BeginStep.
func (b *ContactBuffer) Points() []ContactPoint { return b.points[:b.count] }

func (b *ContactBuffer) Len() int { return b.count }

func (b *ContactBuffer) Cap() int { return MaxContactPoints }

// Dropped reports how many samples did not fit during the current step.
func (b *ContactBuffer) Dropped() int { return b.dropped }
