package session_test

import (
	"testing"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/physics/physicstest"
	"github.com/san-kum/physbox/internal/session"
)

func manifold(ids ...uint32) physics.Manifold {
	m := physics.Manifold{Normal: physics.V(0, 1)}
	for _, id := range ids {
		m.Points = append(m.Points, physics.ManifoldPoint{
			ID:            id,
			Position:      physics.V(float64(id), 0),
			Separation:    -0.01,
			NormalImpulse: 0.5,
		})
	}
	return m
}

func TestContactBufferStates(t *testing.T) {
	tests := []struct {
		name string
		cur  physics.Manifold
		old  physics.Manifold
		want []physics.PointState
	}{
		{"new contact", manifold(1, 2), manifold(), []physics.PointState{physics.PointAdd, physics.PointAdd}},
		{"persisting", manifold(1, 2), manifold(1, 2), []physics.PointState{physics.PointPersist, physics.PointPersist}},
		{"mixed", manifold(1, 2), manifold(2, 7), []physics.PointState{physics.PointAdd, physics.PointPersist}},
		{"empty", manifold(), manifold(1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := session.NewContactBuffer()
			n := b.Record(3, 4, tt.cur, tt.old)
			if n != len(tt.want) {
				t.Fatalf("stored %d points, want %d", n, len(tt.want))
			}
			for i, p := range b.Points() {
				if p.State != tt.want[i] {
					t.Errorf("point %d: state %v, want %v", i, p.State, tt.want[i])
				}
				if p.FixtureA != 3 || p.FixtureB != 4 {
					t.Errorf("point %d: fixtures %d/%d", i, p.FixtureA, p.FixtureB)
				}
				if p.Normal != physics.V(0, 1) {
					t.Errorf("point %d: normal %v", i, p.Normal)
				}
			}
		})
	}
}

func TestContactBufferCapacity(t *testing.T) {
	b := session.NewContactBuffer()
	if b.Cap() != session.MaxContactPoints || b.Cap() != 2048 {
		t.Fatalf("capacity %d", b.Cap())
	}

	pair := manifold(1, 2)
	for i := 0; i < session.MaxContactPoints/2; i++ {
		b.Record(1, 2, pair, physics.Manifold{})
	}
	if b.Len() != session.MaxContactPoints {
		t.Fatalf("len %d, want full buffer", b.Len())
	}

	if n := b.Record(1, 2, pair, physics.Manifold{}); n != 0 {
		t.Errorf("stored %d points past capacity", n)
	}
	if b.Len() != session.MaxContactPoints {
		t.Errorf("len grew past capacity: %d", b.Len())
	}
	if b.Dropped() != 2 {
		t.Errorf("dropped %d, want 2", b.Dropped())
	}

	b.BeginStep()
	if b.Len() != 0 || b.Dropped() != 0 || len(b.Points()) != 0 {
		t.Errorf("BeginStep left len=%d dropped=%d", b.Len(), b.Dropped())
	}
}

func TestSessionCapturesContactsPerStep(t *testing.T) {
	world := physicstest.NewWorld(physics.Vec2{})
	s, err := session.New(world, nil, session.DefaultConfig())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer s.Close()

	world.QueueContact(physics.Contact{FixtureA: 10, FixtureB: 11, Manifold: manifold(1, 2)}, manifold(1))
	settings := session.DefaultSettings()
	s.Step(&settings)

	points := s.ContactPoints()
	if len(points) != 2 {
		t.Fatalf("got %d contact points, want 2", len(points))
	}
	if points[0].State != physics.PointPersist || points[1].State != physics.PointAdd {
		t.Errorf("states %v %v", points[0].State, points[1].State)
	}

	s.Step(&settings)
	if n := len(s.ContactPoints()); n != 0 {
		t.Errorf("contacts carried into the next step: %d", n)
	}
}
