package b2

import (
	"sync"
	"testing"

	"github.com/san-kum/physbox/internal/physics"
)

type destroyed struct {
	joints   []physics.JointID
	fixtures int
}

func (d *destroyed) JointDestroyed(j physics.JointID)   { d.joints = append(d.joints, j) }
func (d *destroyed) FixtureDestroyed(physics.FixtureID) { d.fixtures++ }

type contacts struct {
	begins, presolves int
	points            int
}

func (c *contacts) BeginContact(physics.Contact) { c.begins++ }
func (c *contacts) EndContact(physics.Contact)   {}
func (c *contacts) PreSolve(ct physics.Contact, _ physics.Manifold) {
	c.presolves++
	c.points += len(ct.Manifold.Points)
}
func (c *contacts) PostSolve(physics.Contact, physics.ContactImpulse) {}

func newScene(t *testing.T) (*World, physics.BodyID, physics.BodyID) {
	t.Helper()
	w := NewWorld(physics.V(0, -10))
	ground := w.CreateBody(physics.BodyDef{
		Type:     physics.StaticBody,
		Fixtures: []physics.FixtureDef{{Shape: physics.Edge(physics.V(-20, 0), physics.V(20, 0))}},
	})
	ball := w.CreateBody(physics.BodyDef{
		Type:     physics.DynamicBody,
		Position: physics.V(0, 2),
		Fixtures: []physics.FixtureDef{{Shape: physics.Circle(0.5), Density: 1}},
	})
	return w, ground, ball
}

func TestBallFallsAndTouches(t *testing.T) {
	w, _, ball := newScene(t)
	defer w.Destroy()
	c := &contacts{}
	w.SetContactListener(c)

	for i := 0; i < 120; i++ {
		w.Step(1.0/60, 8, 3)
	}
	p, ok := w.Position(ball)
	if !ok {
		t.Fatal("ball missing")
	}
	if p.Y > 1 || p.Y < 0 {
		t.Errorf("ball resting at %v", p)
	}
	if c.begins == 0 || c.presolves == 0 || c.points == 0 {
		t.Errorf("contacts not reported: %+v", c)
	}
	if w.Profile().Step < 0 {
		t.Error("negative step time")
	}
}

func TestQueryAndBodyInfo(t *testing.T) {
	w, ground, ball := newScene(t)
	defer w.Destroy()

	hits := w.QueryPoint(physics.V(0.1, 2))
	if len(hits) != 1 || hits[0] != ball {
		t.Errorf("QueryPoint hits %v, want [%d]", hits, ball)
	}
	if hits := w.QueryPoint(physics.V(5, 5)); len(hits) != 0 {
		t.Errorf("empty query hit %v", hits)
	}

	if bt, _ := w.BodyType(ball); bt != physics.DynamicBody {
		t.Errorf("ball type %v", bt)
	}
	if bt, _ := w.BodyType(ground); bt != physics.StaticBody {
		t.Errorf("ground type %v", bt)
	}
	if m := w.Mass(ball); m <= 0 {
		t.Errorf("ball mass %f", m)
	}
	if sh := w.Shapes(ball); len(sh) != 1 || sh[0].Kind != physics.CircleShape || sh[0].Radius != 0.5 {
		t.Errorf("ball shapes %+v", sh)
	}
	if w.Angle(ball) != 0 {
		t.Errorf("ball angle %v", w.Angle(ball))
	}
	if len(w.Bodies()) != 2 || w.Bodies()[0] != ground {
		t.Errorf("bodies %v", w.Bodies())
	}
}

func TestMouseJointLifecycle(t *testing.T) {
	w, ground, ball := newScene(t)
	defer w.Destroy()
	d := &destroyed{}
	w.SetDestructionListener(d)

	j := w.CreateMouseJoint(physics.MouseJointDef{
		Ground: ground, Body: ball, Target: physics.V(0, 2),
		MaxForce: 1000 * w.Mass(ball), FrequencyHz: 5, DampingRatio: 0.7,
	})
	if j == physics.NoJoint {
		t.Fatal("joint not created")
	}
	w.SetMouseTarget(j, physics.V(3, 4))
	for i := 0; i < 60; i++ {
		w.Step(1.0/60, 8, 3)
	}
	if p, _ := w.Position(ball); p.X < 1 {
		t.Errorf("ball not dragged towards target: %v", p)
	}

	w.DestroyBody(ball)
	if len(d.joints) != 1 || d.joints[0] != j {
		t.Errorf("joint destruction not reported: %v", d.joints)
	}
	if d.fixtures != 1 {
		t.Errorf("fixtures reported %d", d.fixtures)
	}
	if len(w.Joints()) != 0 || w.HasBody(ball) {
		t.Error("ball or joint survived")
	}
	if w.CreateMouseJoint(physics.MouseJointDef{Ground: ground, Body: ball}) != physics.NoJoint {
		t.Error("joint created on a destroyed body")
	}
}

func TestShiftOrigin(t *testing.T) {
	w, _, ball := newScene(t)
	defer w.Destroy()
	w.ShiftOrigin(physics.V(1, 1))
	if p, _ := w.Position(ball); p != physics.V(-1, 1) {
		t.Errorf("shifted position %v", p)
	}
}

func TestSetFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags physics.Flags
	}{
		{"all off", physics.Flags{}},
		{"defaults", physics.Flags{AllowSleeping: true, WarmStarting: true, Continuous: true}},
		{"sub-stepping only", physics.Flags{SubStepping: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(physics.V(0, -10))
			defer w.Destroy()
			w.SetFlags(tt.flags)

			got := physics.Flags{
				AllowSleeping: w.w.M_allowSleep,
				WarmStarting:  w.w.M_warmStarting,
				Continuous:    w.w.M_continuousPhysics,
				SubStepping:   w.w.M_subStepping,
			}
			if got != tt.flags {
				t.Errorf("engine flags %+v, want %+v", got, tt.flags)
			}
		})
	}
}

func TestWorldsStepConcurrently(t *testing.T) {
	const n = 4
	heights := make([]float64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w, _, ball := newScene(t)
			defer w.Destroy()
			w.SetFlags(physics.Flags{AllowSleeping: true, WarmStarting: true, Continuous: true})
			for step := 0; step < 120; step++ {
				w.Step(1.0/60, 8, 3)
			}
			p, _ := w.Position(ball)
			heights[idx] = p.Y
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if heights[i] != heights[0] {
			t.Errorf("world %d rests at %v, world 0 at %v", i, heights[i], heights[0])
		}
	}
}
