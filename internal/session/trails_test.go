package session_test

import (
	"testing"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/physics/physicstest"
	"github.com/san-kum/physbox/internal/session"
)

func TestTrailRecorderEviction(t *testing.T) {
	tr := session.NewTrailRecorder(3)
	for i := 0; i < 5; i++ {
		tr.Record(1, physics.V(float64(i), 0))
	}

	path, ok := tr.Path(1)
	if !ok {
		t.Fatal("body 1 not tracked")
	}
	want := []physics.Vec2{physics.V(2, 0), physics.V(3, 0), physics.V(4, 0)}
	if len(path) != len(want) {
		t.Fatalf("path len %d, want %d", len(path), len(want))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %v, want %v", i, path[i], want[i])
		}
	}
}

func TestTrailRecorderSegments(t *testing.T) {
	tests := []struct {
		name   string
		points map[physics.BodyID]int
		want   int
	}{
		{"empty", nil, 0},
		{"single point", map[physics.BodyID]int{1: 1}, 0},
		{"two bodies", map[physics.BodyID]int{1: 4, 2: 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := session.NewTrailRecorder(10)
			for id, n := range tt.points {
				for i := 0; i < n; i++ {
					tr.Record(id, physics.V(float64(i), float64(id)))
				}
			}
			for pass := 0; pass < 2; pass++ {
				got := 0
				for _, seg := range tr.Segments() {
					if seg.To.X-seg.From.X != 1 {
						t.Errorf("non-consecutive segment %v", seg)
					}
					got++
				}
				if got != tt.want {
					t.Errorf("pass %d: %d segments, want %d", pass, got, tt.want)
				}
			}
		})
	}
}

func TestTrailRecorderOrderAndBreak(t *testing.T) {
	tr := session.NewTrailRecorder(10)
	for _, id := range []physics.BodyID{7, 3, 5} {
		tr.Record(id, physics.V(0, 0))
		tr.Record(id, physics.V(1, 0))
	}

	var seen []physics.BodyID
	for id := range tr.Segments() {
		seen = append(seen, id)
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 || seen[0] != 7 || seen[1] != 3 {
		t.Errorf("segments visited %v, want [7 3]", seen)
	}
}

func TestTrailRecorderStopTracking(t *testing.T) {
	tr := session.NewTrailRecorder(10)
	tr.Record(1, physics.V(0, 0))
	tr.Record(2, physics.V(0, 0))

	if !tr.StopTracking(1) {
		t.Error("StopTracking(1) = false for tracked body")
	}
	if tr.StopTracking(1) {
		t.Error("second StopTracking(1) = true")
	}
	if tr.Tracked(1) {
		t.Error("body 1 still tracked")
	}
	if b := tr.Bodies(); len(b) != 1 || b[0] != 2 {
		t.Errorf("bodies %v, want [2]", b)
	}
}

func TestTrailRecorderLimitAndShift(t *testing.T) {
	tr := session.NewTrailRecorder(5)
	for i := 0; i < 5; i++ {
		tr.Record(1, physics.V(float64(i), 1))
	}
	tr.SetLimit(2)
	path, _ := tr.Path(1)
	if len(path) != 2 || path[0].X != 3 {
		t.Fatalf("after SetLimit(2) path = %v", path)
	}

	tr.Shift(physics.V(1, 1))
	path, _ = tr.Path(1)
	if path[0] != physics.V(2, 0) || path[1] != physics.V(3, 0) {
		t.Errorf("after Shift path = %v", path)
	}
}

func TestUpdateTrailsOnlyWhenTimeAdvances(t *testing.T) {
	world := physicstest.NewWorld(physics.V(0, -10))
	cfg := session.DefaultConfig()
	cfg.TrailsEnabled = true
	cfg.TrailLength = 4
	s, err := session.New(world, nil, cfg)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer s.Close()

	ball := world.CreateBody(physics.BodyDef{
		Type:     physics.DynamicBody,
		Fixtures: []physics.FixtureDef{{Shape: physics.Circle(1), Density: 1}},
	})
	wall := world.CreateBody(physics.BodyDef{
		Type:     physics.StaticBody,
		Fixtures: []physics.FixtureDef{{Shape: physics.Box(5, 1)}},
	})

	settings := session.DefaultSettings()
	for i := 0; i < 6; i++ {
		s.Step(&settings)
	}
	path, ok := s.TrailPath(ball)
	if !ok || len(path) != 4 {
		t.Fatalf("ball trail len %d, want 4", len(path))
	}
	if _, ok := s.TrailPath(wall); ok {
		t.Error("static body has a trail")
	}

	settings.Pause = true
	s.Step(&settings)
	after, _ := s.TrailPath(ball)
	if after[3] != path[3] {
		t.Error("paused step recorded a trail point")
	}

	s.ShiftOrigin(physics.V(0, 1))
	shifted, _ := s.TrailPath(ball)
	if shifted[3].Y != path[3].Y-1 {
		t.Errorf("trail not shifted with origin: %v", shifted[3])
	}
}
