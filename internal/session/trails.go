package session

import (
	"iter"

	"github.com/san-kum/physbox/internal/physics"
)

const DefaultTrailLength = 100

// Segment is one line piece of a trail.
type Segment struct {
	From, To physics.Vec2
}

// TrailRecorder keeps a bounded position history per body. It holds body ids
// without owning the bodies, so whoever destroys a body must call
// StopTracking first.
type TrailRecorder struct {
	enabled bool
	limit   int
	order   []physics.BodyID
	paths   map[physics.BodyID][]physics.Vec2
}

func NewTrailRecorder(limit int) *TrailRecorder {
	if limit < 1 {
		limit = DefaultTrailLength
	}
	return &TrailRecorder{
		limit: limit,
		paths: make(map[physics.BodyID][]physics.Vec2),
	}
}

func (t *TrailRecorder) Enabled() bool { return t.enabled }

// SetEnabled toggles recording. Existing histories are kept either way.
func (t *TrailRecorder) SetEnabled(on bool) { t.enabled = on }

func (t *TrailRecorder) Limit() int { return t.limit }

// SetLimit changes the cap and trims longer histories from the front.
func (t *TrailRecorder) SetLimit(n int) {
	if n < 1 {
		n = DefaultTrailLength
	}
	t.limit = n
	for id, path := range t.paths {
		if len(path) > n {
			t.paths[id] = append([]physics.Vec2(nil), path[len(path)-n:]...)
		}
	}
}

// Record appends p to the body's trail, evicting the oldest point when the
// trail is full. Untracked bodies start being tracked.
func (t *TrailRecorder) Record(id physics.BodyID, p physics.Vec2) {
	path, ok := t.paths[id]
	if !ok {
		t.order = append(t.order, id)
		path = make([]physics.Vec2, 0, t.limit)
	}
	if len(path) >= t.limit {
		copy(path, path[len(path)-t.limit+1:])
		path = path[:t.limit-1]
	}
	t.paths[id] = append(path, p)
}

// StopTracking forgets a body's trail. It reports whether the body was tracked.
func (t *TrailRecorder) StopTracking(id physics.BodyID) bool {
	if _, ok := t.paths[id]; !ok {
		return false
	}
	delete(t.paths, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *TrailRecorder) Tracked(id physics.BodyID) bool {
	_, ok := t.paths[id]
	return ok
}

// Bodies returns the tracked bodies in the order they were first recorded.
func (t *TrailRecorder) Bodies() []physics.BodyID {
	return append([]physics.BodyID(nil), t.order...)
}

// Path returns a copy of a body's trail, oldest point first.
func (t *TrailRecorder) Path(id physics.BodyID) ([]physics.Vec2, bool) {
	path, ok := t.paths[id]
	if !ok {
		return nil, false
	}
	return append([]physics.Vec2(nil), path...), true
}

// Segments yields every trail as consecutive line segments. The sequence
// reads the recorder lazily and can be ranged over any number of times.
func (t *TrailRecorder) Segments() iter.Seq2[physics.BodyID, Segment] {
	return func(yield func(physics.BodyID, Segment) bool) {
		for _, id := range t.order {
			path := t.paths[id]
			for i := 1; i < len(path); i++ {
				if !yield(id, Segment{From: path[i-1], To: path[i]}) {
					return
				}
			}
		}
	}
}

// Shift moves every recorded point by -origin, matching a world origin shift.
func (t *TrailRecorder) Shift(origin physics.Vec2) {
	for _, path := range t.paths {
		for i := range path {
			path[i] = path[i].Sub(origin)
		}
	}
}

func (t *TrailRecorder) Clear() {
	t.order = nil
	t.paths = make(map[physics.BodyID][]physics.Vec2)
}
