package metrics

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/session"
)

// Stability is the fraction of steps in which no dynamic body moved faster
// than the threshold speed.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sess *session.Session) {
	s.samples++
	w := sess.World()
	for _, id := range w.Bodies() {
		if t, ok := w.BodyType(id); !ok || t != physics.DynamicBody {
			continue
		}
		v, _ := w.Velocity(id)
		if speed := v.Length(); speed > s.threshold || math.IsNaN(speed) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
