package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/physbox/internal/session"
)

// ContactRate is the mean number of contact samples per step.
type ContactRate struct {
	name   string
	counts []float64
}

func NewContactRate() *ContactRate {
	return &ContactRate{name: "contacts_per_step"}
}

func (c *ContactRate) Name() string { return c.name }

func (c *ContactRate) Observe(s *session.Session) {
	c.counts = append(c.counts, float64(len(s.ContactPoints())))
}

func (c *ContactRate) Value() float64 {
	if len(c.counts) == 0 {
		return 0
	}
	return stat.Mean(c.counts, nil)
}

func (c *ContactRate) Reset() { c.counts = c.counts[:0] }

// StepTime is the mean engine step time in milliseconds.
type StepTime struct {
	name  string
	times []float64
}

func NewStepTime() *StepTime {
	return &StepTime{name: "step_ms"}
}

func (st *StepTime) Name() string { return st.name }

func (st *StepTime) Observe(s *session.Session) {
	st.times = append(st.times, s.World().Profile().Step)
}

func (st *StepTime) Value() float64 {
	if len(st.times) == 0 {
		return 0
	}
	return stat.Mean(st.times, nil)
}

func (st *StepTime) Reset() { st.times = st.times[:0] }

// Samples returns the recorded step times.
func (st *StepTime) Samples() []float64 { return append([]float64(nil), st.times...) }
