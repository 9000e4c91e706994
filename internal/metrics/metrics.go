// Package metrics computes per-run statistics from a stepping session.
package metrics

import "github.com/san-kum/physbox/internal/session"

// Metric observes a session after every step.
type Metric interface {
	Name() string
	Observe(s *session.Session)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every run.
func Defaults() []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStability(50),
		NewContactRate(),
		NewStepTime(),
	}
}

// Collect reads every metric into a name-keyed map.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
