package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/session"
)

// KineticEnergy sums 0.5*m*v^2 over the dynamic bodies of w.
func KineticEnergy(w physics.World) float64 {
	var parts []float64
	for _, id := range w.Bodies() {
		if t, ok := w.BodyType(id); !ok || t != physics.DynamicBody {
			continue
		}
		v, _ := w.Velocity(id)
		parts = append(parts, 0.5*w.Mass(id)*v.LengthSquared())
	}
	if len(parts) == 0 {
		return 0
	}
	return floats.Sum(parts)
}

// Energy is the mean kinetic energy over the observed steps.
type Energy struct {
	name    string
	samples []float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *session.Session) {
	e.samples = append(e.samples, KineticEnergy(s.World()))
}

func (e *Energy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return floats.Sum(e.samples) / float64(len(e.samples))
}

func (e *Energy) Reset() { e.samples = e.samples[:0] }

// EnergyDrift is the largest relative change of kinetic energy from the
// first non-zero sample.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *session.Session) {
	energy := KineticEnergy(s.World())
	if e.initial == 0 {
		e.initial = energy
		return
	}
	drift := math.Abs(energy-e.initial) / e.initial
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
}
