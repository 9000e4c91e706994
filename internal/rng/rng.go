// Package rng provides seedable uniform float sampling for scene setup.
package rng

import "math/rand"

// Limit is the resolution of a sample: draws are quantised to 1/Limit.
const Limit = 32767

type Source struct {
	r *rand.Rand
}

func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

func (s *Source) unit() float64 {
	return float64(s.r.Intn(Limit+1)) / Limit
}

// Float returns a number in [-1, 1].
func (s *Source) Float() float64 {
	return 2*s.unit() - 1
}

// Range returns a number in [lo, hi].
func (s *Source) Range(lo, hi float64) float64 {
	return (hi-lo)*s.unit() + lo
}
