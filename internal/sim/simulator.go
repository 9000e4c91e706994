// Package sim steps sessions headless: one at a time with metrics and
// observers, or as a seeded ensemble in parallel.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/session"
)

var ErrNoSteps = errors.New("sim: steps must be positive")

// Observer sees the session after every step. Returning an error stops the
// run.
type Observer interface {
	OnStep(step int, s *session.Session) error
}

type ObserverFunc func(step int, s *session.Session) error

func (f ObserverFunc) OnStep(step int, s *session.Session) error { return f(step, s) }

type Config struct {
	Steps    int
	Settings session.Settings
}

type Result struct {
	Seed          int64
	StepsTaken    int
	TotalContacts int
	MaxContacts   int
	Bodies        int
	Metrics       map[string]float64
	StepTime      metrics.Summary
	Elapsed       time.Duration
}

type Simulator struct {
	metrics   []metrics.Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run steps sess cfg.Steps times. On cancellation the partial result is
// returned with the context error.
func (s *Simulator) Run(ctx context.Context, sess *session.Session, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrNoSteps, cfg.Steps)
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	result := &Result{
		Seed:    sess.Config().Seed,
		Metrics: make(map[string]float64),
	}
	settings := cfg.Settings
	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		result.Bodies = len(sess.World().Bodies())
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
			if st, ok := m.(*metrics.StepTime); ok {
				result.StepTime = metrics.Summarize(st.Samples())
			}
		}
	}()

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sess.Step(&settings)
		result.StepsTaken++

		n := len(sess.ContactPoints())
		result.TotalContacts += n
		result.MaxContacts = max(result.MaxContacts, n)

		for _, m := range s.metrics {
			m.Observe(sess)
		}
		for _, obs := range s.observers {
			if err := obs.OnStep(i, sess); err != nil {
				return result, fmt.Errorf("step %d: %w", i, err)
			}
		}
	}

	return result, nil
}
