package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/session"
)

// SessionFactory builds an independent session for one ensemble member.
type SessionFactory func(seed int64) (*session.Session, error)

// Ensemble runs the same session with consecutive seeds. Each member has
// its own session and metric set. Engine calls that reach shared engine
// state are serialised by the engine adapter.
type Ensemble struct {
	factory   SessionFactory
	metrics   func() []metrics.Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory SessionFactory, newMetrics func() []metrics.Metric, numRuns int, seedStart int64) *Ensemble {
	if newMetrics == nil {
		newMetrics = metrics.Defaults
	}
	return &Ensemble{factory: factory, metrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per member, in seed order. The first member error
// is returned.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			sess, err := e.factory(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("member %d: %w", idx, err)
				return
			}
			defer sess.Close()

			sim := New()
			for _, m := range e.metrics() {
				sim.AddMetric(m)
			}
			results[idx], errs[idx] = sim.Run(ctx, sess, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
