package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/physbox/internal/session"
)

// Result summarises a replay.
type Result struct {
	Steps         int
	Events        int
	TotalContacts int
	MaxContacts   int
}

// StepFunc observes the session after each step. Returning an error stops
// the replay.
type StepFunc func(step int, s *session.Session) error

type Runner struct {
	log *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Run steps s sc.Steps times, applying each event before the step it is
// scheduled for.
func (r *Runner) Run(ctx context.Context, s *session.Session, sc *Script, settings session.Settings, onStep StepFunc) (Result, error) {
	var res Result
	next := 0

	for step := 0; step < sc.Steps; step++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		for next < len(sc.Events) && sc.Events[next].At == step {
			e := sc.Events[next]
			if err := Apply(s, &settings, e); err != nil {
				return res, fmt.Errorf("event %d at step %d: %w", next+1, step, err)
			}
			r.log.Debug("event applied", zap.Int("step", step), zap.String("action", e.Action))
			res.Events++
			next++
		}

		s.Step(&settings)
		res.Steps++

		n := len(s.ContactPoints())
		res.TotalContacts += n
		res.MaxContacts = max(res.MaxContacts, n)

		if onStep != nil {
			if err := onStep(step, s); err != nil {
				return res, err
			}
		}
	}

	r.log.Info("replay finished",
		zap.String("script", sc.Name),
		zap.Int("steps", res.Steps),
		zap.Int("events", res.Events),
		zap.Int("contacts", res.TotalContacts))
	return res, nil
}
