package sim

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/stepsim/internal/motor"
)

// SweepResult is the final state of one sweep run.
type SweepResult struct {
	Config Config
	Final  Snapshot
	// Expected is the step count a perfect clock would produce.
	Expected float64
}

// Ensemble runs independent simulators side by side, one per config.
type Ensemble struct {
	configs []Config
	opts    []Option
}

func NewEnsemble(configs []Config, opts ...Option) *Ensemble {
	return &Ensemble{configs: configs, opts: opts}
}

// Run starts every motor, lets each loop run for d and returns the results
// in config order. Any construction error aborts the sweep before a loop
// is started.
func (e *Ensemble) Run(ctx context.Context, d time.Duration) ([]SweepResult, error) {
	sims := make([]*Simulator, len(e.configs))
	var buildErr error
	for i, cfg := range e.configs {
		s, err := New(cfg, e.opts...)
		if err != nil {
			buildErr = multierr.Append(buildErr, errors.Wrapf(err, "config %d", i))
			continue
		}
		sims[i] = s
	}
	if buildErr != nil {
		return nil, buildErr
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	results := make([]SweepResult, len(sims))
	errs := make([]error, len(sims))

	var wg sync.WaitGroup
	for i, s := range sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()

			if err := s.Send(motor.Start()); err != nil {
				errs[idx] = err
				return
			}
			err := s.Run(ctx)
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				errs[idx] = err
			}
			results[idx] = SweepResult{
				Config:   s.Config(),
				Final:    s.Latest(),
				Expected: d.Seconds() * float64(s.Config().Speed),
			}
		}(i, s)
	}

	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
