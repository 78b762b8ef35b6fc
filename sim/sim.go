// Package sim runs batches of independent trials against a selected
// environment: fixed-count batches and cartesian-product parameter
// sweeps. The harness is single-threaded and non-reentrant; parallelism,
// when wanted, belongs at the instance boundary (one simulator plus one
// environment per worker).
package sim

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"enhancesim/framework"
)

var (
	// ErrInvalidTrialCount reports a negative trial count.
	ErrInvalidTrialCount = errors.New("trial count cannot be negative")
	// ErrNoFramework reports a run without a selected environment.
	ErrNoFramework = errors.New("no environment selected")
)

// Simulator holds one active environment and runs trials against it.
type Simulator struct {
	fw framework.Framework
}

func New() *Simulator {
	return &Simulator{}
}

// SetFramework replaces the active environment. Not valid while trials
// are in flight.
func (s *Simulator) SetFramework(fw framework.Framework) {
	s.fw = fw
}

// Framework returns the active environment, or nil.
func (s *Simulator) Framework() framework.Framework {
	return s.fw
}

// Run executes trials independent trials with the same argument map and
// returns their results in order. The environment's randomness stream is
// not reset between calls, so successive batches on one simulator sample
// a continuous stream.
func (s *Simulator) Run(trials int, args framework.Args) ([]framework.Result, error) {
	if trials < 0 {
		return nil, fmt.Errorf("%w (was %d)", ErrInvalidTrialCount, trials)
	}
	if s.fw == nil {
		return nil, ErrNoFramework
	}

	results := make([]framework.Result, 0, trials)
	for i := 0; i < trials; i++ {
		result, err := s.fw.Spec().RunValidated(args, s.fw.Trial)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// GridSearch runs a batch of trials for every combination in the
// cartesian product of the grid arguments' candidate lists, merged with
// the static arguments. The enumeration is deterministic, exhaustive and
// duplicate-free: exactly the product of the candidate counts, each
// combination traversed once.
func (s *Simulator) GridSearch(trials int, grid map[string][]any, static framework.Args) (*GridResult, error) {
	if trials < 0 {
		return nil, fmt.Errorf("%w (was %d)", ErrInvalidTrialCount, trials)
	}
	if s.fw == nil {
		return nil, ErrNoFramework
	}

	names := gridNames(grid)
	gr := newGridResult(names)
	next := cartesian(names, grid)

	log.Info().Msgf("starting grid search over %d argument(s), %d trial(s) per point", len(names), trials)

	count := 0
	for point, ok := next(); ok; point, ok = next() {
		args := make(framework.Args, len(static)+len(point))
		for name, value := range static {
			args[name] = value
		}
		for name, value := range point {
			args[name] = value
		}

		batch, err := s.Run(trials, args)
		if err != nil {
			return nil, fmt.Errorf("grid point %s: %w", pointKey(names, point), err)
		}
		gr.add(point, batch)
		count++
	}

	log.Info().Msgf("completed grid search: %d point(s)", count)
	return gr, nil
}
