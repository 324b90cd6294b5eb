package posterior

import (
	"fmt"
	"math/rand/v2"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/samples"
)

var (
	// DefaultPriorSuccesses is the prior pseudo-count of successes of a flat Beta(1, 1) prior.
	DefaultPriorSuccesses = int64(1)

	// DefaultPriorFailures is the prior pseudo-count of failures of a flat Beta(1, 1) prior.
	DefaultPriorFailures = int64(1)
)

// Observation holds prior pseudo-counts along with the observed binomial counts. It is
// immutable once created.
type Observation struct {
	priorSuccesses int64
	priorFailures  int64
	trials         int64
	successes      int64
}

// NewObservation validates the counts and returns a new *Observation.
func NewObservation(priorSuccesses, priorFailures, trials, successes int64) (
	*Observation, error) {
	if priorSuccesses < 0 {
		return nil, errors.NewInvalidParameterError("priorSuccesses", priorSuccesses,
			"must be non-negative")
	}
	if priorFailures < 0 {
		return nil, errors.NewInvalidParameterError("priorFailures", priorFailures,
			"must be non-negative")
	}
	if trials < 0 {
		return nil, errors.NewInvalidParameterError("trials", trials, "must be non-negative")
	}
	if successes < 0 {
		return nil, errors.NewInvalidParameterError("successes", successes,
			"must be non-negative")
	}
	if successes > trials {
		return nil, errors.NewInvalidParameterError("successes", successes,
			fmt.Sprintf("exceeds trials %d", trials))
	}
	o := &Observation{
		priorSuccesses: priorSuccesses,
		priorFailures:  priorFailures,
		trials:         trials,
		successes:      successes,
	}
	if p := o.Posterior(); p.Alpha <= 0 || p.Beta <= 0 {
		// e.g., a zero prior with no observed successes has no proper posterior
		return nil, errors.NewInvalidParameterError("posterior", *p,
			"must have positive shape parameters")
	}
	return o, nil
}

// NewFlatObservation returns a new *Observation under a flat Beta(1, 1) prior.
func NewFlatObservation(trials, successes int64) (*Observation, error) {
	return NewObservation(DefaultPriorSuccesses, DefaultPriorFailures, trials, successes)
}

// PriorSuccesses returns the prior pseudo-count of successes.
func (o *Observation) PriorSuccesses() int64 { return o.priorSuccesses }

// PriorFailures returns the prior pseudo-count of failures.
func (o *Observation) PriorFailures() int64 { return o.priorFailures }

// Trials returns the number of observed trials.
func (o *Observation) Trials() int64 { return o.trials }

// Successes returns the number of observed successes.
func (o *Observation) Successes() int64 { return o.successes }

// Posterior returns the conjugate Beta posterior parameters, constructed from the prior
// pseudo-counts plus the observed successes and failures.
func (o *Observation) Posterior() *BetaParameters {
	return &BetaParameters{
		Alpha: float64(o.priorSuccesses + o.successes),
		Beta:  float64(o.priorFailures + o.trials - o.successes),
	}
}

// Sample draws count independent samples from the observation's posterior, returning a rank-1
// samples.Set.
func Sample(obs *Observation, count int, src rand.Source) (*samples.Set, error) {
	draws, err := draw([]*Observation{obs}, count, src)
	if err != nil {
		return nil, err
	}
	return samples.New([]int{count}, draws)
}

// SampleBatch draws count independent samples from each observation's posterior, returning a
// samples.Set of shape (len(obs), count) whose node i is drawn from obs[i]. Nodes are drawn in
// order from the same source, so the result is reproducible for a given seed.
func SampleBatch(obs []*Observation, count int, src rand.Source) (*samples.Set, error) {
	draws, err := draw(obs, count, src)
	if err != nil {
		return nil, err
	}
	return samples.New([]int{len(obs), count}, draws)
}

func draw(obs []*Observation, count int, src rand.Source) ([]float64, error) {
	if count < 1 {
		return nil, errors.NewInvalidParameterError("count", count, "must be >= 1")
	}
	if len(obs) == 0 {
		return nil, errors.NewInvalidParameterError("observations", 0, "must be non-empty")
	}
	for i, o := range obs {
		if o == nil {
			return nil, errors.NewInvalidParameterError("observations", i, "must not be nil")
		}
	}
	if src == nil {
		return nil, errors.NewInvalidParameterError("src", nil, "must not be nil")
	}
	draws := make([]float64, len(obs)*count)
	for i, o := range obs {
		d := o.Posterior().Dist(src)
		node := draws[i*count : (i+1)*count]
		for j := range node {
			node[j] = d.Rand()
		}
	}
	return draws, nil
}

// SampleCounts validates the counts and draws count posterior samples from a source seeded with
// seed. It is the single-call entrypoint for callers holding plain scalars.
func SampleCounts(priorSuccesses, priorFailures, trials, successes int64, count int,
	seed uint64) (*samples.Set, error) {
	obs, err := NewObservation(priorSuccesses, priorFailures, trials, successes)
	if err != nil {
		return nil, err
	}
	return Sample(obs, count, NewSource(seed))
}
