package hpd

import (
	"math"
	"sort"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/samples"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultCredibleMass is the default posterior probability mass an interval must contain.
	DefaultCredibleMass = 0.95

	// DefaultParallelism is the default number of nodes estimated concurrently.
	DefaultParallelism = uint32(3)
)

// ErrZeroParallelism indicates when the estimation parallelism is improperly set to zero.
var ErrZeroParallelism = errors.NewInvalidParameterError("parallelism", 0, "must be >= 1")

// Parameters define the parameters used by an Estimator.
type Parameters struct {
	// Parallelism is the maximum number of nodes whose intervals are estimated concurrently.
	Parallelism uint32
}

// NewParameters creates a new *Parameters instance.
func NewParameters(parallelism uint32) (*Parameters, error) {
	if parallelism == 0 {
		return nil, ErrZeroParallelism
	}
	return &Parameters{Parallelism: parallelism}, nil
}

// NewDefaultParameters returns a new *Parameters instance with default values.
func NewDefaultParameters() *Parameters {
	return &Parameters{Parallelism: DefaultParallelism}
}

// Interval is a credible interval with Lower <= Upper.
type Interval struct {
	Lower float64
	Upper float64
}

// Width returns the width of the interval.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// Valid returns whether the interval holds a successfully estimated node.
func (i Interval) Valid() bool {
	return !math.IsNaN(i.Lower) && !math.IsNaN(i.Upper)
}

var failedInterval = Interval{Lower: math.NaN(), Upper: math.NaN()}

// Estimator computes posterior means and highest posterior density intervals for each node of a
// samples.Set.
type Estimator interface {
	// Estimate computes the mean and minimum-width interval containing credibleMass of the
	// draws for every node. When some nodes fail, it returns the estimate for the others along
	// with a *NodeErrors error, and the failed nodes hold NaN means and bounds.
	Estimate(s *samples.Set, credibleMass float64) (*Result, error)
}

type estimator struct {
	params *Parameters
}

// NewEstimator returns a new Estimator with the given parameters.
func NewEstimator(params *Parameters) Estimator {
	return &estimator{params: params}
}

// NewDefaultEstimator returns a new Estimator with default parameters.
func NewDefaultEstimator() Estimator {
	return NewEstimator(NewDefaultParameters())
}

// Estimate computes the node means and HPD intervals with the default estimator.
func Estimate(s *samples.Set, credibleMass float64) (*Result, error) {
	return NewDefaultEstimator().Estimate(s, credibleMass)
}

func (e *estimator) Estimate(s *samples.Set, credibleMass float64) (*Result, error) {
	if e.params.Parallelism == 0 {
		return nil, ErrZeroParallelism
	}
	if s == nil {
		return nil, errors.NewInvalidParameterError("samples", nil, "must not be nil")
	}
	if !(credibleMass > 0 && credibleMass <= 1) {
		return nil, errors.NewInvalidParameterError("credibleMass", credibleMass,
			"must be in (0, 1]")
	}

	nNodes := s.NNodes()
	est := &Result{
		Shape:     s.LeadingShape(),
		Means:     make([]float64, nNodes),
		Intervals: make([]Interval, nNodes),
	}
	nodeErrs := make([]error, nNodes)

	var g errgroup.Group
	g.SetLimit(int(e.params.Parallelism))
	for node := 0; node < nNodes; node++ {
		g.Go(func() error {
			// each node only writes to its own slots
			est.Means[node], est.Intervals[node], nodeErrs[node] =
				estimateNode(s.Node(node), node, credibleMass)
			return nil
		})
	}
	_ = g.Wait()

	if err := newNodeErrors(nodeErrs); err != nil {
		return est, err
	}
	return est, nil
}

// estimateNode computes the mean and HPD interval of a single node's draws, which it sorts in
// place.
func estimateNode(draws []float64, node int, credibleMass float64) (float64, Interval, error) {
	interval, err := minWidthInterval(draws, node, credibleMass)
	if err != nil {
		return math.NaN(), failedInterval, err
	}
	return stat.Mean(draws, nil), interval, nil
}

// minWidthInterval sorts the draws in place and returns the narrowest window spanning
// floor(credibleMass * n) order statistics. Ties go to the leftmost window. A credible mass of 1
// spans every order statistic, which no finite set of draws can represent.
func minWidthInterval(draws []float64, node int, credibleMass float64) (Interval, error) {
	if !allFinite(draws) {
		return failedInterval, errors.NewInvalidParameterError("samples", node,
			"node has NaN or infinite draws")
	}
	n := len(draws)
	sort.Float64s(draws)
	intervalIdxInc := int(math.Floor(credibleMass * float64(n)))
	nIntervals := n - intervalIdxInc
	if nIntervals <= 0 {
		return failedInterval, &errors.InsufficientSamplesError{
			Node:         node,
			NDraws:       n,
			CredibleMass: credibleMass,
		}
	}
	widths := floats.SubTo(make([]float64, nIntervals), draws[intervalIdxInc:],
		draws[:nIntervals])
	minIdx := floats.MinIdx(widths)
	return Interval{Lower: draws[minIdx], Upper: draws[minIdx+intervalIdxInc]}, nil
}

func allFinite(x []float64) bool {
	if floats.HasNaN(x) {
		return false
	}
	for _, v := range x {
		if math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
