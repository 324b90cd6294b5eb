package hpd

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	cerrors "github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/samples"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewParameters(t *testing.T) {
	p, err := NewParameters(2)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), p.Parallelism)

	p, err = NewParameters(0)
	assert.Equal(t, ErrZeroParallelism, err)
	assert.Nil(t, p)
}

func TestEstimate_singleNode(t *testing.T) {
	cases := []struct {
		draws    []float64
		mass     float64
		expected Interval
		mean     float64
	}{
		// all windows have equal width, so leftmost wins
		{[]float64{7, 3, 10, 1, 5, 9, 2, 8, 4, 6}, 0.5, Interval{1, 6}, 5.5}, // 0
		{[]float64{0, 1, 2, 3, 4}, 0.4, Interval{0, 2}, 2},                   // 1

		// narrowest window sits in the dense region
		{[]float64{5, 1.2, 0, 1.1, 1.3, 1}, 0.5, Interval{1, 1.3}, 9.6 / 6},       // 2
		{[]float64{1, 2, 100, 101, 102, 103}, 0.5, Interval{100, 103}, 409.0 / 6}, // 3

		// single draw spans zero order statistics
		{[]float64{0.3}, 0.95, Interval{0.3, 0.3}, 0.3}, // 4
	}
	for i, c := range cases {
		info := fmt.Sprintf("i: %d", i)
		s, err := samples.FromDraws(c.draws)
		require.Nil(t, err, info)

		est, err := Estimate(s, c.mass)
		require.Nil(t, err, info)
		assert.Empty(t, est.Shape, info)
		assert.Equal(t, 1, len(est.Means), info)
		assert.InDelta(t, c.mean, est.Means[0], 1e-12, info)
		assert.Equal(t, c.expected, est.Intervals[0], info)
	}
}

func TestEstimate_doesNotMutateSamples(t *testing.T) {
	draws := []float64{3, 1, 2}
	s, err := samples.FromDraws(draws)
	require.Nil(t, err)
	_, err = Estimate(s, 0.5)
	require.Nil(t, err)
	assert.Equal(t, draws, s.Data())
}

func TestEstimate_shape(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	shapes := [][]int{
		{50},
		{4, 50},
		{2, 3, 50},
		{2, 1, 3, 7},
	}
	for i, shape := range shapes {
		info := fmt.Sprintf("i: %d", i)
		s := newTestSet(rng, shape)
		est, err := Estimate(s, DefaultCredibleMass)
		require.Nil(t, err, info)

		leading := shape[:len(shape)-1]
		assert.Equal(t, s.NNodes(), len(est.Means), info)
		assert.Equal(t, s.NNodes(), len(est.Intervals), info)
		assert.Equal(t, append([]int{}, leading...), est.Shape, info)
		assert.Equal(t, append(append([]int{}, leading...), 2), est.Bounds().Shape(), info)

		// bounds are stored (lower, upper) along the last axis
		bounds := est.Bounds().Data()
		for node, interval := range est.Intervals {
			assert.Equal(t, interval.Lower, bounds[2*node], info)
			assert.Equal(t, interval.Upper, bounds[2*node+1], info)
		}
	}
}

func TestEstimate_validMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	s := newTestSet(rng, []int{5, 200})
	for _, mass := range []float64{0.1, 0.5, 0.8, 0.95, 0.99} {
		info := fmt.Sprintf("mass: %v", mass)
		est, err := Estimate(s, mass)
		require.Nil(t, err, info)

		for node, interval := range est.Intervals {
			draws := s.Node(node)
			assert.True(t, interval.Lower <= interval.Upper, info)
			assert.Contains(t, draws, interval.Lower, info)
			assert.Contains(t, draws, interval.Upper, info)

			// no window with the same span is narrower
			sorted := sortedCopy(draws)
			k := int(math.Floor(mass * float64(len(sorted))))
			for j := 0; j+k < len(sorted); j++ {
				assert.True(t, interval.Width() <= sorted[j+k]-sorted[j], info)
			}
		}
	}
}

func TestEstimate_monotonicInMass(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	s := newTestSet(rng, []int{3, 500})
	prev := make([]float64, s.NNodes())
	for mass := 0.05; mass < 1; mass += 0.05 {
		est, err := Estimate(s, mass)
		require.Nil(t, err)
		for node, interval := range est.Intervals {
			assert.True(t, interval.Width() >= prev[node], fmt.Sprintf("mass: %v", mass))
			prev[node] = interval.Width()
		}
	}
}

func TestEstimate_insufficientSamples(t *testing.T) {
	s, err := samples.FromDraws([]float64{0.5})
	require.Nil(t, err)

	est, err := Estimate(s, 1)
	assert.True(t, errors.Is(err, cerrors.ErrInsufficientSamples))
	nodeErrs, ok := err.(*NodeErrors)
	require.True(t, ok)
	assert.Equal(t, []int{0}, nodeErrs.Nodes())

	var ise *cerrors.InsufficientSamplesError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 0, ise.Node)
	assert.Equal(t, 1, ise.NDraws)
	assert.False(t, est.Intervals[0].Valid())
	assert.True(t, math.IsNaN(est.Means[0]))
}

func TestEstimate_partialFailure(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	data := newTestSet(rng, []int{4, 20}).Data()
	data[2*20+3] = math.NaN() // poison node 2
	s, err := samples.New([]int{4, 20}, data)
	require.Nil(t, err)

	est, err := Estimate(s, DefaultCredibleMass)
	require.NotNil(t, err)
	require.NotNil(t, est)

	nodeErrs, ok := err.(*NodeErrors)
	require.True(t, ok)
	assert.Equal(t, []int{2}, nodeErrs.Nodes())
	assert.True(t, errors.Is(nodeErrs.Get(2), cerrors.ErrInvalidParameter))
	assert.Nil(t, nodeErrs.Get(1))
	assert.Equal(t, 1, len(nodeErrs.Map()))
	assert.Contains(t, err.Error(), "1 node(s) failed")

	for node, interval := range est.Intervals {
		assert.Equal(t, node != 2, interval.Valid(), fmt.Sprintf("node: %d", node))
	}
}

func TestEstimate_nonFiniteDraws(t *testing.T) {
	cases := [][]float64{
		{1, 2, math.NaN(), 4},              // 0
		{1, 2, math.Inf(1), 4},             // 1
		{math.Inf(-1), math.Inf(-1), 0, 5}, // 2
	}
	for i, draws := range cases {
		info := fmt.Sprintf("i: %d", i)
		s, err := samples.FromDraws(draws)
		require.Nil(t, err, info)

		est, err := Estimate(s, 0.5)
		assert.True(t, errors.Is(err, cerrors.ErrInvalidParameter), info)
		require.NotNil(t, est, info)
		assert.False(t, est.Intervals[0].Valid(), info)
	}
}

func TestResult_Bounds(t *testing.T) {
	r := &Result{
		Shape:     []int{2},
		Means:     []float64{1, 2},
		Intervals: []Interval{{Lower: 0.5, Upper: 1.5}, failedInterval},
	}
	bounds := r.Bounds()
	assert.Equal(t, []int{2, 2}, bounds.Shape())
	assert.Equal(t, 0.5, bounds.At(0, 0))
	assert.Equal(t, 1.5, bounds.At(0, 1))
	assert.True(t, math.IsNaN(bounds.At(1, 0)))
}

func TestEstimate_parallelismInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	s := newTestSet(rng, []int{16, 300})

	p1, err := NewParameters(1)
	require.Nil(t, err)
	p8, err := NewParameters(8)
	require.Nil(t, err)
	est1, err := NewEstimator(p1).Estimate(s, DefaultCredibleMass)
	require.Nil(t, err)
	est8, err := NewEstimator(p8).Estimate(s, DefaultCredibleMass)
	require.Nil(t, err)

	assert.Equal(t, est1, est8)
}

func TestEstimate_err(t *testing.T) {
	s, err := samples.FromDraws([]float64{1, 2, 3})
	require.Nil(t, err)

	for i, mass := range []float64{0, -0.5, 1.5, math.NaN()} {
		est, err := Estimate(s, mass)
		assert.True(t, errors.Is(err, cerrors.ErrInvalidParameter), fmt.Sprintf("i: %d", i))
		assert.Nil(t, est)
	}

	est, err := Estimate(nil, DefaultCredibleMass)
	assert.True(t, errors.Is(err, cerrors.ErrInvalidParameter))
	assert.Nil(t, est)

	est, err = NewEstimator(&Parameters{}).Estimate(s, DefaultCredibleMass)
	assert.Equal(t, ErrZeroParallelism, err)
	assert.Nil(t, est)
}

func TestInterval(t *testing.T) {
	i := Interval{Lower: 1, Upper: 3.5}
	assert.Equal(t, 2.5, i.Width())
	assert.True(t, i.Valid())
	assert.False(t, failedInterval.Valid())
}

func newTestSet(rng *rand.Rand, shape []int) *samples.Set {
	size := 1
	for _, d := range shape {
		size *= d
	}
	data := make([]float64, size)
	for i := range data {
		// right-skewed draws, so HPD and equal-tailed intervals differ
		data[i] = math.Exp(rng.NormFloat64())
	}
	s, err := samples.New(shape, data)
	cerrors.MaybePanic(err)
	return s
}

func sortedCopy(x []float64) []float64 {
	sorted := append([]float64{}, x...)
	sort.Float64s(sorted)
	return sorted
}
