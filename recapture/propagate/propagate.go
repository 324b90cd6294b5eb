package propagate

import (
	"math"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/samples"
)

// Transform is a pure, elementwise scalar function. It is undefined wherever it returns NaN or
// an infinite value.
type Transform func(x float64) float64

// Propagate applies the transform to every element of the set, returning a new set with the
// same shape and element order. It fails with a *errors.DomainError identifying the first (flat,
// row-major) sample at which the transform is undefined.
func Propagate(s *samples.Set, f Transform) (*samples.Set, error) {
	if s == nil {
		return nil, errors.NewInvalidParameterError("samples", nil, "must not be nil")
	}
	if f == nil {
		return nil, errors.NewInvalidParameterError("transform", nil, "must not be nil")
	}
	return s.Map(func(i int, x float64) (float64, error) {
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, &errors.DomainError{Index: i, Value: x}
		}
		return y, nil
	})
}

// Reciprocal returns the transform x -> k / x, which is undefined at zero.
func Reciprocal(k float64) Transform {
	return func(x float64) float64 {
		return k / x
	}
}

// Scale returns the transform x -> k * x.
func Scale(k float64) Transform {
	return func(x float64) float64 {
		return k * x
	}
}

// Compose returns the transform applying each of fs in order.
func Compose(fs ...Transform) Transform {
	return func(x float64) float64 {
		for _, f := range fs {
			x = f(x)
		}
		return x
	}
}

// PopulationSize returns the transform converting the proportion of caught individuals that
// carry a tag into the total population size, given the number of tagged individuals in the
// population.
func PopulationSize(totalTagged float64) Transform {
	return Reciprocal(totalTagged)
}
