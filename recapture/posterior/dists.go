package posterior

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// BetaParameters contains the parameters for a beta distribution.
type BetaParameters struct {
	Alpha float64
	Beta  float64
}

// Dist returns a Beta distribution instance from the given parameters, drawing from src.
func (p *BetaParameters) Dist(src rand.Source) distuv.Beta {
	return distuv.Beta{
		Alpha: p.Alpha,
		Beta:  p.Beta,
		Src:   src,
	}
}

// Mean returns the analytic mean of the distribution.
func (p *BetaParameters) Mean() float64 {
	return p.Dist(nil).Mean()
}

// EqualTailed returns the central interval containing the given probability mass, leaving
// (1 - mass) / 2 in each tail.
func (p *BetaParameters) EqualTailed(mass float64) (float64, float64) {
	d := p.Dist(nil)
	tail := (1 - mass) / 2
	return d.Quantile(tail), d.Quantile(1 - tail)
}

// NewSource returns a deterministic random source for the given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}
