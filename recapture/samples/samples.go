package samples

import (
	"fmt"

	"github.com/drausin/recapture/recapture/common/errors"
)

// Set is an immutable, row-major array of posterior draws with arbitrary rank. The last axis is
// the draw axis; any leading axes index independent nodes, which are addressed as a flat arena
// in row-major order.
type Set struct {
	shape []int
	data  []float64
}

// New creates a Set with the given shape from a copy of data.
func New(shape []int, data []float64) (*Set, error) {
	if len(shape) == 0 {
		return nil, errors.NewInvalidParameterError("shape", shape, "must have rank >= 1")
	}
	size := 1
	for _, d := range shape {
		if d < 1 {
			return nil, errors.NewInvalidParameterError("shape", shape,
				"must have every dimension >= 1")
		}
		size *= d
	}
	if len(data) != size {
		return nil, errors.NewInvalidParameterError("data", len(data),
			fmt.Sprintf("length does not match shape %v", shape))
	}
	s := &Set{
		shape: append([]int(nil), shape...),
		data:  make([]float64, size),
	}
	copy(s.data, data)
	return s, nil
}

// FromDraws creates a rank-1 Set (a single node) from a copy of the draws.
func FromDraws(draws []float64) (*Set, error) {
	return New([]int{len(draws)}, draws)
}

// newOwned wraps data without copying. Callers must hand over exclusive ownership of both
// slices.
func newOwned(shape []int, data []float64) *Set {
	return &Set{shape: shape, data: data}
}

// Shape returns a copy of the full shape, including the draw axis.
func (s *Set) Shape() []int {
	return append([]int(nil), s.shape...)
}

// Rank returns the number of axes.
func (s *Set) Rank() int {
	return len(s.shape)
}

// Len returns the total number of elements.
func (s *Set) Len() int {
	return len(s.data)
}

// NDraws returns the length of the draw axis.
func (s *Set) NDraws() int {
	return s.shape[len(s.shape)-1]
}

// LeadingShape returns a copy of the shape without the draw axis. It is empty for rank-1 sets.
func (s *Set) LeadingShape() []int {
	return append([]int{}, s.shape[:len(s.shape)-1]...)
}

// NNodes returns the number of independent nodes, i.e., the product of the leading shape.
func (s *Set) NNodes() int {
	return len(s.data) / s.NDraws()
}

// Node returns a copy of the draws for the given flat node index.
func (s *Set) Node(node int) []float64 {
	n := s.NDraws()
	out := make([]float64, n)
	copy(out, s.data[node*n:(node+1)*n])
	return out
}

// NodeIndex converts a flat node index into its index tuple over the leading shape.
func (s *Set) NodeIndex(node int) []int {
	leading := s.shape[:len(s.shape)-1]
	idx := make([]int, len(leading))
	for ax := len(leading) - 1; ax >= 0; ax-- {
		idx[ax] = node % leading[ax]
		node /= leading[ax]
	}
	return idx
}

// At returns the element at the given full index (leading axes then draw axis). It panics if
// the index has the wrong rank or is out of range.
func (s *Set) At(idx ...int) float64 {
	if len(idx) != len(s.shape) {
		panic(fmt.Sprintf("index rank %d does not match set rank %d", len(idx), len(s.shape)))
	}
	flat := 0
	for ax, i := range idx {
		if i < 0 || i >= s.shape[ax] {
			panic(fmt.Sprintf("index %d out of range on axis %d with size %d", i, ax,
				s.shape[ax]))
		}
		flat = flat*s.shape[ax] + i
	}
	return s.data[flat]
}

// Data returns a copy of the row-major elements.
func (s *Set) Data() []float64 {
	out := make([]float64, len(s.data))
	copy(out, s.data)
	return out
}

// Map returns a new Set with the same shape whose elements are built by fn from the flat
// element index and value. It stops at and returns the first error fn returns.
func (s *Set) Map(fn func(i int, x float64) (float64, error)) (*Set, error) {
	out := make([]float64, len(s.data))
	for i, x := range s.data {
		y, err := fn(i, x)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return newOwned(s.Shape(), out), nil
}
