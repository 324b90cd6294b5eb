package samples

import (
	"fmt"
	"testing"

	cerrors "github.com/drausin/recapture/recapture/common/errors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ok(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	s, err := New([]int{2, 3, 2}, data)
	require.Nil(t, err)

	assert.Equal(t, []int{2, 3, 2}, s.Shape())
	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, 12, s.Len())
	assert.Equal(t, 2, s.NDraws())
	assert.Equal(t, []int{2, 3}, s.LeadingShape())
	assert.Equal(t, 6, s.NNodes())
	assert.Equal(t, []float64{8, 9}, s.Node(4))
	assert.Equal(t, []int{1, 1}, s.NodeIndex(4))
	assert.Equal(t, float64(9), s.At(1, 1, 1))

	// check we own a copy of the data
	data[0] = 100
	assert.Equal(t, float64(0), s.At(0, 0, 0))
	s.Data()[0] = 100
	s.Node(0)[0] = 100
	s.Shape()[0] = 100
	assert.Equal(t, float64(0), s.At(0, 0, 0))
	assert.Equal(t, 2, s.Shape()[0])
}

func TestNew_err(t *testing.T) {
	cases := []struct {
		shape []int
		data  []float64
	}{
		{nil, []float64{1}},               // 0
		{[]int{}, []float64{1}},           // 1
		{[]int{0}, []float64{}},           // 2
		{[]int{2, 0}, []float64{}},        // 3
		{[]int{-1, 2}, []float64{1, 2}},   // 4
		{[]int{3}, []float64{1, 2}},       // 5
		{[]int{2, 2}, []float64{1, 2, 3}}, // 6
	}
	for i, c := range cases {
		info := fmt.Sprintf("i: %d", i)
		s, err := New(c.shape, c.data)
		assert.True(t, errors.Is(err, cerrors.ErrInvalidParameter), info)
		assert.Nil(t, s, info)
	}
}

func TestFromDraws(t *testing.T) {
	s, err := FromDraws([]float64{3, 1, 2})
	require.Nil(t, err)
	assert.Equal(t, 1, s.Rank())
	assert.Equal(t, 1, s.NNodes())
	assert.Empty(t, s.LeadingShape())
	assert.Empty(t, s.NodeIndex(0))
	assert.Equal(t, []float64{3, 1, 2}, s.Node(0))

	s, err = FromDraws(nil)
	assert.NotNil(t, err)
	assert.Nil(t, s)
}

func TestSet_At_panics(t *testing.T) {
	s, err := New([]int{2, 2}, []float64{1, 2, 3, 4})
	require.Nil(t, err)
	assert.Panics(t, func() { s.At(0) })
	assert.Panics(t, func() { s.At(2, 0) })
	assert.Panics(t, func() { s.At(0, -1) })
}

func TestSet_Map(t *testing.T) {
	s, err := New([]int{2, 2}, []float64{1, 2, 3, 4})
	require.Nil(t, err)

	doubled, err := s.Map(func(i int, x float64) (float64, error) { return 2 * x, nil })
	require.Nil(t, err)
	assert.Equal(t, []int{2, 2}, doubled.Shape())
	assert.Equal(t, []float64{2, 4, 6, 8}, doubled.Data())
	assert.Equal(t, []float64{1, 2, 3, 4}, s.Data())

	visited := make([]int, 0)
	failed, err := s.Map(func(i int, x float64) (float64, error) {
		visited = append(visited, i)
		if x == 3 {
			return 0, errors.New("some error")
		}
		return x, nil
	})
	assert.NotNil(t, err)
	assert.Nil(t, failed)
	assert.Equal(t, []int{0, 1, 2}, visited)
}
