package hpd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/samples"
)

// Result holds the per-node posterior means and HPD intervals of a samples.Set. Node i of
// Means and Intervals corresponds to flat node i of the source set.
type Result struct {
	// Shape is the leading shape of the source set, i.e., without the draw axis.
	Shape []int

	// Means are the per-node posterior means.
	Means []float64

	// Intervals are the per-node HPD intervals.
	Intervals []Interval
}

// Bounds returns the intervals as a set of shape Shape + (2,), with the lower bound at index 0
// and the upper bound at index 1 of the last axis.
func (r *Result) Bounds() *samples.Set {
	bounds := make([]float64, 0, 2*len(r.Intervals))
	for _, i := range r.Intervals {
		bounds = append(bounds, i.Lower, i.Upper)
	}
	s, err := samples.New(append(append([]int{}, r.Shape...), 2), bounds)
	errors.MaybePanic(err) // should never happen
	return s
}

// NodeErrors holds the errors of the nodes that failed estimation, keyed by flat node index.
type NodeErrors struct {
	errs map[int]error
}

// newNodeErrors returns a *NodeErrors for the non-nil errors, or nil if there are none.
func newNodeErrors(nodeErrs []error) error {
	errs := make(map[int]error)
	for node, err := range nodeErrs {
		if err != nil {
			errs[node] = err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &NodeErrors{errs: errs}
}

// Nodes returns the failed node indices in ascending order.
func (ne *NodeErrors) Nodes() []int {
	nodes := make([]int, 0, len(ne.errs))
	for node := range ne.errs {
		nodes = append(nodes, node)
	}
	sort.Ints(nodes)
	return nodes
}

// Get returns the error for the given node, or nil if it did not fail.
func (ne *NodeErrors) Get(node int) error {
	return ne.errs[node]
}

// Map returns a copy of the node errors.
func (ne *NodeErrors) Map() map[int]error {
	errs := make(map[int]error, len(ne.errs))
	for node, err := range ne.errs {
		errs[node] = err
	}
	return errs
}

func (ne *NodeErrors) Error() string {
	msgs := make([]string, 0, len(ne.errs))
	for _, node := range ne.Nodes() {
		msgs = append(msgs, ne.errs[node].Error())
	}
	return fmt.Sprintf("%d node(s) failed: %s", len(ne.errs), strings.Join(msgs, "; "))
}

// Unwrap returns the node errors in ascending node order.
func (ne *NodeErrors) Unwrap() []error {
	errs := make([]error, 0, len(ne.errs))
	for _, node := range ne.Nodes() {
		errs = append(errs, ne.errs[node])
	}
	return errs
}
