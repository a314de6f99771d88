package geohdbscan

import (
	"math"

	"github.com/paulmach/orb"
)

// addNeighbor offers b to a's neighbor set. The distance is returned whether
// or not it was accepted so the caller can offer a to b without computing it
// again.
func (t *NearestKDTree) addNeighbor(a, b int) (float64, bool) {
	d := Haversine(t.nodes[a].Point, t.nodes[b].Point)
	return d, t.addNeighborAt(a, b, d)
}

// addNeighborAt offers b to a's neighbor set at a known distance.
func (t *NearestKDTree) addNeighborAt(a, b int, d float64) bool {
	node := &t.nodes[a]
	if !node.neighbors.add(b, d) {
		return false
	}
	if node.neighbors.full() {
		node.hasK = true
	}
	return true
}

// offer performs mutual insertion of every candidate with label.
func (t *NearestKDTree) offer(label int, candidates []int) {
	for i := len(candidates) - 1; i >= 0; i-- {
		other := candidates[i]
		if other == label {
			continue
		}
		d, _ := t.addNeighbor(label, other)
		t.addNeighborAt(other, label, d)
	}
}

// calculateBBox caches the box around label for the given radius.
func (t *NearestKDTree) calculateBBox(label int, radius float64) orb.Bound {
	node := &t.nodes[label]
	node.bbox = BoundAround(node.Point, radius)
	node.bboxDist = math.Max(node.bboxDist, radius)
	return node.bbox
}

// FindKNN fills every node's neighbor set with its K nearest neighbors.
//
// Nodes are visited in label order. A node that already holds K neighbors
// (filled in by earlier mutual insertions) runs a range query around its
// median neighbor distance; any other node gathers candidates from its
// ancestors and the subtrees below it, then runs the median range query.
// Every candidate is offered to both sides. Finally the search radius is
// stepped up through the node's own neighbor distances until it reaches the
// core distance, at which point the set is exact.
func (t *NearestKDTree) FindKNN() error {
	if t.k == 0 {
		return nil
	}

	for label := range t.nodes {
		node := &t.nodes[label]

		envQuery := node.hasK
		if envQuery {
			r, _ := node.neighbors.median()
			t.offer(label, t.Query(t.calculateBBox(label, r)))
		} else {
			t.offer(label, t.localCandidates(label))
		}

		if !envQuery {
			if r, ok := node.neighbors.median(); ok {
				t.offer(label, t.Query(t.calculateBBox(label, r)))
			}
		}

		if err := t.refine(label); err != nil {
			return err
		}
	}
	return nil
}

// refine widens label's search box until it covers the core distance.
func (t *NearestKDTree) refine(label int) error {
	node := &t.nodes[label]
	for round := 0; ; round++ {
		if round > t.k+2 {
			return &InvariantError{
				Op:      "knn",
				Cluster: -1,
				Node:    label,
				Count:   node.neighbors.len(),
				Detail:  "neighbor search radius did not converge",
			}
		}

		if !node.hasK {
			// Too few neighbors anywhere near: the whole index is the box.
			t.offer(label, t.Query(t.extent))
			node.bboxDist = math.Inf(1)
			if !node.hasK {
				return &InvariantError{
					Op:      "knn",
					Cluster: -1,
					Node:    label,
					Count:   node.neighbors.len(),
					Detail:  "fewer than K neighbors in the full index",
				}
			}
			return nil
		}

		core := node.neighbors.core()
		if node.bboxDist >= core {
			return nil
		}

		r, ok := node.neighbors.higher(node.bboxDist)
		if !ok {
			r = core
		}
		t.offer(label, t.Query(t.calculateBBox(label, r)))
	}
}
