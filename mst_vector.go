package geohdbscan

import (
	"math"

	"github.com/paulmach/orb"
)

// PrimMSTVector computes the full mutual reachability MST of points by Prim's
// algorithm without materializing the n×n matrix: O(n²) time, O(n) memory.
// coreDistances has one entry per point. Vertex labels are point indices.
//
// Every edge records the tree vertex it was reached from, not merely the
// previously added vertex.
func PrimMSTVector(points []orb.Point, coreDistances []float64) *MST {
	n := len(points)
	mst := &MST{n: n}
	if n <= 1 {
		return mst
	}

	inTree := make([]bool, n)
	bestWeight := make([]float64, n)
	bestSource := make([]int, n)
	for j := range bestWeight {
		bestWeight[j] = math.Inf(1)
	}

	mst.Edges = make([]Edge, 0, n-1)
	current := 0
	for len(mst.Edges) < n-1 {
		inTree[current] = true
		coreCurrent := coreDistances[current]

		next := -1
		for j := 0; j < n; j++ {
			if inTree[j] {
				continue
			}

			w := max(coreCurrent, coreDistances[j], Haversine(points[current], points[j]))
			if w < bestWeight[j] {
				bestWeight[j] = w
				bestSource[j] = current
			}
			if next < 0 || bestWeight[j] < bestWeight[next] {
				next = j
			}
		}

		mst.Edges = append(mst.Edges, Edge{From: bestSource[next], To: next, Weight: bestWeight[next]})
		current = next
	}
	return mst
}
