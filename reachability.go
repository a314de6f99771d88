package geohdbscan

import (
	"math"

	"github.com/paulmach/orb"
)

// Reachability selects how an MST edge weight is derived from the core
// distances of its endpoints.
//
// ReachabilityFull is the default. Under ReachabilityCoreMax the edge that
// joins two nearby groups weighs no more than the cores inside them, so the
// hierarchy sees no gap and the groups come out as one cluster or as noise.
// Two triangles about 1 km across and 38 km apart, with K 2 and MinPts 3,
// give two clusters under full reachability and a single cluster with
// most points as noise under coremax. Use coremax only where core distances
// alone are meant to separate clusters.
type Reachability string

const (
	// ReachabilityFull weighs an edge max(core(a), core(b), d(a, b)).
	ReachabilityFull Reachability = "full"

	// ReachabilityCoreMax weighs an edge max(core(a), core(b)) and ignores
	// the distance between the endpoints. Candidates are still chosen by
	// distance, so the result approximates the full tree.
	ReachabilityCoreMax Reachability = "coremax"
)

// weight returns the mutual reachability of two points with core distances
// ca and cb at distance d.
func (r Reachability) weight(ca, cb, d float64) float64 {
	if r == ReachabilityCoreMax {
		return math.Max(ca, cb)
	}
	return max(ca, cb, d)
}

// MutualReachabilityEdge connects two index labels. Node1 is the endpoint with
// the larger core distance. Edges compare equal with == when both endpoints
// and the weight match, so they can be used as map keys.
type MutualReachabilityEdge struct {
	Node1  int
	Node2  int
	Weight float64
}

// NewMutualReachabilityEdge weighs the edge between labels a and b of idx.
func NewMutualReachabilityEdge(idx SpatialIndex, a, b int, mode Reachability) MutualReachabilityEdge {
	ca, cb := idx.CoreDistance(a), idx.CoreDistance(b)
	d := Haversine(idx.Point(a), idx.Point(b))
	if cb > ca {
		a, b = b, a
	}
	return MutualReachabilityEdge{Node1: a, Node2: b, Weight: mode.weight(ca, cb, d)}
}

// Edge returns the edge in MST form, From being the larger-core endpoint.
func (e MutualReachabilityEdge) Edge() Edge {
	return Edge{From: e.Node1, To: e.Node2, Weight: e.Weight}
}

// MutualReachability computes the dense n×n mutual reachability matrix over
// points with the given core distances. The result is flat and row-major; the
// diagonal is 0. Only the exhaustive path and tests use it.
func MutualReachability(points []orb.Point, coreDistances []float64, mode Reachability) []float64 {
	n := len(coreDistances)
	result := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(points[i], points[j])
			w := mode.weight(coreDistances[i], coreDistances[j], d)
			result[i*n+j] = w
			result[j*n+i] = w
		}
	}
	return result
}
