package geohdbscan

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// BruteForceKNN returns, for every point, its k nearest other points by
// exhaustive search, nearest first with ties broken by index. k is clamped to
// [0, n-1].
func BruteForceKNN(points []orb.Point, k int) [][]Neighbor {
	n := len(points)
	k = min(k, n-1)
	k = max(k, 0)

	result := make([][]Neighbor, n)
	all := make([]Neighbor, 0, n)
	for i := range points {
		all = all[:0]
		for j := range points {
			if j != i {
				all = append(all, Neighbor{Label: j, Distance: Haversine(points[i], points[j])})
			}
		}
		sort.Slice(all, func(a, b int) bool {
			if all[a].Distance != all[b].Distance {
				return all[a].Distance < all[b].Distance
			}
			return all[a].Label < all[b].Label
		})
		result[i] = append([]Neighbor(nil), all[:k]...)
	}
	return result
}

// ComputeCoreDistances returns the distance from every point to its kth
// nearest other point, by exhaustive search. k is clamped to [0, n-1]; a
// point without neighbors has core distance +Inf.
func ComputeCoreDistances(points []orb.Point, k int) []float64 {
	knn := BruteForceKNN(points, k)
	core := make([]float64, len(points))
	for i, nbs := range knn {
		if len(nbs) == 0 {
			core[i] = math.Inf(1)
			continue
		}
		core[i] = nbs[len(nbs)-1].Distance
	}
	return core
}
