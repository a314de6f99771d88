package geohdbscan

import (
	"math"
	"sort"
)

// Labels assigns every point of the hierarchy to a selected cluster. Selected
// clusters are numbered 0..m-1 in label order. A point gets the number of the
// selected cluster that is, or is an ancestor of, the deepest cluster it
// belonged to. Noise points and points that left the tree above every
// selected cluster get -1.
func (h *Hierarchy) Labels(selected []int) []int {
	rank := selectionRank(selected)

	labels := make([]int, h.n)
	for p := range labels {
		labels[p] = -1
		if h.noise[p] {
			continue
		}
		for c := h.pointCluster[p]; c >= 0; c = h.Clusters[c].Parent {
			if r, ok := rank[c]; ok {
				labels[p] = r
				break
			}
		}
	}
	return labels
}

// Probabilities returns each point's membership strength in [0, 1]: the
// point's lambda (1/level) relative to the largest lambda among the points
// sharing its label. Noise is 0.
func (h *Hierarchy) Probabilities(labels []int) []float64 {
	maxLambda := make(map[int]float64)
	for p, l := range labels {
		if l < 0 {
			continue
		}
		maxLambda[l] = math.Max(maxLambda[l], lambda(h.pointLevel[p]))
	}

	probs := make([]float64, len(labels))
	for p, l := range labels {
		if l < 0 {
			continue
		}
		probs[p] = ratio(lambda(h.pointLevel[p]), maxLambda[l])
	}
	return probs
}

// selectionRank maps selected cluster labels to their number in label order.
func selectionRank(selected []int) map[int]int {
	sorted := make([]int, len(selected))
	copy(sorted, selected)
	sort.Ints(sorted)

	rank := make(map[int]int, len(sorted))
	for i, c := range sorted {
		rank[c] = i
	}
	return rank
}

// lambda converts a reachability level into a density, 1/level.
func lambda(level float64) float64 {
	if level <= 0 {
		return math.Inf(1)
	}
	return 1 / level
}

// ratio returns v/maximum clamped to [0, 1]. Infinite or zero maxima are
// treated as full membership for points at the maximum.
func ratio(v, maximum float64) float64 {
	switch {
	case math.IsInf(maximum, 1):
		if math.IsInf(v, 1) {
			return 1
		}
		return 0
	case maximum <= 0:
		return 1
	}
	return math.Min(v/maximum, 1)
}
