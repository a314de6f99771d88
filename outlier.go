package geohdbscan

import "math"

// OutlierScores computes GLOSH scores in [0, 1] for every point. A point's
// score is (λmax - λp) / λmax, where λp is the density at which it left its
// deepest cluster C and λmax is the highest such density among all points
// that left C or any of its descendants. Values near 0 are inliers.
func (h *Hierarchy) OutlierScores() []float64 {
	scores := make([]float64, h.n)
	if len(h.Clusters) == 0 {
		return scores
	}

	deaths := make([]float64, len(h.Clusters))
	for p, c := range h.pointCluster {
		deaths[c] = math.Max(deaths[c], lambda(h.pointLevel[p]))
	}
	// Children carry larger labels, so one descending pass folds every
	// subtree into its root.
	for i := len(h.Clusters) - 1; i > 0; i-- {
		parent := h.Clusters[i].Parent
		deaths[parent] = math.Max(deaths[parent], deaths[i])
	}

	for p, c := range h.pointCluster {
		lambdaMax := deaths[c]
		lp := lambda(h.pointLevel[p])
		if lambdaMax == 0 || math.IsInf(lp, 1) || math.IsInf(lambdaMax, 1) {
			continue
		}
		scores[p] = (lambdaMax - lp) / lambdaMax
	}
	return scores
}
