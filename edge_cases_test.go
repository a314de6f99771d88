package geohdbscan

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestEdgeCase_SinglePoint(t *testing.T) {
	result, err := ClusterPoints([]orb.Point{{1, 1}}, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Labels) != 1 || result.Labels[0] != 0 {
		t.Errorf("expected [0], got %v", result.Labels)
	}
	if result.NumClusters != 1 {
		t.Errorf("expected 1 cluster, got %d", result.NumClusters)
	}
	if result.Probabilities[0] != 1 || result.OutlierScores[0] != 0 {
		t.Errorf("probability %f, outlier score %f", result.Probabilities[0], result.OutlierScores[0])
	}
	if len(result.MST.Edges) != 0 {
		t.Errorf("expected no MST edges, got %d", len(result.MST.Edges))
	}
}

func TestEdgeCase_TwoPoints(t *testing.T) {
	result, err := ClusterPoints([]orb.Point{{0, 0}, {1, 1}}, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.MST.Edges) != 1 {
		t.Fatalf("expected 1 MST edge, got %d", len(result.MST.Edges))
	}
	for i, l := range result.Labels {
		if l != 0 {
			t.Errorf("point %d: label %d, want 0", i, l)
		}
		assertFloat(t, "probability", result.Probabilities[i], 1, 1e-12)
	}
}

func TestEdgeCase_MinPtsGreaterThanN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPts = 50
	cfg.K = 3

	result, err := ClusterPoints(randomPoints(101, 10, 0, 0, 1), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NumClusters != 1 {
		t.Errorf("expected only the root, got %d clusters", result.NumClusters)
	}
	for i, l := range result.Labels {
		if l != 0 {
			t.Errorf("point %d: label %d, want 0", i, l)
		}
	}
}

func TestEdgeCase_KGreaterThanN(t *testing.T) {
	points := randomPoints(103, 6, 0, 0, 1)
	cfg := DefaultConfig()
	cfg.MinPts = 2
	cfg.Tolerance = 0

	cfg.K = 100
	large, err := ClusterPoints(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.K = 5
	capped, err := ClusterPoints(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range points {
		a := large.CoreDistances[large.NodeOf[i]]
		b := capped.CoreDistances[capped.NodeOf[i]]
		assertFloat(t, "core distance", a, b, 0)
	}
}

func TestEdgeCase_ProbabilitiesAndScoresInRange(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmSpatial, AlgorithmBrute} {
		cfg := DefaultConfig()
		cfg.K = 5
		cfg.Algorithm = algo

		result, err := ClusterPoints(randomPoints(107, 300, 100, -10, 5), cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", algo, err)
		}
		for i := range result.Labels {
			if p := result.Probabilities[i]; p < 0 || p > 1 {
				t.Errorf("%s: point %d probability %f", algo, i, p)
			}
			if s := result.OutlierScores[i]; s < 0 || s > 1 {
				t.Errorf("%s: point %d outlier score %f", algo, i, s)
			}
			if result.Labels[i] < -1 || result.Labels[i] >= result.NumClusters {
				t.Errorf("%s: point %d label %d out of range", algo, i, result.Labels[i])
			}
			if result.Labels[i] == -1 && result.Probabilities[i] != 0 {
				t.Errorf("%s: noise point %d has probability %f", algo, i, result.Probabilities[i])
			}
		}
	}
}

func TestEdgeCase_CoreMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 4
	cfg.Reachability = ReachabilityCoreMax

	result, err := ClusterPoints(randomPoints(109, 200, 0, 0, 2), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Algorithm != AlgorithmSpatial {
		t.Errorf("coremax must run on the spatial index, got %q", result.Algorithm)
	}
	if err := result.MST.Validate(); err != nil {
		t.Errorf("invalid MST: %v", err)
	}
	if len(result.MST.Edges) != len(result.Points)-1 {
		t.Errorf("expected %d edges, got %d", len(result.Points)-1, len(result.MST.Edges))
	}
}

func TestEdgeCase_ClusterAcrossAntimeridian(t *testing.T) {
	points := []orb.Point{
		{179.997, 10}, {-179.997, 10}, {-179.9995, 10.005},
		{0, 10}, {0.006, 10}, {0.0025, 10.005},
	}
	cfg := DefaultConfig()
	cfg.K = 2
	cfg.MinPts = 3
	cfg.Tolerance = 0

	result, err := ClusterPoints(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := result.Labels
	if result.NumClusters != 2 {
		t.Fatalf("expected 2 clusters, got %d (labels %v)", result.NumClusters, l)
	}
	if l[0] < 0 || l[0] != l[1] || l[1] != l[2] {
		t.Errorf("antimeridian group split: %v", l)
	}
	if l[3] < 0 || l[3] != l[4] || l[4] != l[5] || l[3] == l[0] {
		t.Errorf("unexpected labels %v", l)
	}
}
