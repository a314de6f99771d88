package geohdbscan

import (
	"errors"
	"testing"
)

// lineMST is two groups of three points joined by a weight-10 edge, plus an
// optional far point hanging off the second group at weight 50.
//
//	0 -1- 1 -1- 2 -10- 3 -1- 4 -1- 5 (-50- 6)
func lineMST(withOutlier bool) *MST {
	edges := []Edge{
		{0, 1, 1},
		{1, 2, 1},
		{2, 3, 10},
		{3, 4, 1},
		{4, 5, 1},
	}
	n := 6
	if withOutlier {
		edges = append(edges, Edge{5, 6, 50})
		n = 7
	}
	return &MST{Edges: edges, n: n}
}

func TestBuildHierarchy_TwoGroups(t *testing.T) {
	h, err := BuildHierarchy(lineMST(false), 3)
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	if len(h.Clusters) != 3 {
		t.Fatalf("expected root + 2 children, got %d clusters", len(h.Clusters))
	}
	root := h.Root()
	assertFloat(t, "root birth", root.BirthLevel, 10, 0)
	assertFloat(t, "root stability", root.Stability, 0, 1e-12)
	if !root.HasChildren {
		t.Error("root should have children")
	}

	for _, c := range h.Clusters[1:] {
		if c.Parent != 0 || c.Size != 3 {
			t.Errorf("cluster %d: parent %d size %d", c.Label, c.Parent, c.Size)
		}
		assertFloat(t, "birth", c.BirthLevel, 10, 0)
		// 3 * (1/1 - 1/10)
		assertFloat(t, "stability", c.Stability, 2.7, 1e-12)
		assertFloat(t, "death", c.DeathLevel, 1, 0)
	}
	for _, c := range h.Clusters {
		if c.NumPoints != 0 {
			t.Errorf("cluster %d still holds %d points", c.Label, c.NumPoints)
		}
	}

	if got := h.Children(0); len(got) != 2 {
		t.Errorf("Children(0) = %v", got)
	}
	for p := 0; p < 6; p++ {
		if h.IsNoise(p) {
			t.Errorf("point %d marked noise", p)
		}
		assertFloat(t, "level", h.PointLevel(p), 1, 0)
	}
	if h.PointCluster(0) != h.PointCluster(2) || h.PointCluster(0) == h.PointCluster(3) {
		t.Errorf("unexpected point clusters %v", h.pointCluster)
	}
}

func TestBuildHierarchy_SmallPieceIsNoise(t *testing.T) {
	h, err := BuildHierarchy(lineMST(true), 3)
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	root := h.Root()
	assertFloat(t, "root birth", root.BirthLevel, 50, 0)
	// The outlier leaves at the birth level, the 6 others at 10:
	// 6 * (1/10 - 1/50) = 0.48.
	assertFloat(t, "root stability", root.Stability, 0.48, 1e-12)

	if !h.IsNoise(6) {
		t.Error("point 6 should be noise")
	}
	if h.PointCluster(6) != 0 {
		t.Errorf("noise point left cluster %d, want 0", h.PointCluster(6))
	}
	for p := 0; p < 6; p++ {
		if h.IsNoise(p) {
			t.Errorf("point %d should not be noise", p)
		}
	}
}

func TestBuildHierarchy_NeitherPieceLargeEnough(t *testing.T) {
	// 0 -2- 1 -1- 2 -3- 3 with minPts 4: no split leaves a piece of 4
	// points, so all points stay in the root until isolated.
	mst := &MST{Edges: []Edge{{0, 1, 2}, {1, 2, 1}, {2, 3, 3}}, n: 4}

	h, err := BuildHierarchy(mst, 4)
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	if len(h.Clusters) != 1 {
		t.Fatalf("expected only the root, got %d clusters", len(h.Clusters))
	}
	// Point 3 leaves at 3 (the birth), point 0 at 2, points 1 and 2 at 1:
	// 0 + (1/2 - 1/3) + 2 * (1 - 1/3) = 1/6 + 4/3.
	assertFloat(t, "stability", h.Root().Stability, 1.0/6+4.0/3, 1e-12)
	wantLevels := []float64{2, 1, 1, 3}
	for p, w := range wantLevels {
		assertFloat(t, "level", h.PointLevel(p), w, 0)
		if h.IsNoise(p) || h.PointCluster(p) != 0 {
			t.Errorf("point %d: noise %v cluster %d", p, h.IsNoise(p), h.PointCluster(p))
		}
	}
}

func TestBuildHierarchy_SinglePoint(t *testing.T) {
	h, err := BuildHierarchy(&MST{n: 1}, 5)
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	if len(h.Clusters) != 1 || h.Root().Stability != 0 || h.Root().NumPoints != 0 {
		t.Errorf("unexpected hierarchy %+v", h.Root())
	}
	if h.PointCluster(0) != 0 {
		t.Errorf("point cluster = %d, want 0", h.PointCluster(0))
	}
}

func TestBuildHierarchy_Empty(t *testing.T) {
	h, err := BuildHierarchy(&MST{}, 5)
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	if h.Root() != nil || h.NumPoints() != 0 {
		t.Errorf("expected an empty hierarchy")
	}
}

func TestBuildHierarchy_RejectsInvalidInput(t *testing.T) {
	if _, err := BuildHierarchy(lineMST(false), 1); err == nil {
		t.Error("expected an error for minPts 1")
	}

	broken := &MST{Edges: []Edge{{0, 1, 1}, {1, 0, 1}}, n: 3}
	if _, err := BuildHierarchy(broken, 2); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected an invariant error for a cyclic MST, got %v", err)
	}
}

func TestBuildHierarchy_LabelsIncreaseDownward(t *testing.T) {
	tree := knnTree(t, randomPoints(61, 150, 0, 0, 1), 4)
	mst, err := BuildMST(tree, ReachabilityFull)
	if err != nil {
		t.Fatal(err)
	}
	h, err := BuildHierarchy(mst, 4)
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	for _, c := range h.Clusters[1:] {
		if c.Parent >= c.Label {
			t.Errorf("cluster %d has parent %d", c.Label, c.Parent)
		}
		if c.BirthLevel > h.Clusters[c.Parent].BirthLevel {
			t.Errorf("cluster %d born above its parent", c.Label)
		}
	}
	for _, c := range h.Clusters {
		if c.Stability < 0 {
			t.Errorf("cluster %d has negative stability %f", c.Label, c.Stability)
		}
		if c.NumPoints != 0 {
			t.Errorf("cluster %d still holds %d points", c.Label, c.NumPoints)
		}
	}
}
