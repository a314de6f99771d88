package geohdbscan

import (
	"math"
	"testing"
)

func TestLabels_TwoGroupsAndNoise(t *testing.T) {
	h, err := BuildHierarchy(lineMST(true), 3)
	if err != nil {
		t.Fatal(err)
	}
	selected := h.Propagate()
	if !equalInts(selected, []int{1, 2}) {
		t.Fatalf("expected [1 2], got %v", selected)
	}

	labels := h.Labels(selected)

	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first group split: %v", labels)
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second group split: %v", labels)
	}
	if labels[0] == labels[3] || labels[0] < 0 || labels[3] < 0 {
		t.Errorf("groups not separated: %v", labels)
	}
	if labels[6] != -1 {
		t.Errorf("outlier label = %d, want -1", labels[6])
	}
}

func TestLabels_RootSelected(t *testing.T) {
	h, err := BuildHierarchy(lineMST(false), 3)
	if err != nil {
		t.Fatal(err)
	}

	labels := h.Labels([]int{0})
	for p, l := range labels {
		if l != 0 {
			t.Errorf("point %d: label %d, want 0", p, l)
		}
	}
}

func TestLabels_EarlyNoise(t *testing.T) {
	// 0 and 1 fall off the root one at a time before 2..7 split into two
	// clusters of three.
	mst := &MST{
		Edges: []Edge{
			{0, 2, 20},
			{1, 2, 15},
			{2, 3, 1},
			{3, 4, 1},
			{4, 5, 10},
			{5, 6, 1},
			{6, 7, 1},
		},
		n: 8,
	}
	h, err := BuildHierarchy(mst, 3)
	if err != nil {
		t.Fatal(err)
	}

	labels := h.Labels(h.SelectLeaves())

	if labels[0] != -1 || labels[1] != -1 {
		t.Errorf("expected 0 and 1 to be noise, got %v", labels)
	}
	for p := 2; p < 8; p++ {
		if labels[p] < 0 {
			t.Errorf("point %d unexpectedly noise", p)
		}
	}
}

func TestProbabilities(t *testing.T) {
	h, err := BuildHierarchy(lineMST(true), 3)
	if err != nil {
		t.Fatal(err)
	}
	labels := h.Labels(h.Propagate())

	probs := h.Probabilities(labels)

	for p := 0; p < 6; p++ {
		assertFloat(t, "probability", probs[p], 1, 1e-12)
	}
	if probs[6] != 0 {
		t.Errorf("noise probability = %f, want 0", probs[6])
	}
}

func TestProbabilities_Graded(t *testing.T) {
	// 0 -2- 1 -1- 2 -1- 3 -4- 4: with minPts 4, 4 is noise at the top; the
	// rest stay in the root and leave at levels 2, 1, 1, 1.
	mst := &MST{Edges: []Edge{{0, 1, 2}, {1, 2, 1}, {2, 3, 1}, {3, 4, 4}}, n: 5}
	h, err := BuildHierarchy(mst, 4)
	if err != nil {
		t.Fatal(err)
	}
	labels := h.Labels(h.Propagate())

	probs := h.Probabilities(labels)

	assertFloat(t, "point 0", probs[0], 0.5, 1e-12)
	assertFloat(t, "point 1", probs[1], 1, 1e-12)
	if labels[4] != -1 || probs[4] != 0 {
		t.Errorf("point 4: label %d prob %f", labels[4], probs[4])
	}
}

func TestRatio(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		v, max, want float64
	}{
		{1, 2, 0.5},
		{2, 2, 1},
		{3, 2, 1},
		{inf, inf, 1},
		{1, inf, 0},
		{0, 0, 1},
	}
	for _, tc := range tests {
		if got := ratio(tc.v, tc.max); got != tc.want {
			t.Errorf("ratio(%v, %v) = %v, want %v", tc.v, tc.max, got, tc.want)
		}
	}
}
