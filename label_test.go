package geohdbscan

import (
	"sort"
	"testing"
)

func TestLabel_FourPointMST(t *testing.T) {
	// Sorted edges: (0,2,1), (2,3,1), (0,1,2).
	//
	//   step 0: find(0)=0, find(2)=2     -> row {0, 2, 1, 2}, id 4
	//   step 1: find(2)=4, find(3)=3     -> row {4, 3, 1, 3}, id 5
	//   step 2: find(0)=5, find(1)=1     -> row {5, 1, 2, 4}, id 6
	edges := []Edge{
		{0, 1, 2},
		{0, 2, 1},
		{2, 3, 1},
	}

	got := Label(edges, 4)

	want := []Merge{
		{0, 2, 1, 2},
		{4, 3, 1, 3},
		{5, 1, 2, 4},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLabel_StableOnTies(t *testing.T) {
	edges := []Edge{
		{3, 2, 5},
		{0, 1, 5},
		{1, 2, 5},
	}

	got := Label(edges, 4)

	if got[0].Left != 3 || got[0].Right != 2 {
		t.Errorf("first row should merge the first tied edge, got %+v", got[0])
	}
	if got[2].Size != 4 {
		t.Errorf("last row size = %d, want 4", got[2].Size)
	}
}

func TestLabel_Empty(t *testing.T) {
	if got := Label(nil, 1); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestSubtreePoints(t *testing.T) {
	merges := Label([]Edge{{0, 2, 1}, {2, 3, 1}, {0, 1, 2}}, 4)

	tests := []struct {
		id   int
		want []int
	}{
		{4, []int{0, 2}},
		{5, []int{0, 2, 3}},
		{6, []int{0, 1, 2, 3}},
		{1, []int{1}},
	}
	for _, tc := range tests {
		got := subtreePoints(merges, tc.id, 4)
		sort.Ints(got)
		if len(got) != len(tc.want) {
			t.Fatalf("subtree %d: got %v, want %v", tc.id, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("subtree %d: got %v, want %v", tc.id, got, tc.want)
			}
		}
		if size := subtreeSize(merges, tc.id, 4); size != len(tc.want) {
			t.Errorf("subtree %d: size %d, want %d", tc.id, size, len(tc.want))
		}
	}
}
