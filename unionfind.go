package geohdbscan

// UnionFind is a disjoint-set forest with path compression and union by
// size. It holds 2n-1 elements so that Label can give every merge its own
// dendrogram ID: points are 0..n-1, merges n..2n-2.
type UnionFind struct {
	parent    []int
	size      []int
	nextLabel int
}

// NewUnionFind creates a forest of n singleton points.
func NewUnionFind(n int) *UnionFind {
	total := max(2*n-1, 1)
	uf := &UnionFind{
		parent:    make([]int, total),
		size:      make([]int, total),
		nextLabel: n,
	}
	for i := range uf.parent {
		uf.parent[i] = -1
	}
	for i := 0; i < n; i++ {
		uf.size[i] = 1
	}
	return uf
}

// Find returns the root of x's set.
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// Union merges the sets of x and y, attaching the smaller under the larger,
// and returns the new root.
func (uf *UnionFind) Union(x, y int) int {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return rx
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return rx
}

// Size returns the number of points in x's set.
func (uf *UnionFind) Size(x int) int { return uf.size[uf.Find(x)] }

// merge joins two roots under a fresh dendrogram ID and returns that ID.
func (uf *UnionFind) merge(ra, rb int) int {
	id := uf.nextLabel
	uf.nextLabel++
	uf.size[id] = uf.size[ra] + uf.size[rb]
	uf.parent[ra] = id
	uf.parent[rb] = id
	return id
}
