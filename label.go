package geohdbscan

// Merge is one row of a single-linkage dendrogram: the two subtrees joined at
// Weight and the number of points below the merge. Subtree IDs below n are
// points; row i itself has ID n+i.
type Merge struct {
	Left   int
	Right  int
	Weight float64
	Size   int
}

// Label turns MST edges into a single-linkage dendrogram. Edges are merged
// in ascending weight order (stable on ties), so reading the rows from last
// to first removes the edges in decreasing weight order.
func Label(edges []Edge, n int) []Merge {
	if len(edges) == 0 {
		return nil
	}

	sorted := (&MST{Edges: edges}).Sorted()
	uf := NewUnionFind(n)

	merges := make([]Merge, 0, len(sorted))
	for _, e := range sorted {
		ra := uf.Find(e.From)
		rb := uf.Find(e.To)
		id := uf.merge(ra, rb)
		merges = append(merges, Merge{
			Left:   ra,
			Right:  rb,
			Weight: e.Weight,
			Size:   uf.size[id],
		})
	}
	return merges
}

// subtreeSize returns the number of points below dendrogram node id.
func subtreeSize(merges []Merge, id, n int) int {
	if id < n {
		return 1
	}
	return merges[id-n].Size
}

// subtreePoints returns the points below dendrogram node id, breadth first.
func subtreePoints(merges []Merge, id, n int) []int {
	var points []int
	queue := []int{id}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		if x < n {
			points = append(points, x)
			continue
		}
		row := merges[x-n]
		queue = append(queue, row.Left, row.Right)
	}
	return points
}
