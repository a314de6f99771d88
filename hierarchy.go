package geohdbscan

import "fmt"

// noiseOwner marks dendrogram subtrees whose points were detached as noise.
const noiseOwner = -1

// Hierarchy is the cluster tree obtained by cutting the MST at decreasing
// reachability levels. Cluster 0 is the root; children always carry larger
// labels than their parent.
type Hierarchy struct {
	Clusters []*Cluster

	merges []Merge
	n      int
	minPts int

	// Per point: the deepest cluster it belonged to, the level at which it
	// left that cluster, and whether it left as noise.
	pointCluster []int
	pointLevel   []float64
	noise        []bool
}

// BuildHierarchy splits the MST into clusters of at least minPts points.
//
// Edges are removed in decreasing weight order, which is the dendrogram read
// from its last merge back to its first. When a removal splits a cluster's
// component into two pieces:
//
//   - both pieces have at least minPts points: both leave the cluster and
//     become child clusters born at the edge weight;
//   - only one does: the other piece leaves the cluster as noise;
//   - neither does: both pieces stay in the cluster.
//
// A point that ends up alone without having left as noise or moved to a
// child cluster leaves its cluster at that level. Every cluster ends with no
// points; anything else is an invariant error.
func BuildHierarchy(mst *MST, minPts int) (*Hierarchy, error) {
	if minPts < 2 {
		return nil, fmt.Errorf("geohdbscan: minPts must be >= 2, got %d", minPts)
	}

	n := mst.NumPoints()
	h := &Hierarchy{
		n:            n,
		minPts:       minPts,
		pointCluster: make([]int, n),
		pointLevel:   make([]float64, n),
		noise:        make([]bool, n),
	}
	for i := range h.pointCluster {
		h.pointCluster[i] = -1
	}
	if n == 0 {
		return h, nil
	}

	root := h.addCluster(-1, mst.MaxWeight(), n)
	if n == 1 {
		// Nothing to split: the single point stays in the root for good.
		root.NumPoints = 0
		h.pointCluster[0] = root.Label
		return h, nil
	}

	if err := mst.Validate(); err != nil {
		return nil, err
	}
	h.merges = Label(mst.Edges, n)

	owner := make([]int, 2*n-1)
	owner[2*n-2] = root.Label
	for j := len(h.merges) - 1; j >= 0; j-- {
		row := h.merges[j]
		c := owner[n+j]
		if c == noiseOwner {
			owner[row.Left] = noiseOwner
			owner[row.Right] = noiseOwner
			continue
		}
		if err := h.split(c, row, owner); err != nil {
			return nil, err
		}
	}

	for _, c := range h.Clusters {
		if c.NumPoints != 0 {
			return nil, &InvariantError{
				Op:      "hierarchy",
				Cluster: c.Label,
				Node:    -1,
				Count:   c.NumPoints,
				Detail:  "points left in cluster after the last split",
			}
		}
	}
	for p, c := range h.pointCluster {
		if c < 0 {
			return nil, &InvariantError{Op: "hierarchy", Cluster: -1, Node: p, Count: 0, Detail: "point never left the hierarchy"}
		}
	}
	return h, nil
}

// split applies the removal of one dendrogram row to cluster c.
func (h *Hierarchy) split(c int, row Merge, owner []int) error {
	cl := h.Clusters[c]
	w := row.Weight
	ls := subtreeSize(h.merges, row.Left, h.n)
	rs := subtreeSize(h.merges, row.Right, h.n)
	leftBig := ls >= h.minPts
	rightBig := rs >= h.minPts

	switch {
	case leftBig && rightBig:
		if err := cl.DetachPoints(ls, w); err != nil {
			return err
		}
		if err := cl.DetachPoints(rs, w); err != nil {
			return err
		}
		cl.HasChildren = true
		owner[row.Left] = h.addCluster(c, w, ls).Label
		owner[row.Right] = h.addCluster(c, w, rs).Label

	case leftBig || rightBig:
		small, big, size := row.Right, row.Left, rs
		if rightBig {
			small, big, size = row.Left, row.Right, ls
		}
		if err := cl.DetachPoints(size, w); err != nil {
			return err
		}
		for _, p := range subtreePoints(h.merges, small, h.n) {
			h.leave(p, c, w)
			h.noise[p] = true
		}
		owner[small] = noiseOwner
		owner[big] = c

	default:
		for _, piece := range [2]int{row.Left, row.Right} {
			owner[piece] = c
			if piece >= h.n {
				continue
			}
			if err := cl.DetachPoints(1, w); err != nil {
				return err
			}
			h.leave(piece, c, w)
		}
	}
	return nil
}

func (h *Hierarchy) addCluster(parent int, birth float64, size int) *Cluster {
	c := newCluster(len(h.Clusters), parent, birth, size)
	h.Clusters = append(h.Clusters, c)
	return c
}

func (h *Hierarchy) leave(p, cluster int, level float64) {
	h.pointCluster[p] = cluster
	h.pointLevel[p] = level
}

// NumPoints returns the number of points the hierarchy was built over.
func (h *Hierarchy) NumPoints() int { return h.n }

// MinPts returns the minimum cluster size used to build the hierarchy.
func (h *Hierarchy) MinPts() int { return h.minPts }

// Root returns the root cluster, or nil for an empty hierarchy.
func (h *Hierarchy) Root() *Cluster {
	if len(h.Clusters) == 0 {
		return nil
	}
	return h.Clusters[0]
}

// Merges returns the single-linkage dendrogram the hierarchy was cut from.
func (h *Hierarchy) Merges() []Merge { return h.merges }

// IsNoise reports whether point p left the hierarchy as noise.
func (h *Hierarchy) IsNoise(p int) bool { return h.noise[p] }

// PointCluster returns the deepest cluster point p belonged to.
func (h *Hierarchy) PointCluster(p int) int { return h.pointCluster[p] }

// PointLevel returns the reachability level at which p left PointCluster(p).
// It is 0 for a hierarchy over a single point.
func (h *Hierarchy) PointLevel(p int) float64 { return h.pointLevel[p] }

// Children returns the labels of the clusters born from c.
func (h *Hierarchy) Children(c int) []int {
	var children []int
	for _, cl := range h.Clusters[c+1:] {
		if cl.Parent == c {
			children = append(children, cl.Label)
		}
	}
	return children
}
