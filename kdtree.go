package geohdbscan

import (
	"sort"

	"github.com/paulmach/orb"
)

// IndexNode is a single node of a NearestKDTree. Nodes live in the tree's
// arena and refer to each other by label; Parent is a back reference used
// only for upward traversal.
type IndexNode struct {
	Point  orb.Point
	Label  int
	Source int // index into the points the tree was built from
	Axis   int // 0 splits on x (even depth), 1 on y (odd depth)
	Left   int
	Right  int
	Parent int

	neighbors neighborSet
	hasK      bool
	bbox      orb.Bound
	bboxDist  float64 // radius bbox was derived from; negative when unset
}

// SplitValue is the node's coordinate on its split axis.
func (n *IndexNode) SplitValue() float64 { return n.Point[n.Axis] }

// CoreDistance is the largest distance in the node's neighbor set, +Inf until
// at least one neighbor is known.
func (n *IndexNode) CoreDistance() float64 { return n.neighbors.core() }

// HasKNeighbors reports whether the neighbor set has been filled to K.
func (n *IndexNode) HasKNeighbors() bool { return n.hasK }

func (n *IndexNode) isBottom() bool { return n.Left < 0 && n.Right < 0 }

// NearestKDTree is a balanced 2-D kd-tree over deduplicated lon/lat points
// that maintains, per node, the K nearest neighbors under great-circle
// distance.
//
// Nodes are stored in build order: node i has label i, the root is label 0,
// and labels follow a pre-order walk of the tree.
type NearestKDTree struct {
	nodes  []IndexNode
	k      int
	extent orb.Bound
}

// NewNearestKDTree builds a balanced tree from points, which must already be
// free of duplicates (see SnapPoints). k is capped at len(points)-1.
//
// Each level sorts its slice by the active axis (x at even depth, y at odd)
// and takes the median as the node, recursing on the lower and upper halves.
func NewNearestKDTree(points []orb.Point, k int) *NearestKDTree {
	n := len(points)
	k = min(k, n-1)
	k = max(k, 0)

	t := &NearestKDTree{
		nodes: make([]IndexNode, 0, n),
		k:     k,
	}
	if n == 0 {
		return t
	}

	t.extent = orb.Bound{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		t.extent = t.extent.Extend(p)
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	t.build(points, idx, 0, -1)
	return t
}

// build creates the subtree for idx and returns its root label, or -1.
func (t *NearestKDTree) build(points []orb.Point, idx []int, depth, parent int) int {
	if len(idx) == 0 {
		return -1
	}

	axis := depth % 2
	sort.Slice(idx, func(i, j int) bool {
		return lessOnAxis(points[idx[i]], points[idx[j]], axis)
	})

	median := len(idx) / 2
	label := len(t.nodes)
	t.nodes = append(t.nodes, IndexNode{
		Point:     points[idx[median]],
		Label:     label,
		Source:    idx[median],
		Axis:      axis,
		Left:      -1,
		Right:     -1,
		Parent:    parent,
		neighbors: newNeighborSet(t.k),
		bboxDist:  -1,
	})

	left := t.build(points, idx[:median], depth+1, label)
	right := t.build(points, idx[median+1:], depth+1, label)
	t.nodes[label].Left = left
	t.nodes[label].Right = right
	return label
}

// Len returns the number of indexed points.
func (t *NearestKDTree) Len() int { return len(t.nodes) }

// K returns the effective neighbor count.
func (t *NearestKDTree) K() int { return t.k }

// Root returns the root label, or -1 for an empty tree.
func (t *NearestKDTree) Root() int {
	if len(t.nodes) == 0 {
		return -1
	}
	return 0
}

// Extent returns the bounding box of all indexed points.
func (t *NearestKDTree) Extent() orb.Bound { return t.extent }

// Node returns the node with the given label.
func (t *NearestKDTree) Node(label int) *IndexNode { return &t.nodes[label] }

// Point returns the coordinate of the node with the given label.
func (t *NearestKDTree) Point(label int) orb.Point { return t.nodes[label].Point }

// Source returns the index, in the points passed to NewNearestKDTree, of the
// node with the given label.
func (t *NearestKDTree) Source(label int) int { return t.nodes[label].Source }

// CoreDistance returns the core distance of the node with the given label.
func (t *NearestKDTree) CoreDistance(label int) float64 {
	return t.nodes[label].neighbors.core()
}

// Neighbors returns a copy of the node's neighbor set, nearest first.
func (t *NearestKDTree) Neighbors(label int) []Neighbor {
	return t.nodes[label].neighbors.snapshot()
}

// CoreDistances returns the core distance of every node, indexed by label.
// Nodes that never found a neighbor report +Inf.
func (t *NearestKDTree) CoreDistances() []float64 {
	core := make([]float64, len(t.nodes))
	for i := range t.nodes {
		core[i] = t.nodes[i].neighbors.core()
	}
	return core
}

// Query returns the labels of all points inside b, in tree order.
func (t *NearestKDTree) Query(b orb.Bound) []int {
	var result []int
	t.queryNode(t.Root(), b, &result)
	return result
}

func (t *NearestKDTree) queryNode(label int, b orb.Bound, result *[]int) {
	if label < 0 {
		return
	}
	node := &t.nodes[label]
	split := node.SplitValue()

	// Equal split values may sit on either side of a node after the median
	// split, so both comparisons are inclusive.
	if b.Min[node.Axis] <= split {
		t.queryNode(node.Left, b, result)
	}
	if b.Contains(node.Point) {
		*result = append(*result, label)
	}
	if split <= b.Max[node.Axis] {
		t.queryNode(node.Right, b, result)
	}
}

// localCandidates returns the nodes near label without a range query: every
// ancestor up to the root, then a greedy descent through the left and right
// subtrees steered by the node's own coordinate.
func (t *NearestKDTree) localCandidates(label int) []int {
	var path []int
	for cur := t.nodes[label].Parent; cur >= 0; cur = t.nodes[cur].Parent {
		path = append(path, cur)
	}

	target := t.nodes[label].Point
	for _, start := range [2]int{t.nodes[label].Left, t.nodes[label].Right} {
		cur := start
		for cur >= 0 {
			path = append(path, cur)
			node := &t.nodes[cur]
			if node.isBottom() {
				break
			}
			if target[node.Axis] < node.SplitValue() && node.Left >= 0 {
				cur = node.Left
			} else {
				cur = node.Right
			}
		}
	}
	return path
}
