package geohdbscan

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/simple"
)

// maxSearchRounds bounds the doubling bbox search for a single best edge.
// Doubling from any positive radius covers the globe long before this.
const maxSearchRounds = 128

// Edge is one MST edge between two index labels.
type Edge struct {
	From   int
	To     int
	Weight float64
}

// MST is a minimum spanning tree over the labels 0..n-1 of a spatial index,
// weighted by mutual reachability. Edges are in the order Prim added them.
type MST struct {
	Edges []Edge
	n     int
}

// NumPoints returns the number of vertices the tree spans.
func (m *MST) NumPoints() int { return m.n }

// TotalWeight returns the sum of all edge weights.
func (m *MST) TotalWeight() float64 {
	return floats.Sum(m.weights())
}

// MaxWeight returns the largest edge weight, or 0 for a tree without edges.
func (m *MST) MaxWeight() float64 {
	if len(m.Edges) == 0 {
		return 0
	}
	return floats.Max(m.weights())
}

func (m *MST) weights() []float64 {
	w := make([]float64, len(m.Edges))
	for i, e := range m.Edges {
		w[i] = e.Weight
	}
	return w
}

// Sorted returns a copy of the edges ordered by ascending weight. Equal
// weights keep their insertion order.
func (m *MST) Sorted() []Edge {
	sorted := make([]Edge, len(m.Edges))
	copy(sorted, m.Edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight < sorted[j].Weight
	})
	return sorted
}

// Validate checks that the edges form a spanning tree: n-1 edges, endpoints
// in range, no self loops and no cycles.
func (m *MST) Validate() error {
	if m.n == 0 {
		if len(m.Edges) != 0 {
			return &InvariantError{Op: "mst", Cluster: -1, Node: -1, Count: len(m.Edges), Detail: "edges in an empty tree"}
		}
		return nil
	}
	if len(m.Edges) != m.n-1 {
		return &InvariantError{Op: "mst", Cluster: -1, Node: -1, Count: len(m.Edges),
			Detail: fmt.Sprintf("expected %d edges", m.n-1)}
	}

	uf := NewUnionFind(m.n)
	for _, e := range m.Edges {
		if e.From < 0 || e.From >= m.n || e.To < 0 || e.To >= m.n {
			return &InvariantError{Op: "mst", Cluster: -1, Node: max(e.From, e.To), Count: m.n, Detail: "edge endpoint out of range"}
		}
		if e.From == e.To {
			return &InvariantError{Op: "mst", Cluster: -1, Node: e.From, Count: 1, Detail: "self loop"}
		}
		if uf.Find(e.From) == uf.Find(e.To) {
			return &InvariantError{Op: "mst", Cluster: -1, Node: e.To, Count: len(m.Edges), Detail: "cycle"}
		}
		uf.Union(e.From, e.To)
	}
	return nil
}

// Graph returns the tree as a weighted undirected gonum graph whose node IDs
// are index labels. The tree should be valid.
func (m *MST) Graph() *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < m.n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range m.Edges {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(int64(e.From)), simple.Node(int64(e.To)), e.Weight))
	}
	return g
}

// candidate is a tree node's best known edge to a node outside the tree.
type candidate struct {
	from   int
	to     int
	weight float64
	dist   float64
}

func (c candidate) less(o candidate) bool {
	if c.weight != o.weight {
		return c.weight < o.weight
	}
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	if c.from != o.from {
		return c.from < o.from
	}
	return c.to < o.to
}

type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].less(h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// primBuilder grows the tree from label 0.
type primBuilder struct {
	idx    SpatialIndex
	mode   Reachability
	inTree []bool
	heap   candidateHeap
}

// BuildMST computes the mutual reachability minimum spanning tree of an index
// whose KNN pass has completed.
//
// The tree grows from label 0. Every tree node keeps its best edge to a node
// outside the tree in a min-heap keyed by weight. A node's best edge comes
// from its cached neighbors when that is provably optimal, otherwise from a
// bbox search that starts at the node's core distance and doubles its radius
// until the best candidate lies within the radius or the box spans the whole
// index. When a popped edge's target has already joined the tree, the source
// node's best edge is recomputed and pushed again.
func BuildMST(idx SpatialIndex, mode Reachability) (*MST, error) {
	n := idx.Len()
	mst := &MST{n: n}
	if n <= 1 {
		return mst, nil
	}

	b := &primBuilder{
		idx:    idx,
		mode:   mode,
		inTree: make([]bool, n),
	}
	mst.Edges = make([]Edge, 0, n-1)

	if err := b.join(0); err != nil {
		return nil, err
	}
	for len(mst.Edges) < n-1 {
		if b.heap.Len() == 0 {
			return nil, &InvariantError{Op: "mst", Cluster: -1, Node: -1, Count: len(mst.Edges),
				Detail: "no candidate edge left for an incomplete tree"}
		}
		c := heap.Pop(&b.heap).(candidate)
		if b.inTree[c.to] {
			if err := b.refresh(c.from); err != nil {
				return nil, err
			}
			continue
		}

		mst.Edges = append(mst.Edges, Edge{From: c.from, To: c.to, Weight: c.weight})
		if err := b.join(c.to); err != nil {
			return nil, err
		}
		if err := b.refresh(c.from); err != nil {
			return nil, err
		}
	}
	return mst, nil
}

// join moves label into the tree and pushes its best edge.
func (b *primBuilder) join(label int) error {
	b.inTree[label] = true
	return b.refresh(label)
}

// refresh pushes label's current best edge, if any node remains outside.
func (b *primBuilder) refresh(label int) error {
	c, ok, err := b.best(label)
	if err != nil || !ok {
		return err
	}
	heap.Push(&b.heap, c)
	return nil
}

// bound is the quantity a search radius must cover for a candidate to be
// final: the weight under full reachability, the distance otherwise.
func (b *primBuilder) bound(c candidate) float64 {
	if b.mode == ReachabilityCoreMax {
		return c.dist
	}
	return c.weight
}

func (b *primBuilder) consider(best *candidate, found *bool, u, v int) {
	if v == u || b.inTree[v] {
		return
	}
	d := Haversine(b.idx.Point(u), b.idx.Point(v))
	c := candidate{
		from:   u,
		to:     v,
		weight: b.mode.weight(b.idx.CoreDistance(u), b.idx.CoreDistance(v), d),
		dist:   d,
	}
	if b.mode == ReachabilityCoreMax {
		// Nearest remaining point wins; weight only orders the heap.
		if !*found || d < best.dist || (d == best.dist && v < best.to) {
			*best, *found = c, true
		}
		return
	}
	if !*found || c.less(*best) {
		*best, *found = c, true
	}
}

// best finds label's cheapest edge to a node outside the tree. ok is false
// when every node is already in the tree.
func (b *primBuilder) best(u int) (candidate, bool, error) {
	var (
		best  candidate
		found bool
	)

	core := b.idx.CoreDistance(u)
	for _, nb := range b.idx.Neighbors(u) {
		b.consider(&best, &found, u, nb.Label)
	}
	// Every point closer than the core distance is a cached neighbor.
	if found && b.bound(best) <= core {
		return best, true, nil
	}

	extent := b.idx.Extent()
	r := core
	if !(r > 0) || math.IsInf(r, 1) {
		r = 1e-3
	}
	p := b.idx.Point(u)
	for round := 0; round < maxSearchRounds; round++ {
		box := BoundAround(p, r)
		full := box == globe || covers(box, extent)
		if full {
			box = extent
		}
		for _, v := range b.idx.Query(box) {
			b.consider(&best, &found, u, v)
		}
		if full || (found && b.bound(best) <= r) {
			return best, found, nil
		}
		r *= 2
	}
	return candidate{}, false, &InvariantError{Op: "mst", Cluster: -1, Node: u, Count: maxSearchRounds,
		Detail: "best edge search did not converge"}
}
