package geohdbscan

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
)

// Algorithm selects the MST construction strategy.
type Algorithm string

const (
	AlgorithmAuto    Algorithm = "auto"
	AlgorithmSpatial Algorithm = "spatial"
	AlgorithmBrute   Algorithm = "brute"
)

// Config controls clustering. Start with [DefaultConfig] and override the
// fields you need.
type Config struct {
	// K is the neighbor count behind the core distance: a point's core
	// distance is the great-circle distance to its Kth nearest neighbor.
	// Capped at the number of unique points minus one. Must be >= 1.
	// Default: 32.
	K int

	// Tolerance is the coordinate snapping precision in degrees. Points that
	// snap to the same coordinate are clustered as one. 0 disables snapping.
	// Must be >= 0. Default: 0.001.
	Tolerance float64

	// MinPts is the smallest group of points considered a cluster.
	// Must be >= 2. Default: 5.
	MinPts int

	// Reachability selects the edge weight: "full" is max(core(a), core(b),
	// d(a, b)); "coremax" drops the distance term and can merge groups that
	// full reachability keeps apart (see [Reachability]). Default: "full".
	Reachability Reachability

	// Algorithm selects the MST construction strategy. "spatial" grows the
	// tree over the kd index; "brute" runs an exhaustive O(n²) Prim and only
	// supports full reachability; "auto" chooses by input size.
	// Default: "auto".
	Algorithm Algorithm

	// SelectionMethod chooses how flat clusters are extracted from the
	// hierarchy. "eom" (excess of mass) maximizes stability; "leaf" selects
	// every cluster that never split. Default: "eom".
	SelectionMethod string

	// Logger receives stage timings at debug level and degenerate input
	// notices. Default: slog.Default().
	Logger *slog.Logger
}

// Result contains the output of a clustering run.
//
// Labels, Probabilities and OutlierScores have one entry per input point.
// Points and CoreDistances have one entry per node, that is per unique point
// after snapping; NodeOf maps every input point to its node.
type Result struct {
	// Labels assigns each input point to a cluster (0-indexed) or -1 for noise.
	Labels []int

	// Probabilities indicates how strongly each point belongs to its cluster,
	// in [0, 1]. Noise points have probability 0.
	Probabilities []float64

	// OutlierScores is the GLOSH score of each point, in [0, 1]. Values near
	// 0 indicate inliers.
	OutlierScores []float64

	// Stabilities maps cluster numbers (as used in Labels) to stability.
	Stabilities map[int]float64

	// NumClusters is the number of selected clusters.
	NumClusters int

	// Points holds the node coordinates, one per unique point after
	// snapping. MST edges and hierarchy point indices refer to these.
	Points []orb.Point

	// CoreDistances is the core distance of each node in km.
	CoreDistances []float64

	// NodeOf maps each input point to its node in Points.
	NodeOf []int

	// Algorithm is the MST strategy that actually ran.
	Algorithm Algorithm

	MST       *MST
	Hierarchy *Hierarchy

	// Selected holds the hierarchy labels of the selected clusters, in the
	// order their numbers are assigned.
	Selected []int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		K:               32,
		Tolerance:       0.001,
		MinPts:          5,
		Reachability:    ReachabilityFull,
		Algorithm:       AlgorithmAuto,
		SelectionMethod: "eom",
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive
// error if not.
func validateConfig(cfg *Config) error {
	if err := validateTreeConfig(cfg); err != nil {
		return err
	}
	if cfg.MinPts < 2 {
		return fmt.Errorf("geohdbscan: MinPts must be >= 2, got %d", cfg.MinPts)
	}
	if cfg.SelectionMethod != "eom" && cfg.SelectionMethod != "leaf" {
		return fmt.Errorf("geohdbscan: SelectionMethod must be \"eom\" or \"leaf\", got %q", cfg.SelectionMethod)
	}
	return nil
}

// validateTreeConfig checks the fields the MST stages read.
func validateTreeConfig(cfg *Config) error {
	if cfg.K < 1 {
		return fmt.Errorf("geohdbscan: K must be >= 1, got %d", cfg.K)
	}
	if cfg.Tolerance < 0 {
		return fmt.Errorf("geohdbscan: Tolerance must be >= 0, got %f", cfg.Tolerance)
	}
	switch cfg.Reachability {
	case ReachabilityFull, ReachabilityCoreMax:
	default:
		return fmt.Errorf("geohdbscan: Reachability must be %q or %q, got %q",
			ReachabilityFull, ReachabilityCoreMax, cfg.Reachability)
	}
	switch cfg.Algorithm {
	case AlgorithmAuto, AlgorithmSpatial, AlgorithmBrute:
	default:
		return fmt.Errorf("geohdbscan: invalid Algorithm %q", cfg.Algorithm)
	}
	return nil
}

// validatePoints rejects coordinates outside the lon/lat domain, NaN and
// infinities included.
func validatePoints(points []orb.Point) error {
	for i, p := range points {
		if !ValidPoint(p) {
			return fmt.Errorf("geohdbscan: point %d has invalid coordinates %v", i, p)
		}
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
// Tolerance is left alone since 0 is meaningful.
func applyDefaults(cfg *Config) {
	if cfg.K == 0 {
		cfg.K = 32
	}
	if cfg.Reachability == "" {
		cfg.Reachability = ReachabilityFull
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmAuto
	}
	if cfg.SelectionMethod == "" {
		cfg.SelectionMethod = "eom"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// emptyResult returns a Result for zero input points with non-nil slices.
func emptyResult() *Result {
	return &Result{
		Labels:        []int{},
		Probabilities: []float64{},
		OutlierScores: []float64{},
		Stabilities:   map[int]float64{},
		Points:        []orb.Point{},
		CoreDistances: []float64{},
		NodeOf:        []int{},
		MST:           &MST{},
		Hierarchy:     &Hierarchy{},
	}
}

// ClusterPoints runs HDBSCAN* over lon/lat points: snap and deduplicate,
// compute core distances, build the mutual reachability MST, cut it into a
// cluster hierarchy, select clusters and label every input point.
//
// Returns an error if the config or a coordinate is invalid, or an error
// wrapping ErrInvariant if an internal consistency check fails.
func ClusterPoints(points []orb.Point, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	r, err := spanningTree(points, cfg)
	if err != nil || len(points) == 0 {
		return r, err
	}

	start := time.Now()
	h, err := BuildHierarchy(r.MST, cfg.MinPts)
	if err != nil {
		return nil, err
	}
	selected := h.Select(cfg.SelectionMethod)
	nodeLabels := h.Labels(selected)
	nodeProbs := h.Probabilities(nodeLabels)
	nodeScores := h.OutlierScores()
	cfg.Logger.Debug("hierarchy", "clusters", len(h.Clusters), "selected", len(selected), "elapsed", time.Since(start))

	r.Labels = make([]int, len(points))
	r.Probabilities = make([]float64, len(points))
	r.OutlierScores = make([]float64, len(points))
	r.Stabilities = h.SelectedStabilities(selected)
	r.NumClusters = len(selected)
	r.Hierarchy = h
	r.Selected = selected
	for i, node := range r.NodeOf {
		r.Labels[i] = nodeLabels[node]
		r.Probabilities[i] = nodeProbs[node]
		r.OutlierScores[i] = nodeScores[node]
	}
	return r, nil
}

// SpanningTree runs the stages of [ClusterPoints] up to the mutual
// reachability MST and stops there. MinPts and SelectionMethod are ignored.
// The Result carries Points, CoreDistances, NodeOf, Algorithm and MST; the
// clustering fields are left empty.
func SpanningTree(points []orb.Point, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateTreeConfig(&cfg); err != nil {
		return nil, err
	}
	return spanningTree(points, cfg)
}

func spanningTree(points []orb.Point, cfg Config) (*Result, error) {
	log := cfg.Logger

	if len(points) == 0 {
		return emptyResult(), nil
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}

	start := time.Now()
	unique, index := SnapPoints(points, cfg.Tolerance)
	log.Debug("snapped points", "input", len(points), "unique", len(unique), "elapsed", time.Since(start))
	if len(unique) == 1 && len(points) > 1 {
		log.Info("all points identical after snapping", "input", len(points), "tolerance", cfg.Tolerance)
	}

	algo, err := selectAlgorithm(cfg, len(unique))
	if err != nil {
		return nil, err
	}

	var (
		nodePoints []orb.Point
		core       []float64
		nodeOf     = make([]int, len(unique))
		mst        *MST
	)
	switch algo {
	case AlgorithmBrute:
		start = time.Now()
		nodePoints = unique
		core = ComputeCoreDistances(unique, cfg.K)
		for i := range nodeOf {
			nodeOf[i] = i
		}
		log.Debug("core distances", "algorithm", algo, "elapsed", time.Since(start))

		start = time.Now()
		mst = PrimMSTVector(unique, core)
		log.Debug("mst", "algorithm", algo, "edges", len(mst.Edges), "elapsed", time.Since(start))

	default:
		start = time.Now()
		tree := NewNearestKDTree(unique, cfg.K)
		if err := tree.FindKNN(); err != nil {
			return nil, err
		}
		nodePoints = make([]orb.Point, tree.Len())
		for label := range nodePoints {
			nodePoints[label] = tree.Point(label)
			nodeOf[tree.Source(label)] = label
		}
		core = tree.CoreDistances()
		log.Debug("knn", "algorithm", algo, "k", tree.K(), "elapsed", time.Since(start))

		start = time.Now()
		mst, err = BuildMST(tree, cfg.Reachability)
		if err != nil {
			return nil, err
		}
		log.Debug("mst", "algorithm", algo, "edges", len(mst.Edges), "elapsed", time.Since(start))
	}

	if err := mst.Validate(); err != nil {
		return nil, err
	}

	r := &Result{
		Points:        nodePoints,
		CoreDistances: core,
		NodeOf:        make([]int, len(points)),
		Algorithm:     algo,
		MST:           mst,
	}
	for i := range points {
		r.NodeOf[i] = nodeOf[index[i]]
	}
	return r, nil
}

// Segment is a line between two labelled locations with a weight, ready for
// geometry export.
type Segment struct {
	A, B     int
	From, To orb.Point
	Weight   float64
}

// MSTSegments returns one segment per MST edge, between node coordinates.
func (r *Result) MSTSegments() []Segment {
	segs := make([]Segment, 0, len(r.MST.Edges))
	for _, e := range r.MST.Edges {
		segs = append(segs, Segment{
			A:      e.From,
			B:      e.To,
			From:   r.Points[e.From],
			To:     r.Points[e.To],
			Weight: e.Weight,
		})
	}
	return segs
}

// ClusterSegments returns one segment per parent/child link of the cluster
// hierarchy. Each end sits at the center of the bounding box of the points
// that belonged to that cluster or its descendants; the weight is the
// child's birth level. Clusters without any member are skipped.
func (r *Result) ClusterSegments() []Segment {
	h := r.Hierarchy
	if h == nil || len(h.Clusters) == 0 {
		return nil
	}

	bounds := make([]orb.Bound, len(h.Clusters))
	seen := make([]bool, len(h.Clusters))
	for p := 0; p < h.NumPoints(); p++ {
		for c := h.PointCluster(p); c >= 0; c = h.Clusters[c].Parent {
			if !seen[c] {
				bounds[c] = orb.Bound{Min: r.Points[p], Max: r.Points[p]}
				seen[c] = true
				continue
			}
			bounds[c] = bounds[c].Extend(r.Points[p])
		}
	}

	var segs []Segment
	for _, c := range h.Clusters[1:] {
		if !seen[c.Label] || !seen[c.Parent] {
			continue
		}
		segs = append(segs, Segment{
			A:      c.Parent,
			B:      c.Label,
			From:   bounds[c.Parent].Center(),
			To:     bounds[c.Label].Center(),
			Weight: c.BirthLevel,
		})
	}
	return segs
}
