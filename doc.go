// Package geohdbscan implements HDBSCAN* (Hierarchical Density-Based Spatial
// Clustering of Applications with Noise) over lon/lat points under
// great-circle distance.
//
// A run goes through four sequential stages:
//
//  1. Points are snapped to a tolerance and deduplicated (SnapPoints).
//  2. A balanced 2-D kd index is built over the unique points and every node
//     finds its K nearest neighbors by expanding bounding-box queries
//     (NewNearestKDTree, FindKNN). The Kth neighbor distance is the core
//     distance.
//  3. A minimum spanning tree over mutual reachability is grown from the
//     index (BuildMST).
//  4. The MST is cut at decreasing levels into a cluster hierarchy whose
//     stabilities select a flat clustering (BuildHierarchy, Propagate).
//
// Basic usage:
//
//	cfg := geohdbscan.DefaultConfig()
//	cfg.MinPts = 10
//	result, err := geohdbscan.ClusterPoints(points, cfg)
//	// result.Labels[i] is the cluster of points[i] (-1 = noise)
//	// result.OutlierScores[i] is 0 for inliers, towards 1 for outliers
//
// # Reachability
//
// Config.Reachability defaults to "full", the canonical mutual reachability
// max(core(a), core(b), d(a, b)). "coremax" drops the distance term, which
// reproduces hierarchies built with that approximation but can merge nearby
// groups whose gap is no larger than their core distances.
//
// SpanningTree stops after the MST for callers that only need the tree.
//
// Distances are in kilometers on a sphere of radius EarthRadiusKm.
package geohdbscan
