package geohdbscan

import "github.com/paulmach/orb"

// SpatialIndex is the read interface the MST builder needs from an index
// whose KNN pass has completed. NearestKDTree implements it.
type SpatialIndex interface {
	// Len returns the number of indexed points; labels are 0..Len()-1.
	Len() int

	// Point returns the coordinate of a label.
	Point(label int) orb.Point

	// CoreDistance returns the distance to the label's Kth nearest neighbor.
	CoreDistance(label int) float64

	// Neighbors returns the label's cached nearest neighbors, nearest first.
	Neighbors(label int) []Neighbor

	// Query returns every label whose point lies inside b.
	Query(b orb.Bound) []int

	// Extent returns the bounding box of all indexed points.
	Extent() orb.Bound
}
