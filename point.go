package geohdbscan

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// SnapPoints snaps every coordinate to the given tolerance and removes exact
// duplicates. It returns the unique points sorted by (x, y) and, for every
// input point, the index of its unique representative.
//
// A tolerance of 0 disables snapping; exact duplicates are still removed,
// as are neighbors in sort order that lie 0 km apart by [Haversine].
// Longitude 180 is folded onto -180 so both spellings of the antimeridian
// collapse to one point.
func SnapPoints(points []orb.Point, tolerance float64) ([]orb.Point, []int) {
	snapped := make([]orb.Point, len(points))
	for i, p := range points {
		snapped[i] = snapPoint(p, tolerance)
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lessXY(snapped[order[a]], snapped[order[b]])
	})

	unique := make([]orb.Point, 0, len(points))
	index := make([]int, len(points))
	for _, i := range order {
		p := snapped[i]
		if len(unique) == 0 || !samePlace(unique[len(unique)-1], p) {
			unique = append(unique, p)
		}
		index[i] = len(unique) - 1
	}

	return unique, index
}

func snapPoint(p orb.Point, tolerance float64) orb.Point {
	x, y := p[0], p[1]
	if tolerance > 0 {
		x = math.Round(x/tolerance) * tolerance
		y = math.Round(y/tolerance) * tolerance
	}
	if x == 180 {
		x = -180
	}
	return orb.Point{x, y}
}

func samePlace(a, b orb.Point) bool {
	return a.Equal(b) || Haversine(a, b) == 0
}

// lessXY orders points by x, then y.
func lessXY(a, b orb.Point) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// lessOnAxis orders points by the given axis, breaking ties on the other one.
func lessOnAxis(a, b orb.Point, axis int) bool {
	other := 1 - axis
	if a[axis] != b[axis] {
		return a[axis] < b[axis]
	}
	return a[other] < b[other]
}
