package geohdbscan

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the sphere radius used by every distance in this package.
// Core distances and mutual reachability weights are in kilometers.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180

// globe is the whole lon/lat domain.
var globe = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// ValidPoint reports whether p is a finite lon/lat coordinate with longitude
// in [-180, 180] and latitude in [-90, 90].
func ValidPoint(p orb.Point) bool {
	lon, lat := p[0], p[1]
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

// Haversine returns the great-circle distance in kilometers between two
// lon/lat points.
func Haversine(a, b orb.Point) float64 {
	lat1 := a[1] * degToRad
	lat2 := b[1] * degToRad
	dLat := (b[1] - a[1]) * degToRad
	dLon := (b[0] - a[0]) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundAround returns a lon/lat box containing every point within radius
// kilometers of p. The longitude half-width comes from the spherical cap,
// asin(sin(r/R) / cos(lat)). The box spans the full longitude range when the
// cap reaches a pole, when that ratio exceeds 1, or when the box would cross
// the antimeridian.
func BoundAround(p orb.Point, radius float64) orb.Bound {
	b := globe

	radLat := p[1] * degToRad
	radLon := p[0] * degToRad
	radDist := radius / EarthRadiusKm

	lo := radLat - radDist
	hi := radLat + radDist
	if lo > -math.Pi/2 {
		b.Min[1] = lo / degToRad
	}
	if hi < math.Pi/2 {
		b.Max[1] = hi / degToRad
	}
	if lo <= -math.Pi/2 || hi >= math.Pi/2 {
		return b
	}

	ratio := math.Sin(radDist) / math.Cos(radLat)
	if ratio >= 1 || radDist >= math.Pi/2 {
		return b
	}
	delta := math.Asin(ratio)
	if radLon-delta < -math.Pi || radLon+delta > math.Pi {
		return b
	}
	b.Min[0] = (radLon - delta) / degToRad
	b.Max[0] = (radLon + delta) / degToRad
	return b
}

// covers reports whether outer contains all of inner.
func covers(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Min[1] <= inner.Min[1] &&
		outer.Max[0] >= inner.Max[0] && outer.Max[1] >= inner.Max[1]
}
