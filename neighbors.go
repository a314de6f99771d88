package geohdbscan

import (
	"math"
	"sort"
)

// Neighbor is one entry of a node's nearest-neighbor set.
type Neighbor struct {
	Label    int
	Distance float64
}

// neighborSet is a fixed-capacity set of neighbors kept sorted by distance
// (ties by label). It never holds more than k entries or the same label twice.
type neighborSet struct {
	k     int
	items []Neighbor
}

func newNeighborSet(k int) neighborSet {
	return neighborSet{k: k, items: make([]Neighbor, 0, k)}
}

func (s *neighborSet) len() int { return len(s.items) }

func (s *neighborSet) full() bool { return s.k > 0 && len(s.items) >= s.k }

func (s *neighborSet) contains(label int) bool {
	for _, nb := range s.items {
		if nb.Label == label {
			return true
		}
	}
	return false
}

// core returns the largest stored distance, or +Inf while the set is empty.
func (s *neighborSet) core() float64 {
	if len(s.items) == 0 {
		return math.Inf(1)
	}
	return s.items[len(s.items)-1].Distance
}

// add offers a neighbor at distance d. While the set has room the neighbor is
// inserted; once full it replaces the farthest entry only when strictly
// closer. Reports whether the set changed.
func (s *neighborSet) add(label int, d float64) bool {
	if s.k <= 0 || s.contains(label) {
		return false
	}
	if len(s.items) >= s.k {
		if d >= s.core() {
			return false
		}
		s.items = s.items[:len(s.items)-1]
	}

	nb := Neighbor{Label: label, Distance: d}
	i := sort.Search(len(s.items), func(i int) bool {
		it := s.items[i]
		if it.Distance != d {
			return it.Distance > d
		}
		return it.Label > label
	})
	s.items = append(s.items, Neighbor{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = nb
	return true
}

// median returns the median neighbor distance. With an even count it is the
// mean of the two middle distances.
func (s *neighborSet) median() (float64, bool) {
	n := len(s.items)
	if n == 0 {
		return 0, false
	}
	if n%2 == 0 {
		return (s.items[n/2].Distance + s.items[n/2-1].Distance) / 2, true
	}
	return s.items[n/2].Distance, true
}

// higher returns the smallest stored distance strictly greater than d.
func (s *neighborSet) higher(d float64) (float64, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].Distance > d })
	if i == len(s.items) {
		return 0, false
	}
	return s.items[i].Distance, true
}

func (s *neighborSet) snapshot() []Neighbor {
	out := make([]Neighbor, len(s.items))
	copy(out, s.items)
	return out
}
