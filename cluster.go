package geohdbscan

import "fmt"

// Cluster is one node of the cluster hierarchy. Clusters live in the
// hierarchy's arena; Label is the arena index and Parent a back reference
// (-1 for the root).
type Cluster struct {
	Label      int
	Parent     int
	BirthLevel float64
	DeathLevel float64 // 0 while the cluster still holds points
	Size       int     // points at birth
	NumPoints  int     // points not yet detached
	Stability  float64

	HasChildren bool

	propagatedStability   float64
	propagatedDescendants []int
}

// minLevel floors the levels that enter 1/level, so points that still sit
// 0 km apart after snapping add a large but finite stability.
const minLevel = 1e-9

func newCluster(label, parent int, birth float64, size int) *Cluster {
	return &Cluster{
		Label:      label,
		Parent:     parent,
		BirthLevel: birth,
		Size:       size,
		NumPoints:  size,
	}
}

// DetachPoints removes num points from the cluster at the given level and
// adds their contribution num*(1/level - 1/birth) to its stability, both
// levels floored at minLevel. The cluster dies when its last point leaves.
func (c *Cluster) DetachPoints(num int, level float64) error {
	remaining := c.NumPoints - num
	if remaining < 0 {
		return &InvariantError{
			Op:      "hierarchy",
			Cluster: c.Label,
			Node:    -1,
			Count:   remaining,
			Detail:  fmt.Sprintf("detaching %d of %d points", num, c.NumPoints),
		}
	}

	c.Stability += float64(num) * (1/max(level, minLevel) - 1/max(c.BirthLevel, minLevel))
	c.NumPoints = remaining
	if remaining == 0 {
		c.DeathLevel = level
	}
	return nil
}

// PropagatedStability is the stability the cluster forwarded to its parent
// in the last propagation.
func (c *Cluster) PropagatedStability() float64 { return c.propagatedStability }

// PropagatedDescendants are the clusters the cluster forwarded to its parent
// in the last propagation: itself, or its selected descendants.
func (c *Cluster) PropagatedDescendants() []int {
	out := make([]int, len(c.propagatedDescendants))
	copy(out, c.propagatedDescendants)
	return out
}

// propagate forwards the cluster's choice into parent's aggregates. A leaf
// forwards itself. A cluster with children keeps itself when its own
// stability is at least what its descendants forwarded, ties going to the
// cluster; otherwise it passes the descendants up unchanged.
func (c *Cluster) propagate(parent *Cluster) {
	if !c.HasChildren || c.Stability >= c.propagatedStability {
		parent.propagatedStability += c.Stability
		parent.propagatedDescendants = append(parent.propagatedDescendants, c.Label)
		return
	}
	parent.propagatedStability += c.propagatedStability
	parent.propagatedDescendants = append(parent.propagatedDescendants, c.propagatedDescendants...)
}

func (c *Cluster) resetPropagation() {
	c.propagatedStability = 0
	c.propagatedDescendants = c.propagatedDescendants[:0]
}
