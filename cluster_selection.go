package geohdbscan

import "sort"

// Propagate runs excess-of-mass selection over the hierarchy and returns the
// selected cluster labels in ascending order.
//
// Clusters are visited children first (descending label). Each forwards
// either itself or its descendants' selection into its parent, with the
// root forwarding into a virtual cluster above it. The virtual cluster's
// collected descendants are the selection. Accumulators are reset first, so
// calling Propagate again gives the same result.
func (h *Hierarchy) Propagate() []int {
	if len(h.Clusters) == 0 {
		return nil
	}

	for _, c := range h.Clusters {
		c.resetPropagation()
	}

	top := &Cluster{Label: -1, Parent: -1}
	for i := len(h.Clusters) - 1; i >= 0; i-- {
		c := h.Clusters[i]
		parent := top
		if c.Parent >= 0 {
			parent = h.Clusters[c.Parent]
		}
		c.propagate(parent)
	}

	selected := top.PropagatedDescendants()
	sort.Ints(selected)
	return selected
}

// SelectLeaves selects every cluster that never split, which yields many
// small homogeneous clusters. A hierarchy whose root never split selects the
// root.
func (h *Hierarchy) SelectLeaves() []int {
	var leaves []int
	for _, c := range h.Clusters {
		if !c.HasChildren {
			leaves = append(leaves, c.Label)
		}
	}
	return leaves
}

// Select dispatches on a selection method name: "eom" or "leaf".
func (h *Hierarchy) Select(method string) []int {
	if method == "leaf" {
		return h.SelectLeaves()
	}
	return h.Propagate()
}

// SelectedStabilities maps each selected cluster's position in selected to
// its stability.
func (h *Hierarchy) SelectedStabilities(selected []int) map[int]float64 {
	stab := make(map[int]float64, len(selected))
	for i, c := range selected {
		stab[i] = h.Clusters[c].Stability
	}
	return stab
}
