package geohdbscan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant is wrapped by every InvariantError. An invariant failure means
// the index, MST or hierarchy is internally inconsistent; the run is aborted.
var ErrInvariant = errors.New("geohdbscan: internal invariant violated")

// InvariantError describes a structural failure with enough context to
// reproduce it.
type InvariantError struct {
	Op      string // stage that failed: "knn", "mst", "hierarchy", ...
	Cluster int    // cluster label, -1 when not applicable
	Node    int    // point/node label, -1 when not applicable
	Count   int    // offending count
	Detail  string
}

func (e *InvariantError) Error() string {
	var ctx []string
	if e.Cluster >= 0 {
		ctx = append(ctx, fmt.Sprintf("cluster %d", e.Cluster))
	}
	if e.Node >= 0 {
		ctx = append(ctx, fmt.Sprintf("node %d", e.Node))
	}
	ctx = append(ctx, fmt.Sprintf("count %d", e.Count))
	return fmt.Sprintf("geohdbscan: %s: %s (%s)", e.Op, e.Detail, strings.Join(ctx, ", "))
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
