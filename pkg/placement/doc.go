// Package placement computes starfield positions for tree nodes.
//
// # Overview
//
// Positions are computed once, when a node is created, from three inputs:
// the node's fixed sibling index, its parent's position and the root's
// position. Existing nodes never move, so the functions here only have to
// guarantee that a new node does not land on any of its siblings.
//
// Children of the root are arranged by [Ring] on expanding rings: the
// radius grows with every sibling, each ring is rotated by the golden angle
// relative to the previous one and rings alternate above and below the
// root's plane. Children of any other node follow [Helix]: they step
// outward along the root-to-parent direction while winding around it.
//
// The wide-aggregation layout is not a separate algorithm. It is [Ring]
// with the [AggregationProfile] constants, anchored at the aggregation
// node instead of the root and stacked vertically ring by ring.
//
// # Degenerate input
//
// Placement never fails. A parent sitting on the root, a direction
// parallel to world-up or any non-finite intermediate value is replaced by
// a deterministic fallback and reported to [observability.PlacementHooks].
//
// [observability.PlacementHooks]: github.com/matzehuels/treescape/pkg/observability
package placement
