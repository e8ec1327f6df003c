// Package visible reduces a forest to the nodes and edges that should be
// drawn.
//
// # Overview
//
// [Reduce] walks each root depth-first and emits every node it reaches,
// honoring two independent limits:
//
//   - A collapsed node is emitted but its subtree is not. Nothing stands in
//     for the hidden children: collapse means intentionally hidden.
//   - A node with more children than the cap shows only the first Cap
//     children by order. The remainder is replaced by a single synthetic
//     overflow node keyed [key.Overflow] of the parent.
//
// The cap is applied per parent, so a wide tree with many capped parents
// can still produce a long visible list.
//
// # Overflow Nodes
//
// An overflow node carries the hidden children verbatim in
// [tree.Node.Hidden] and their number in [tree.Node.Count]. The hidden
// nodes are not re-nested or indexed, which is why [Graph.Lookup] searches
// the remainder lists directly. Overflow nodes never recurse.
//
// Listing a parent in [Options.Expanded] lifts its cap, which is how a
// caller pages an overflow fully open.
//
// # Purity
//
// Reduce reads its inputs and allocates a fresh [Graph]. Node pointers in
// the result are shared with the input forest and must be treated as
// read-only.
package visible
