// Package layout is the boundary between the visible graph and whatever
// assigns positions to it.
//
// # Contract
//
// A [Layouter] receives boxes with a declared size per node kind and the
// parent/child links between them, and returns a center point per box id.
// Implementations must be pure: identical [Input] yields identical
// [Positions]. The engine does not care how positions are computed.
//
//	in := layout.FromVisible(g)
//	pos := layout.Tidy{}.Layout(in)
//
// # Sizes
//
// [SizeOf] is the per-kind size table. It is kept next to the node-kind
// table in package tree; a new kind needs an entry in both.
//
// # Tidy
//
// [Tidy] is the bundled layouter: a layered tree layout with one rank per
// depth, leaves packed left to right in input order, and each parent
// centred over its first and last child.
package layout
