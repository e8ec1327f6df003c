// Package key encodes and decodes the node keys that thread identity through
// the tree engine.
//
// # Overview
//
// Every node in a forest, real or synthetic, is identified by one opaque
// string. A key is a [Kind] and an id joined by [Separator]:
//
//	goal:8f1c...          a root goal
//	opportunity:41aa...   an opportunity (top-level or nested)
//	group:8f1c...:explore a stage bucket owned by goal 8f1c...
//	solution:9b2e...:overflow
//	                      the overflow placeholder under a solution
//
// [Decode] splits at the first separator only. Everything after it is the
// id and is never re-split, so composite ids (groups, overflow) survive a
// round trip unchanged. Use [SplitGroup] to take a group id apart.
//
// # Failure Mode
//
// Decoding never panics. A key with fewer than two components, or with an
// empty kind or id, reports false from [Decode] and an INVALID_KEY error
// from [Parse]. Callers on the rendering path should prefer Decode and fall
// back to an empty result.
//
// # Edges
//
// Edge ids are built with [Edge] from the two endpoint keys. The visibility
// reducer and the active-path calculator both use it, so a highlighted edge
// id always matches an emitted edge id.
package key
