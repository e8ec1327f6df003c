// Package tree turns nested goal records into a typed, navigable forest of
// immutable view nodes.
//
// # Overview
//
// The persistence layer hands the engine a slice of [record.Goal] values,
// each owning a nested tree of opportunities, solutions and experiments.
// This package materializes every record into a [Node], applying unsaved
// local edits from a [record.Overrides] map on the way, and indexes the
// result by node key:
//
//	f := tree.Build(goals, overrides, tree.Options{})
//	n, ok := f.Node("solution:9b2e")
//
// Every call produces a fresh [Forest]. Nothing is cached and neither the
// records nor the overrides are modified, so callers may memoize on input
// identity.
//
// # Node Kinds
//
// Node kind is an explicit tag ([key.Kind]), never inferred from shape. The
// allowed parent/child pairs live in one table checked by [CanContain]:
//
//	goal        -> opportunity, group
//	group       -> opportunity
//	opportunity -> opportunity, solution
//	solution    -> solution, experiment
//	experiment  -> (leaf)
//	overflow    -> (leaf)
//
// Adding a kind means updating that table, the default-field table used by
// [Materialize], and the size table in package layout together.
//
// # Field Precedence
//
// [Materialize] resolves each field as override > record > kind default.
// Sibling order resolves as override order > record order > record
// position > index in the parent's array. Children are stable-sorted by
// that order, so ties keep array position.
//
// # Grouping
//
// [BuildGrouped] is an alternate presentation of the same records. The
// opportunities directly under each goal are bucketed by stage into
// synthetic group nodes, in canonical stage order with the reserved
// [Unassigned] bucket last. Empty buckets are not emitted. Stages outside
// the enumeration land in Unassigned and are reported as issues. Bucket
// members keep their source order.
//
// # Issues
//
// Building never fails. Malformed override keys, unknown stages, duplicate
// keys and subtrees deeper than [Options.MaxDepth] are recorded on
// [Forest.Issues] as structured errors and the rest of the forest is built
// normally.
//
// # Finding Records
//
// [Find] works on the raw records rather than a built forest. It runs the
// same descent as the builder and stops at the first record matching a key,
// returning it with its structural parent, owning top-level opportunity and
// root goal.
package tree
