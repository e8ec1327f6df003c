// Package graph provides serialization types for opportunity forests and
// rendered views.
//
// This package defines the wire format for opptree's output, used for JSON
// files, preview-server responses and the in-process memo cache.
//
// # Architecture
//
// The package sits at the serialization boundary between the engine's
// pointer-linked trees and flat external formats:
//
//   - [Graph]: every node of a built forest, flattened in pre-order
//   - [View]: the visible subset with positions and active-path flags
//   - [Node], [Edge]: shared structural types
//
// Use [FromForest] and [FromVisible] to convert engine values.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format keyed by node key:
//
//	{
//	  "nodes": [
//	    {"key": "goal:g1", "kind": "goal", "title": "Grow activation", "depth": 0},
//	    {"key": "opportunity:o1", "kind": "opportunity", "parent": "goal:g1", "depth": 1}
//	  ],
//	  "edges": [{"id": "goal:g1->opportunity:o1", "from": "goal:g1", "to": "opportunity:o1"}]
//	}
//
// Non-fatal build issues travel with the graph under "issues", each with a
// machine-readable code.
//
// Common operations:
//
//	graph.WriteGraphFile(forest, "forest.json")  // Forest → File
//	data, _ := graph.MarshalGraph(forest)         // Forest → []byte
//	g, _ := graph.UnmarshalGraph(data)            // []byte → Graph
//
// # View Serialization
//
// A [View] adds what a front end needs to draw: box sizes and centers from
// the layout, the overall extent, overflow counts with the keys they
// stand in for, and whether each node or edge is on the active path.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
