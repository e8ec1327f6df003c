package tree

import (
	"cmp"
	"slices"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/record"
)

// DefaultStatus is the status of a record that has none.
const DefaultStatus = "draft"

// Node is a materialized view of one record, or a synthetic group or
// overflow node. Nodes are snapshots and must not be mutated.
type Node struct {
	Key       string
	ID        string
	Kind      key.Kind
	ParentKey string // Empty for roots
	Order     float64

	Title       string
	Description string
	Status      string
	Owner       string

	Children []*Node

	// Stage is the effective stage id of an opportunity, or the bucket
	// stage of a group node.
	Stage string
	// Hypothesis and Result are set on experiments.
	Hypothesis string
	Result     string
	// Nested marks a sub-opportunity inside an opportunity or a
	// sub-solution inside a solution.
	Nested bool

	// Count is the bucket size of a group node or the hidden-child count
	// of an overflow node.
	Count int
	// Hidden holds the children an overflow node stands in for, verbatim.
	Hidden []*Node

	// Raw is the source record. Nil for synthetic nodes.
	Raw record.Record
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Synthetic reports whether n was produced by the engine rather than
// materialized from a record.
func (n *Node) Synthetic() bool { return n.Kind.Synthetic() }

// Edge is a directed parent-to-child connection.
type Edge struct {
	ID     string
	Source string
	Target string
}

// NewEdge returns the edge from source to target with its canonical id.
func NewEdge(source, target string) Edge {
	return Edge{ID: key.Edge(source, target), Source: source, Target: target}
}

// allowedChildren is the closed parent/child table.
var allowedChildren = map[key.Kind][]key.Kind{
	key.KindGoal:        {key.KindOpportunity, key.KindGroup},
	key.KindGroup:       {key.KindOpportunity},
	key.KindOpportunity: {key.KindOpportunity, key.KindSolution},
	key.KindSolution:    {key.KindSolution, key.KindExperiment},
	key.KindExperiment:  nil,
	key.KindOverflow:    nil,
}

// CanContain reports whether a node of kind parent may have a child of kind child.
func CanContain(parent, child key.Kind) bool {
	return slices.Contains(allowedChildren[parent], child)
}

// defaultTitles is the per-kind fallback title.
var defaultTitles = map[key.Kind]string{
	key.KindGoal:        "Untitled goal",
	key.KindOpportunity: "Untitled opportunity",
	key.KindSolution:    "Untitled solution",
	key.KindExperiment:  "Untitled experiment",
}

// DefaultTitle returns the title used for a record of kind k with no title.
func DefaultTitle(k key.Kind) string { return defaultTitles[k] }

// SortByOrder stable-sorts nodes by Order in place.
func SortByOrder(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int { return cmp.Compare(a.Order, b.Order) })
}

// SortedByOrder returns a stable-sorted copy of nodes.
func SortedByOrder(nodes []*Node) []*Node {
	out := slices.Clone(nodes)
	SortByOrder(out)
	return out
}
