package tree

import (
	"github.com/matzehuels/opptree/pkg/core/key"
)

// Forest is the result of a build: the root nodes and an index of every
// node reachable from them.
type Forest struct {
	Roots      []*Node
	NodesByKey map[string]*Node
	// Issues are non-fatal problems found while building.
	Issues []error
}

func newForest() *Forest {
	return &Forest{NodesByKey: make(map[string]*Node)}
}

// Node returns the node with key k.
func (f *Forest) Node(k string) (*Node, bool) {
	n, ok := f.NodesByKey[k]
	return n, ok
}

// Len returns the number of indexed nodes.
func (f *Forest) Len() int { return len(f.NodesByKey) }

// Stats summarizes a forest.
type Stats struct {
	Roots    int
	Nodes    int
	ByKind   map[key.Kind]int
	MaxDepth int
	Issues   int
}

// Stats counts nodes per kind and the deepest level below a root.
func (f *Forest) Stats() Stats {
	s := Stats{
		Roots:  len(f.Roots),
		Nodes:  len(f.NodesByKey),
		ByKind: make(map[key.Kind]int),
		Issues: len(f.Issues),
	}
	Walk(f.Roots, func(n *Node, depth int) bool {
		s.ByKind[n.Kind]++
		s.MaxDepth = max(s.MaxDepth, depth)
		return true
	})
	return s
}

// Walk visits roots and their descendants depth-first in pre-order. The
// children of a node are skipped when fn returns false.
func Walk(roots []*Node, fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if n == nil || !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}
