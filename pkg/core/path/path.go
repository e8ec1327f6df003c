// Package path computes the active path of a focused node: the chain of
// ancestors up to its root plus every descendant below it.
//
// Renderers use the result to highlight nodes and edges. A missing or
// unknown focus yields an empty path, never an error.
package path

import (
	"slices"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/tree"
)

// Path is the set of node keys and edge ids on the active path.
type Path struct {
	Nodes map[string]bool
	Edges map[string]bool
}

func empty() Path {
	return Path{Nodes: make(map[string]bool), Edges: make(map[string]bool)}
}

// Compute returns the active path of focus within index. Ancestors are
// found by following ParentKey, descendants by walking Children. Both
// walks stop at a node already on the path.
func Compute(index map[string]*tree.Node, focus string) Path {
	p := empty()
	start, ok := index[focus]
	if !ok || start == nil {
		return p
	}
	p.Nodes[focus] = true

	for n := start; n.ParentKey != ""; {
		parent, ok := index[n.ParentKey]
		if !ok || parent == nil {
			break
		}
		p.Edges[key.Edge(parent.Key, n.Key)] = true
		if p.Nodes[parent.Key] {
			break
		}
		p.Nodes[parent.Key] = true
		n = parent
	}

	var down func(n *tree.Node)
	down = func(n *tree.Node) {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			p.Edges[key.Edge(n.Key, c.Key)] = true
			if p.Nodes[c.Key] {
				continue
			}
			p.Nodes[c.Key] = true
			down(c)
		}
	}
	down(start)
	return p
}

// HasNode reports whether k is on the path.
func (p Path) HasNode(k string) bool { return p.Nodes[k] }

// HasEdge reports whether the edge with id is on the path.
func (p Path) HasEdge(id string) bool { return p.Edges[id] }

// Empty reports whether the path holds no nodes.
func (p Path) Empty() bool { return len(p.Nodes) == 0 }

// SortedNodes returns the node keys in lexical order.
func (p Path) SortedNodes() []string {
	keys := make([]string, 0, len(p.Nodes))
	for k := range p.Nodes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SortedEdges returns the edge ids in lexical order.
func (p Path) SortedEdges() []string {
	ids := make([]string, 0, len(p.Edges))
	for id := range p.Edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
