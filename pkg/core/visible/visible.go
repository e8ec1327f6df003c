package visible

import (
	"fmt"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/tree"
)

// DefaultCap is the per-parent child cap used when Options.Cap is not set.
const DefaultCap = 8

// Options controls a reduction. The zero value uses DefaultCap and
// collapses nothing.
type Options struct {
	// Collapsed holds node keys whose subtrees are hidden.
	Collapsed map[string]bool
	// Cap is the number of children shown per parent. Values <= 0 mean
	// DefaultCap.
	Cap int
	// Expanded holds parent keys shown without a cap.
	Expanded map[string]bool
}

// Graph is the visible subset of a forest in emission order.
type Graph struct {
	// Nodes lists emitted nodes depth-first, overflow nodes included.
	Nodes []*tree.Node
	// Edges holds one parent->child edge per emitted non-root node.
	Edges []tree.Edge
	// Overflows lists the synthetic overflow nodes, also present in Nodes.
	Overflows []*tree.Node
}

// Reduce returns the visible graph of roots.
func Reduce(roots []*tree.Node, opts Options) *Graph {
	if opts.Cap <= 0 {
		opts.Cap = DefaultCap
	}
	r := &reducer{
		opts: opts,
		seen: make(map[string]bool),
		g:    &Graph{},
	}
	for _, root := range roots {
		if root == nil || r.seen[root.Key] {
			continue
		}
		r.emit(root)
		r.visit(root)
	}
	return r.g
}

type reducer struct {
	opts Options
	seen map[string]bool
	g    *Graph
}

func (r *reducer) emit(n *tree.Node) {
	r.seen[n.Key] = true
	r.g.Nodes = append(r.g.Nodes, n)
}

func (r *reducer) visit(n *tree.Node) {
	if r.opts.Collapsed[n.Key] || len(n.Children) == 0 {
		return
	}

	children := tree.SortedByOrder(n.Children)
	shown, hidden := children, []*tree.Node(nil)
	if !r.opts.Expanded[n.Key] && len(children) > r.opts.Cap {
		shown, hidden = children[:r.opts.Cap], children[r.opts.Cap:]
	}

	for _, c := range shown {
		if c == nil || r.seen[c.Key] {
			continue
		}
		r.emit(c)
		r.g.Edges = append(r.g.Edges, tree.NewEdge(n.Key, c.Key))
		r.visit(c)
	}

	if len(hidden) > 0 {
		o := overflow(n, hidden)
		r.emit(o)
		r.g.Edges = append(r.g.Edges, tree.NewEdge(n.Key, o.Key))
		r.g.Overflows = append(r.g.Overflows, o)
	}
}

func overflow(parent *tree.Node, hidden []*tree.Node) *tree.Node {
	return &tree.Node{
		Key:       key.Overflow(parent.Key),
		ID:        key.Overflow(parent.ID),
		Kind:      key.KindOverflow,
		ParentKey: parent.Key,
		Order:     hidden[0].Order,
		Title:     fmt.Sprintf("+%d more", len(hidden)),
		Count:     len(hidden),
		Hidden:    hidden,
	}
}

// Node reports whether k was emitted and returns it.
func (g *Graph) Node(k string) (*tree.Node, bool) {
	for _, n := range g.Nodes {
		if n.Key == k {
			return n, true
		}
	}
	return nil, false
}

// Lookup finds k among the emitted nodes, then inside the hidden lists of
// the overflow nodes and their subtrees.
func (g *Graph) Lookup(k string) (*tree.Node, bool) {
	if n, ok := g.Node(k); ok {
		return n, true
	}
	var found *tree.Node
	for _, o := range g.Overflows {
		tree.Walk(o.Hidden, func(n *tree.Node, _ int) bool {
			if found != nil {
				return false
			}
			if n.Key == k {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

// HiddenCount returns the number of children held by overflow nodes.
func (g *Graph) HiddenCount() int {
	total := 0
	for _, o := range g.Overflows {
		total += o.Count
	}
	return total
}

// Keys returns the emitted node keys in emission order.
func (g *Graph) Keys() []string {
	keys := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		keys[i] = n.Key
	}
	return keys
}
