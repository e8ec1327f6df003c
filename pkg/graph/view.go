package graph

import (
	"github.com/matzehuels/opptree/pkg/core/layout"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/visible"
)

// =============================================================================
// View - Positioned Visible Graph
// =============================================================================

// View is the serialization format for a reduced, laid out forest.
type View struct {
	Focus    string  `json:"focus,omitempty"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Nodes    []Node  `json:"nodes"`
	Edges    []Edge  `json:"edges"`
	Overflow int     `json:"overflow,omitempty"`
	Issues   []Issue `json:"issues,omitempty"`
}

// FromVisible builds a View from a visible graph, the positions a
// layouter assigned to it, and the active path. Positions are shifted so
// the extent starts at the origin. Node depth is counted from the
// graph's roots.
func FromVisible(g *visible.Graph, pos layout.Positions, p path.Path) View {
	in := layout.FromVisible(g)
	ext := layout.Extent(in, pos)

	depth := make(map[string]int, len(g.Nodes))
	out := View{
		Width:    ext.Width(),
		Height:   ext.Height(),
		Nodes:    make([]Node, 0, len(g.Nodes)),
		Edges:    make([]Edge, 0, len(g.Edges)),
		Overflow: g.HiddenCount(),
	}
	for _, n := range g.Nodes {
		d := 0
		if pd, ok := depth[n.ParentKey]; ok {
			d = pd + 1
		}
		depth[n.Key] = d

		node := nodeFrom(n, d)
		size := layout.SizeOf(n.Kind)
		node.Width, node.Height = size.Width, size.Height
		if pt, ok := pos[n.Key]; ok {
			node.X, node.Y = pt.X-ext.Left, pt.Y-ext.Top
		}
		node.Active = p.HasNode(n.Key)
		out.Nodes = append(out.Nodes, node)
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, Edge{ID: e.ID, From: e.Source, To: e.Target, Active: p.HasEdge(e.ID)})
	}
	return out
}
