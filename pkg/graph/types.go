package graph

import (
	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/errors"
)

// =============================================================================
// Graph - Forest Serialization
// =============================================================================

// Graph is the serialization format for a built forest.
type Graph struct {
	Roots  []string `json:"roots"`
	Nodes  []Node   `json:"nodes"`
	Edges  []Edge   `json:"edges"`
	Issues []Issue  `json:"issues,omitempty"`
}

// =============================================================================
// Node - Unified Node Type
// =============================================================================

// Node is the flat node type shared by Graph and View.
type Node struct {
	Key         string   `json:"key"`
	ID          string   `json:"id"`
	Kind        key.Kind `json:"kind"`
	Parent      string   `json:"parent,omitempty"`
	Depth       int      `json:"depth"`
	Order       float64  `json:"order"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	Stage       string   `json:"stage,omitempty"`
	Hypothesis  string   `json:"hypothesis,omitempty"`
	Result      string   `json:"result,omitempty"`
	Nested      bool     `json:"nested,omitempty"`
	Children    int      `json:"children"`

	// Count is the bucket size of a group or the hidden count of an overflow.
	Count int `json:"count,omitempty"`
	// Hidden lists the keys an overflow node stands in for.
	Hidden []string `json:"hidden,omitempty"`

	// View-only fields.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Active bool    `json:"active,omitempty"`
}

// IsSynthetic reports whether the node is a group or overflow node.
func (n *Node) IsSynthetic() bool { return n.Kind.Synthetic() }

// =============================================================================
// Edge - Parent/Child Link
// =============================================================================

// Edge is a parent->child link.
type Edge struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Active bool   `json:"active,omitempty"`
}

// Issue is a serialized non-fatal build issue.
type Issue struct {
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

// =============================================================================
// Forest ↔ Graph Conversion
// =============================================================================

// FromForest flattens f in depth-first pre-order, the order a tree view
// lists it in.
func FromForest(f *tree.Forest) Graph {
	out := Graph{
		Roots:  make([]string, 0, len(f.Roots)),
		Nodes:  make([]Node, 0, f.Len()),
		Edges:  make([]Edge, 0, f.Len()),
		Issues: FromIssues(f.Issues),
	}
	for _, r := range f.Roots {
		out.Roots = append(out.Roots, r.Key)
	}

	seen := make(map[string]bool, f.Len())
	tree.Walk(f.Roots, func(n *tree.Node, depth int) bool {
		if seen[n.Key] {
			return false
		}
		seen[n.Key] = true
		out.Nodes = append(out.Nodes, nodeFrom(n, depth))
		if n.ParentKey != "" && depth > 0 {
			e := tree.NewEdge(n.ParentKey, n.Key)
			out.Edges = append(out.Edges, Edge{ID: e.ID, From: e.Source, To: e.Target})
		}
		return true
	})
	return out
}

// FromIssues converts forest issues to their serialized form.
func FromIssues(errs []error) []Issue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Issue, len(errs))
	for i, err := range errs {
		out[i] = Issue{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	}
	return out
}

func nodeFrom(n *tree.Node, depth int) Node {
	out := Node{
		Key:         n.Key,
		ID:          n.ID,
		Kind:        n.Kind,
		Parent:      n.ParentKey,
		Depth:       depth,
		Order:       n.Order,
		Title:       n.Title,
		Description: n.Description,
		Status:      n.Status,
		Owner:       n.Owner,
		Stage:       n.Stage,
		Hypothesis:  n.Hypothesis,
		Result:      n.Result,
		Nested:      n.Nested,
		Children:    len(n.Children),
		Count:       n.Count,
	}
	for _, h := range n.Hidden {
		out.Hidden = append(out.Hidden, h.Key)
	}
	return out
}

// ToForest rebuilds a forest from its serialized form. Nodes are linked
// through their parent key in listing order, so a Graph produced by
// FromForest round-trips. Nodes whose parent is not listed are dropped
// and Raw is not restored.
func (g Graph) ToForest() *tree.Forest {
	f := &tree.Forest{NodesByKey: make(map[string]*tree.Node, len(g.Nodes))}
	for _, gn := range g.Nodes {
		if _, dup := f.NodesByKey[gn.Key]; dup {
			continue
		}
		n := &tree.Node{
			Key:         gn.Key,
			ID:          gn.ID,
			Kind:        gn.Kind,
			ParentKey:   gn.Parent,
			Order:       gn.Order,
			Title:       gn.Title,
			Description: gn.Description,
			Status:      gn.Status,
			Owner:       gn.Owner,
			Stage:       gn.Stage,
			Hypothesis:  gn.Hypothesis,
			Result:      gn.Result,
			Nested:      gn.Nested,
			Count:       gn.Count,
		}
		if gn.Depth > 0 {
			parent, ok := f.NodesByKey[gn.Parent]
			if !ok {
				continue
			}
			parent.Children = append(parent.Children, n)
		}
		f.NodesByKey[n.Key] = n
	}
	for _, k := range g.Roots {
		if n, ok := f.NodesByKey[k]; ok {
			f.Roots = append(f.Roots, n)
		}
	}
	for _, is := range g.Issues {
		f.Issues = append(f.Issues, errors.New(is.Code, "%s", is.Message))
	}
	return f
}
