package layout

import (
	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/visible"
)

// Box is a node to be placed.
type Box struct {
	ID     string   `json:"id"`
	Kind   key.Kind `json:"kind"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Link is a parent->child connection between two boxes.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Input is what a Layouter places.
type Input struct {
	Nodes []Box  `json:"nodes"`
	Edges []Link `json:"edges"`
}

// Point is the center of a placed box.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps box ids to their centers.
type Positions map[string]Point

// Layouter assigns positions to an Input.
type Layouter interface {
	Layout(in Input) Positions
}

// Size is the declared extent of a box.
type Size struct {
	Width, Height float64
}

var sizes = map[key.Kind]Size{
	key.KindGoal:        {Width: 260, Height: 96},
	key.KindGroup:       {Width: 200, Height: 48},
	key.KindOpportunity: {Width: 240, Height: 88},
	key.KindSolution:    {Width: 220, Height: 80},
	key.KindExperiment:  {Width: 200, Height: 72},
	key.KindOverflow:    {Width: 120, Height: 40},
}

// DefaultSize applies to kinds missing from the size table.
var DefaultSize = Size{Width: 200, Height: 80}

// SizeOf returns the declared size of a node of kind k.
func SizeOf(k key.Kind) Size {
	if s, ok := sizes[k]; ok {
		return s
	}
	return DefaultSize
}

// FromVisible builds the layout input of a visible graph, preserving
// emission order.
func FromVisible(g *visible.Graph) Input {
	in := Input{
		Nodes: make([]Box, 0, len(g.Nodes)),
		Edges: make([]Link, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		s := SizeOf(n.Kind)
		in.Nodes = append(in.Nodes, Box{ID: n.Key, Kind: n.Kind, Width: s.Width, Height: s.Height})
	}
	for _, e := range g.Edges {
		in.Edges = append(in.Edges, Link{Source: e.Source, Target: e.Target})
	}
	return in
}

// Bounds is an axis-aligned rectangle, Y growing downwards.
type Bounds struct {
	Left, Right float64
	Top, Bottom float64
}

// Width returns the horizontal span.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center.
func (b Bounds) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center.
func (b Bounds) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// BoxBounds returns the rectangle of b centred on p.
func BoxBounds(b Box, p Point) Bounds {
	return Bounds{
		Left:   p.X - b.Width/2,
		Right:  p.X + b.Width/2,
		Top:    p.Y - b.Height/2,
		Bottom: p.Y + b.Height/2,
	}
}

// Extent returns the rectangle covering every placed box of in. Boxes
// without a position are ignored.
func Extent(in Input, pos Positions) Bounds {
	var (
		out   Bounds
		first = true
	)
	for _, b := range in.Nodes {
		p, ok := pos[b.ID]
		if !ok {
			continue
		}
		r := BoxBounds(b, p)
		if first {
			out, first = r, false
			continue
		}
		out.Left = min(out.Left, r.Left)
		out.Right = max(out.Right, r.Right)
		out.Top = min(out.Top, r.Top)
		out.Bottom = max(out.Bottom, r.Bottom)
	}
	return out
}
